package metrics

import "time"

// SolveRecord captures the outcome of a single assignment run.
type SolveRecord struct {
	RunID     string
	Backend   string
	Status    string
	Objective float64
	Students  int
	Groups    int
	Duration  time.Duration
	SolvedAt  time.Time
}

// GroupRecord captures per-group statistics of a solved assignment.
type GroupRecord struct {
	RunID     string
	Group     string
	Size      int
	ScoreSum  float64
	ScoreMean float64
	SolvedAt  time.Time
}

// Sink records solve outcomes for observability purposes.
type Sink interface {
	RecordSolve(rec SolveRecord) error
}

// GroupRecorder is implemented by sinks that also track per-group statistics.
type GroupRecorder interface {
	RecordGroups(recs []GroupRecord) error
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordSolve(SolveRecord) error    { return nil }
func (NopSink) RecordGroups([]GroupRecord) error { return nil }
