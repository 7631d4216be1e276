package metrics

// MultiSink fans solve records out to multiple sinks.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordSolve forwards the record to all sinks, returning the first error encountered.
func (m *MultiSink) RecordSolve(rec SolveRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordSolve(rec); err != nil {
			return err
		}
	}
	return nil
}

// RecordGroups forwards group statistics when supported by the sink.
func (m *MultiSink) RecordGroups(recs []GroupRecord) error {
	for _, s := range m.Sinks {
		if gr, ok := s.(GroupRecorder); ok {
			if err := gr.RecordGroups(recs); err != nil {
				return err
			}
		}
	}
	return nil
}
