package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/groupsmith/syndicate/config"
	"github.com/groupsmith/syndicate/core/factory"
	coremetrics "github.com/groupsmith/syndicate/core/metrics"
	"github.com/groupsmith/syndicate/core/roster"
)

const smallRoster = `id,gender,category,score
s1,F,British,1
s2,M,Chinese,2
s3,F,Chinese,3
s4,M,British,4
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	rosterPath := filepath.Join(dir, "students.csv")
	if err := os.WriteFile(rosterPath, []byte(smallRoster), 0o644); err != nil {
		t.Fatalf("write roster: %v", err)
	}
	return &config.Config{
		Input:  config.InputConfig{Students: rosterPath},
		Output: config.OutputConfig{Assignments: filepath.Join(dir, "assignments.csv"), Summary: filepath.Join(dir, "summary.csv")},
		Roster: roster.Config{
			GroupSize:     2,
			Gender:        roster.Bounds{Min: 1, Max: 1},
			LocalCategory: "British",
			LocalMin:      1,
		},
		Solver: config.SolverConfig{
			Backend:          factory.ModuleConfig{Type: "cpsat"},
			TimeLimitSeconds: 30,
		},
	}
}

func TestService_Run(t *testing.T) {
	cfg := testConfig(t)
	svc, err := New(cfg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	data, err := os.ReadFile(cfg.Output.Assignments)
	if err != nil {
		t.Fatalf("read assignments: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected header plus 4 rows, got %d lines", len(lines))
	}
	if lines[0] != "student,group" {
		t.Errorf("unexpected header: %s", lines[0])
	}

	summary, err := os.ReadFile(cfg.Output.Summary)
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	if !strings.HasPrefix(string(summary), "group,size,female,male,categories,members,score_sum,score_mean") {
		t.Errorf("unexpected summary header: %s", summary)
	}
}

func TestService_RunRecordsMetrics(t *testing.T) {
	cfg := testConfig(t)
	svc, err := New(cfg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	sink := &captureSink{}
	svc.sink = sink
	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(sink.solves) != 1 {
		t.Fatalf("expected one solve record, got %d", len(sink.solves))
	}
	rec := sink.solves[0]
	if rec.Status != "optimal" || rec.Students != 4 || rec.Groups != 2 {
		t.Errorf("unexpected solve record: %+v", rec)
	}
	if rec.Objective != 10 {
		t.Errorf("expected objective 10, got %v", rec.Objective)
	}
	if len(sink.groups) != 2 {
		t.Errorf("expected two group records, got %d", len(sink.groups))
	}
}

func TestService_CheckInfeasibleBounds(t *testing.T) {
	cfg := testConfig(t)
	cfg.Roster.LocalMin = 2
	svc, err := New(cfg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	err = svc.Check()
	var ce *roster.ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestService_UnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Solver.Backend.Type = "branchandprice"
	if _, err := New(cfg); err == nil {
		t.Fatal("expected unknown backend error")
	}
}

type captureSink struct {
	solves []coremetrics.SolveRecord
	groups []coremetrics.GroupRecord
}

func (s *captureSink) RecordSolve(rec coremetrics.SolveRecord) error {
	s.solves = append(s.solves, rec)
	return nil
}

func (s *captureSink) RecordGroups(recs []coremetrics.GroupRecord) error {
	s.groups = append(s.groups, recs...)
	return nil
}
