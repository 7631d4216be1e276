package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/groupsmith/syndicate/config"
	coremetrics "github.com/groupsmith/syndicate/core/metrics"
	"github.com/groupsmith/syndicate/core/model"
	"github.com/groupsmith/syndicate/core/roster"
	coresolver "github.com/groupsmith/syndicate/core/solver"
	"github.com/groupsmith/syndicate/infra/logger"
	"github.com/groupsmith/syndicate/infra/metrics"
	_ "github.com/groupsmith/syndicate/infra/solver"
	"github.com/groupsmith/syndicate/infra/table"
)

// Service orchestrates one assignment run from roster file to result tables.
type Service struct {
	cfg     *config.Config
	planner *roster.Planner
	backend string
	sink    coremetrics.Sink
	log     logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	exact, err := coresolver.NewBackend(cfg.Solver.Backend)
	if err != nil {
		return nil, fmt.Errorf("solver backend: %w", err)
	}
	opts := coresolver.Options{
		TimeLimit: time.Duration(cfg.Solver.TimeLimitSeconds * float64(time.Second)),
	}
	planner := roster.NewPlanner(exact, opts, logger.New("planner"))
	if cfg.Solver.RelaxationFirst {
		relax, err := coresolver.NewBackend(cfg.Solver.Relaxation)
		if err != nil {
			return nil, fmt.Errorf("relaxation backend: %w", err)
		}
		planner.SetRelaxationFirst(relax)
	}

	sink, err := coremetrics.NewSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	return &Service{
		cfg:     cfg,
		planner: planner,
		backend: cfg.Solver.Backend.Type,
		sink:    sink,
		log:     logger.New("service"),
	}, nil
}

// Run performs one assignment run: read the roster, solve, record metrics and
// write the result tables. It blocks until the run completes or ctx is
// cancelled.
func (s *Service) Run(ctx context.Context) error {
	if addr := s.cfg.Metrics.PrometheusAddr; addr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	students, err := s.readStudents()
	if err != nil {
		return err
	}
	runID := uuid.NewString()
	s.log.Infof("run %s: assigning %d students", runID, len(students))

	start := time.Now()
	assignment, stats, err := s.planner.Plan(ctx, students, s.cfg.Roster)
	s.record(runID, assignment, stats, len(students), time.Since(start), err)
	if err != nil {
		return err
	}

	s.log.Infof("run %s: %d groups, objective %.3f", runID, len(assignment.Groups), assignment.Objective)
	if err := s.writeTo(s.cfg.Output.Assignments, func(w io.Writer) error {
		return table.WriteAssignments(w, assignment)
	}); err != nil {
		return fmt.Errorf("write assignments: %w", err)
	}
	if err := s.writeTo(s.cfg.Output.Summary, func(w io.Writer) error {
		return table.WriteSummary(w, stats)
	}); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

// Check reads the roster and validates it against the configured bounds
// without invoking a solver.
func (s *Service) Check() error {
	students, err := s.readStudents()
	if err != nil {
		return err
	}
	if err := roster.Preflight(students, s.cfg.Roster); err != nil {
		return err
	}
	s.log.Infof("roster of %d students passes all structural checks", len(students))
	return nil
}

func (s *Service) readStudents() ([]model.Student, error) {
	f, err := os.Open(s.cfg.Input.Students)
	if err != nil {
		return nil, fmt.Errorf("open roster: %w", err)
	}
	defer f.Close()
	return table.ReadStudents(f)
}

// record sends the run outcome to the metrics sink. Sink failures are logged
// and never fail the run.
func (s *Service) record(runID string, a model.Assignment, stats []model.GroupStats, students int, dur time.Duration, solveErr error) {
	now := time.Now()
	rec := coremetrics.SolveRecord{
		RunID:     runID,
		Backend:   s.backend,
		Status:    runStatus(a, solveErr),
		Objective: a.Objective,
		Students:  students,
		Groups:    len(a.Groups),
		Duration:  dur,
		SolvedAt:  now,
	}
	if err := s.sink.RecordSolve(rec); err != nil {
		s.log.Errorf("record solve: %v", err)
	}
	gr, ok := s.sink.(coremetrics.GroupRecorder)
	if !ok || len(stats) == 0 {
		return
	}
	recs := make([]coremetrics.GroupRecord, len(stats))
	for i, st := range stats {
		recs[i] = coremetrics.GroupRecord{
			RunID:     runID,
			Group:     string(st.Group),
			Size:      st.Size,
			ScoreSum:  st.ScoreSum,
			ScoreMean: st.ScoreMean,
			SolvedAt:  now,
		}
	}
	if err := gr.RecordGroups(recs); err != nil {
		s.log.Errorf("record groups: %v", err)
	}
}

func runStatus(a model.Assignment, err error) string {
	if err == nil {
		if a.Optimal {
			return coresolver.Optimal.String()
		}
		return coresolver.Feasible.String()
	}
	var infeasible *roster.InfeasibleError
	var timeout *roster.TimeoutError
	switch {
	case errors.As(err, &infeasible):
		return coresolver.Infeasible.String()
	case errors.As(err, &timeout):
		return coresolver.Timeout.String()
	default:
		return "error"
	}
}

// writeTo writes through fn to the named file, or to stdout when the path is
// empty.
func (s *Service) writeTo(path string, fn func(io.Writer) error) error {
	if path == "" {
		return fn(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
