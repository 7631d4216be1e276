package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/groupsmith/syndicate/core/metrics"
)

// PromSink records solve outcomes in Prometheus metrics.
type PromSink struct {
	solves     *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	objective  *prometheus.GaugeVec
	groupScore *prometheus.GaugeVec
	groupSize  *prometheus.GaugeVec
}

// NewPromSink registers assignment metrics on the provided Prometheus
// registerer. If reg is nil, the default registerer is used. If the
// collectors are already registered, the existing ones are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "assignment_solves_total",
			Help: "Total number of assignment solve runs",
		}, []string{"backend", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "assignment_solve_duration_seconds",
			Help:    "Wall time spent solving the assignment problem",
			Buckets: prometheus.DefBuckets,
		}, []string{"backend"}),
		objective: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "assignment_objective",
			Help: "Objective value of the most recent solve",
		}, []string{"backend"}),
		groupScore: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "assignment_group_score_sum",
			Help: "Score sum per group for the most recent solve",
		}, []string{"group"}),
		groupSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "assignment_group_size",
			Help: "Member count per group for the most recent solve",
		}, []string{"group"}),
	}
	if err := registerCounterVec(reg, &s.solves); err != nil {
		return nil, err
	}
	if err := registerHistogramVec(reg, &s.duration); err != nil {
		return nil, err
	}
	if err := registerGaugeVec(reg, &s.objective); err != nil {
		return nil, err
	}
	if err := registerGaugeVec(reg, &s.groupScore); err != nil {
		return nil, err
	}
	if err := registerGaugeVec(reg, &s.groupSize); err != nil {
		return nil, err
	}
	return s, nil
}

func registerCounterVec(reg prometheus.Registerer, v **prometheus.CounterVec) error {
	if err := reg.Register(*v); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			*v = are.ExistingCollector.(*prometheus.CounterVec)
			return nil
		}
		return err
	}
	return nil
}

func registerHistogramVec(reg prometheus.Registerer, v **prometheus.HistogramVec) error {
	if err := reg.Register(*v); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			*v = are.ExistingCollector.(*prometheus.HistogramVec)
			return nil
		}
		return err
	}
	return nil
}

func registerGaugeVec(reg prometheus.Registerer, v **prometheus.GaugeVec) error {
	if err := reg.Register(*v); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			*v = are.ExistingCollector.(*prometheus.GaugeVec)
			return nil
		}
		return err
	}
	return nil
}

// RecordSolve increments the solve counter and updates the duration and
// objective metrics.
func (s *PromSink) RecordSolve(rec coremetrics.SolveRecord) error {
	s.solves.WithLabelValues(rec.Backend, rec.Status).Inc()
	s.duration.WithLabelValues(rec.Backend).Observe(rec.Duration.Seconds())
	s.objective.WithLabelValues(rec.Backend).Set(rec.Objective)
	return nil
}

// RecordGroups updates the per-group gauges.
func (s *PromSink) RecordGroups(recs []coremetrics.GroupRecord) error {
	for _, r := range recs {
		s.groupScore.WithLabelValues(r.Group).Set(r.ScoreSum)
		s.groupSize.WithLabelValues(r.Group).Set(float64(r.Size))
	}
	return nil
}
