package metrics

import "github.com/groupsmith/syndicate/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PrometheusAddr, when set, exposes /metrics on the given address for
	// the duration of the run.
	PrometheusAddr string `json:"prometheus_addr"`
}
