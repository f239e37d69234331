package models

import (
	"time"
)

// Endpoint names a monitored URL. An empty URL marks the endpoint as not configured.
type Endpoint struct {
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url" json:"url,omitempty"`
}

// Configured reports whether the endpoint has a URL to probe.
func (e Endpoint) Configured() bool {
	return e.URL != ""
}

// FailureKind classifies why a probe did not succeed.
type FailureKind string

const (
	FailureNone         FailureKind = ""
	FailureUnconfigured FailureKind = "unconfigured"
	FailureTimeout      FailureKind = "timeout"
	FailureConnection   FailureKind = "connection"
	FailureProtocol     FailureKind = "protocol"
	FailureTransport    FailureKind = "transport"
	FailureUnknown      FailureKind = "unknown"
)

// ProbeResult captures the outcome of a single endpoint probe.
type ProbeResult struct {
	Success    bool        `json:"success"`
	Failure    FailureKind `json:"failure,omitempty"`
	Detail     string      `json:"detail"`
	StatusCode int         `json:"status_code,omitempty"`
	LatencyMS  float64     `json:"latency_ms,omitempty"`
}

// EndpointResult pairs a probe result with the endpoint it belongs to.
type EndpointResult struct {
	Name   string      `json:"name"`
	Result ProbeResult `json:"result"`
}

// ResultSet holds one entry per configured endpoint, in probe order.
type ResultSet []EndpointResult

// Get returns the result for the named endpoint.
func (rs ResultSet) Get(name string) (ProbeResult, bool) {
	for _, r := range rs {
		if r.Name == name {
			return r.Result, true
		}
	}
	return ProbeResult{}, false
}

// Successes counts successful entries.
func (rs ResultSet) Successes() int {
	n := 0
	for _, r := range rs {
		if r.Result.Success {
			n++
		}
	}
	return n
}

// Verdict is the outcome of a diagnosis cycle.
type Verdict struct {
	InternetUp bool   `json:"internet_up"`
	Message    string `json:"message"`
}

// CycleRecord stores everything a single check cycle produced.
type CycleRecord struct {
	ID        string    `json:"id"`
	CheckedAt time.Time `json:"checked_at"`
	Results   ResultSet `json:"results"`
	Verdict   Verdict   `json:"verdict"`
}
