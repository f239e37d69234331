package monitor

import (
	"context"
	"strings"

	"netcheck/internal/models"
)

// Endpoint names probed by the engine.
const (
	BaselineA    = "primary-search-a"
	BaselineB    = "primary-search-b"
	Notification = "notification-api"
)

// successThreshold is the number of passing probes needed to call the
// internet available, whether two or three endpoints are configured.
const successThreshold = 2

const (
	msgAvailable           = "Internet available"
	msgNotificationTrouble = "Internet available, but notification-service API has issues"
	msgProblemsPrefix      = "Internet problems. Errors: "
)

// EndpointProber probes a single endpoint.
type EndpointProber interface {
	Probe(ctx context.Context, endpoint models.Endpoint) models.ProbeResult
}

// Engine runs one probe per configured endpoint and diagnoses the results.
type Engine struct {
	prober    EndpointProber
	endpoints []models.Endpoint
}

// NewEngine builds an engine over the baseline endpoints and the optional
// notification endpoint. Unconfigured endpoints are skipped entirely.
func NewEngine(prober EndpointProber, endpoints []models.Endpoint) *Engine {
	configured := make([]models.Endpoint, 0, len(endpoints))
	for _, e := range endpoints {
		if e.Configured() {
			configured = append(configured, e)
		}
	}
	return &Engine{prober: prober, endpoints: configured}
}

// Endpoints returns the endpoints probed every cycle.
func (e *Engine) Endpoints() []models.Endpoint {
	out := make([]models.Endpoint, len(e.endpoints))
	copy(out, e.endpoints)
	return out
}

// RunCycle probes every configured endpoint in order and evaluates the result.
func (e *Engine) RunCycle(ctx context.Context) (models.ResultSet, models.Verdict) {
	results := make(models.ResultSet, 0, len(e.endpoints))
	for _, endpoint := range e.endpoints {
		results = append(results, models.EndpointResult{
			Name:   endpoint.Name,
			Result: e.prober.Probe(ctx, endpoint),
		})
	}
	return results, Evaluate(results)
}

// Evaluate applies the verdict policy to a result set.
func Evaluate(results models.ResultSet) models.Verdict {
	return evaluate(results, successThreshold)
}

func evaluate(results models.ResultSet, threshold int) models.Verdict {
	if results.Successes() >= threshold {
		return models.Verdict{InternetUp: true, Message: msgAvailable}
	}

	// Only reachable if the threshold exceeds the number of baseline endpoints.
	if onlyNotificationFailed(results) {
		return models.Verdict{InternetUp: true, Message: msgNotificationTrouble}
	}

	failed := make([]string, 0, len(results))
	for _, r := range results {
		if !r.Result.Success {
			failed = append(failed, r.Name+": "+r.Result.Detail)
		}
	}
	return models.Verdict{
		InternetUp: false,
		Message:    msgProblemsPrefix + strings.Join(failed, ", "),
	}
}

func onlyNotificationFailed(results models.ResultSet) bool {
	res, ok := results.Get(Notification)
	if !ok || res.Success {
		return false
	}
	for _, r := range results {
		if r.Name != Notification && !r.Result.Success {
			return false
		}
	}
	return true
}
