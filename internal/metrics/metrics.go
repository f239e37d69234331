package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"netcheck/internal/models"
)

const namespace = "netcheck"

// Recorder exports cycle records as Prometheus metrics.
type Recorder struct {
	internetUp    prometheus.Gauge
	endpointUp    *prometheus.GaugeVec
	probeTotal    *prometheus.CounterVec
	probeDuration *prometheus.HistogramVec
	cyclesTotal   prometheus.Counter
}

// NewRecorder creates the collectors and registers them with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		internetUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "internet_up",
			Help:      "Whether the last check cycle found the internet available (1) or not (0).",
		}),
		endpointUp: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "endpoint_up",
			Help:      "Result of the last probe per endpoint.",
		}, []string{"endpoint"}),
		probeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "probe_total",
			Help:      "Number of probes by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		probeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "probe_duration_seconds",
			Help:      "Duration of probes that received an HTTP response.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		cyclesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Number of completed check cycles.",
		}),
	}
	reg.MustRegister(r.internetUp, r.endpointUp, r.probeTotal, r.probeDuration, r.cyclesTotal)
	return r
}

// Record updates the collectors from a cycle record.
func (r *Recorder) Record(record models.CycleRecord) {
	r.cyclesTotal.Inc()
	r.internetUp.Set(boolValue(record.Verdict.InternetUp))

	for _, res := range record.Results {
		r.endpointUp.WithLabelValues(res.Name).Set(boolValue(res.Result.Success))
		r.probeTotal.WithLabelValues(res.Name, outcome(res.Result)).Inc()
		if res.Result.StatusCode != 0 {
			r.probeDuration.WithLabelValues(res.Name).Observe(res.Result.LatencyMS / 1000)
		}
	}
}

func outcome(res models.ProbeResult) string {
	if res.Success {
		return "success"
	}
	return string(res.Failure)
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
