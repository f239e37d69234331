package monitor

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netcheck/internal/models"
)

var (
	passed   = models.ProbeResult{Success: true, Detail: "success"}
	timedOut = models.ProbeResult{Failure: models.FailureTimeout, Detail: "timeout"}
	refused  = models.ProbeResult{Failure: models.FailureConnection, Detail: "connection error"}
	http403  = models.ProbeResult{Failure: models.FailureProtocol, Detail: "HTTP 403", StatusCode: 403}
)

type fakeProber struct {
	mu      sync.Mutex
	results map[string]models.ProbeResult
	calls   []string
}

func (f *fakeProber) Probe(_ context.Context, e models.Endpoint) models.ProbeResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, e.Name)
	if res, ok := f.results[e.Name]; ok {
		return res
	}
	return passed
}

func set(entries ...models.EndpointResult) models.ResultSet {
	return models.ResultSet(entries)
}

func entry(name string, res models.ProbeResult) models.EndpointResult {
	return models.EndpointResult{Name: name, Result: res}
}

func TestEvaluateTwoEndpoints(t *testing.T) {
	cases := []struct {
		name string
		rs   models.ResultSet
		want models.Verdict
	}{
		{
			name: "both pass",
			rs:   set(entry(BaselineA, passed), entry(BaselineB, passed)),
			want: models.Verdict{InternetUp: true, Message: "Internet available"},
		},
		{
			name: "second times out",
			rs:   set(entry(BaselineA, passed), entry(BaselineB, timedOut)),
			want: models.Verdict{Message: "Internet problems. Errors: primary-search-b: timeout"},
		},
		{
			name: "first refused",
			rs:   set(entry(BaselineA, refused), entry(BaselineB, passed)),
			want: models.Verdict{Message: "Internet problems. Errors: primary-search-a: connection error"},
		},
		{
			name: "both fail",
			rs:   set(entry(BaselineA, refused), entry(BaselineB, timedOut)),
			want: models.Verdict{Message: "Internet problems. Errors: primary-search-a: connection error, primary-search-b: timeout"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Evaluate(tc.rs))
		})
	}
}

func TestEvaluateThreeEndpoints(t *testing.T) {
	cases := []struct {
		name string
		rs   models.ResultSet
		want models.Verdict
	}{
		{
			name: "all pass",
			rs:   set(entry(BaselineA, passed), entry(BaselineB, passed), entry(Notification, passed)),
			want: models.Verdict{InternetUp: true, Message: "Internet available"},
		},
		{
			name: "notification forbidden still counts two successes",
			rs:   set(entry(BaselineA, passed), entry(BaselineB, passed), entry(Notification, http403)),
			want: models.Verdict{InternetUp: true, Message: "Internet available"},
		},
		{
			name: "one baseline down with notification up",
			rs:   set(entry(BaselineA, timedOut), entry(BaselineB, passed), entry(Notification, passed)),
			want: models.Verdict{InternetUp: true, Message: "Internet available"},
		},
		{
			name: "only notification up",
			rs:   set(entry(BaselineA, timedOut), entry(BaselineB, refused), entry(Notification, passed)),
			want: models.Verdict{Message: "Internet problems. Errors: primary-search-a: timeout, primary-search-b: connection error"},
		},
		{
			name: "everything down",
			rs:   set(entry(BaselineA, timedOut), entry(BaselineB, refused), entry(Notification, http403)),
			want: models.Verdict{Message: "Internet problems. Errors: primary-search-a: timeout, primary-search-b: connection error, notification-api: HTTP 403"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Evaluate(tc.rs))
		})
	}
}

func TestEvaluateUpWheneverTwoSucceed(t *testing.T) {
	results := []models.ProbeResult{passed, timedOut}
	for _, a := range results {
		for _, b := range results {
			for _, c := range results {
				rs := set(entry(BaselineA, a), entry(BaselineB, b), entry(Notification, c))
				got := Evaluate(rs)
				assert.Equal(t, rs.Successes() >= 2, got.InternetUp, "results %v", rs)
			}
		}
	}
}

func TestEvaluateNotificationBranchNeedsHigherThreshold(t *testing.T) {
	rs := set(entry(BaselineA, passed), entry(BaselineB, passed), entry(Notification, http403))

	assert.Equal(t, "Internet available", evaluate(rs, successThreshold).Message)

	got := evaluate(rs, 3)
	assert.True(t, got.InternetUp)
	assert.Equal(t, "Internet available, but notification-service API has issues", got.Message)

	rs = set(entry(BaselineA, refused), entry(BaselineB, passed), entry(Notification, http403))
	got = evaluate(rs, 3)
	assert.False(t, got.InternetUp)
}

func TestRunCycleSkipsUnconfiguredNotification(t *testing.T) {
	prober := &fakeProber{results: map[string]models.ProbeResult{BaselineB: timedOut}}
	engine := NewEngine(prober, DefaultEndpoints(""))

	results, verdict := engine.RunCycle(context.Background())

	require.Len(t, results, 2)
	_, found := results.Get(Notification)
	assert.False(t, found)
	assert.Equal(t, []string{BaselineA, BaselineB}, prober.calls)
	assert.False(t, verdict.InternetUp)
	assert.Equal(t, "Internet problems. Errors: primary-search-b: timeout", verdict.Message)
}

func TestRunCycleProbesNotificationLast(t *testing.T) {
	prober := &fakeProber{}
	engine := NewEngine(prober, DefaultEndpoints("123:abc"))

	results, verdict := engine.RunCycle(context.Background())

	require.Len(t, results, 3)
	assert.Equal(t, []string{BaselineA, BaselineB, Notification}, prober.calls)
	assert.Equal(t, models.Verdict{InternetUp: true, Message: "Internet available"}, verdict)
}

func TestNotificationURL(t *testing.T) {
	assert.Equal(t, "", NotificationURL(""))
	assert.Equal(t, "", NotificationURL("   "))
	assert.Equal(t, "https://api.telegram.org/bot42:xyz/getMe", NotificationURL("42:xyz"))
}
