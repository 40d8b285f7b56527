package metrics

import (
	"time"

	obserrors "github.com/target/timeclock/internal/observability/errors"
	"github.com/target/timeclock/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultNoop    = "noop"
)

// BootstrapMetric captures how an auth bootstrap run resolved.
type BootstrapMetric struct {
	// Path is the step that decided the outcome (redirect_token, cached_token, embedded_sso, none).
	Path     string
	Status   string
	Degraded bool
	Duration time.Duration
}

// EmitAuthBootstrap emits the bootstrap outcome counter and duration.
func EmitAuthBootstrap(sink statsd.Sink, in BootstrapMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"path":   in.Path,
		"status": in.Status,
	}
	if in.Degraded {
		tags["degraded"] = "true"
	}

	sink.Count("auth.bootstrap", 1, tags)
	if in.Duration > 0 {
		sink.Timing("auth.bootstrap.duration", in.Duration, CloneTags(tags))
	}
}

// PunchMetric captures one punch attempt.
type PunchMetric struct {
	// Action is "in" or "out".
	Action string
	Result string
	Err    error
}

// EmitPunch emits the punch result counter.
func EmitPunch(sink statsd.Sink, in PunchMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"action": in.Action,
		"result": in.Result,
	}
	if in.Err != nil && in.Result == ResultError {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("punch.result", 1, tags)
}

// RequestMetric captures one backend round trip.
type RequestMetric struct {
	Endpoint string
	Method   string
	Status   int
	Duration time.Duration
	Err      error
}

// EmitAPIRequest emits the request counter and latency.
func EmitAPIRequest(sink statsd.Sink, in RequestMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"endpoint":     in.Endpoint,
		"method":       in.Method,
		"status_class": StatusClass(in.Status),
	}
	if in.Err != nil {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("api.request", 1, tags)
	if in.Duration > 0 {
		sink.Timing("api.request.duration", in.Duration, CloneTags(tags))
	}
}

// StatusClass buckets an HTTP status ("2xx", "4xx", ...); 0 means the request never completed.
func StatusClass(status int) string {
	if status < 100 || status > 599 {
		return "none"
	}
	return string(rune('0'+status/100)) + "xx"
}

// CloneTags creates a shallow copy of a tag map, filtering out empty keys.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		if k == "" {
			continue
		}
		out[k] = v
	}
	return out
}
