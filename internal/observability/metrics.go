package observability

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/spinshelf/spinshelf-backend/internal/platform/envutil"
	"github.com/spinshelf/spinshelf-backend/internal/platform/logger"
)

// Metrics is a process-global facade over a handful of hand-rolled
// Prometheus-exposition primitives. Nil receivers are safe everywhere so call
// sites never guard.
type Metrics struct {
	llmRequests      *CounterVec
	llmLatency       *HistogramVec
	llmTokens        *CounterVec
	upstreamRequests *CounterVec
	upstreamLatency  *HistogramVec
	repairEvents     *CounterVec
	rateLimited      *Counter
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool {
	return envutil.Bool("METRICS_ENABLED", false)
}

func Current() *Metrics {
	return instance
}

func Init(log *logger.Logger) *Metrics {
	initOnce.Do(func() {
		if !Enabled() {
			return
		}
		instance = &Metrics{
			llmRequests: NewCounterVec("ai_llm_requests_total", "LLM requests by model, endpoint and status.", []string{"model", "endpoint", "status"}),
			llmLatency:  NewHistogramVec("ai_llm_latency_seconds", "LLM request latency.", []string{"model", "endpoint"}, []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60}),
			llmTokens:   NewCounterVec("ai_llm_tokens_total", "LLM token usage by model and direction.", []string{"model", "direction"}),
			upstreamRequests: NewCounterVec("ai_upstream_requests_total", "Third-party metadata requests by source and outcome.",
				[]string{"source", "outcome"}),
			upstreamLatency: NewHistogramVec("ai_upstream_latency_seconds", "Third-party metadata request latency.", []string{"source"}, []float64{0.1, 0.25, 0.5, 1, 2, 5, 10}),
			repairEvents:    NewCounterVec("ai_repair_events_total", "Response repair events by task and kind.", []string{"task", "kind"}),
			rateLimited:     NewCounter("ai_rate_limited_total", "Requests rejected by the rate limiter."),
		}
		if log != nil {
			log.Info("Metrics enabled")
		}
	})
	return instance
}

func (m *Metrics) ObserveLLMRequest(model, endpoint, status string, dur time.Duration, inputTokens, outputTokens int) {
	if m == nil {
		return
	}
	model = orUnknown(model)
	endpoint = orUnknown(endpoint)
	status = orUnknown(status)
	m.llmRequests.Inc(model, endpoint, status)
	if dur > 0 {
		m.llmLatency.Observe(dur.Seconds(), model, endpoint)
	}
	if inputTokens > 0 {
		m.llmTokens.Add(float64(inputTokens), model, "input")
	}
	if outputTokens > 0 {
		m.llmTokens.Add(float64(outputTokens), model, "output")
	}
}

func (m *Metrics) ObserveUpstreamRequest(source, outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	source = orUnknown(source)
	m.upstreamRequests.Inc(source, orUnknown(outcome))
	if dur > 0 {
		m.upstreamLatency.Observe(dur.Seconds(), source)
	}
}

func (m *Metrics) IncRepairEvent(task, kind string) {
	if m == nil {
		return
	}
	m.repairEvents.Inc(orUnknown(task), orUnknown(kind))
}

func (m *Metrics) IncRateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, c := range []interface{ WritePrometheus(io.Writer) error }{
		m.llmRequests, m.llmLatency, m.llmTokens,
		m.upstreamRequests, m.upstreamLatency,
		m.repairEvents, m.rateLimited,
	} {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func orUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "unknown"
	}
	return s
}

// ---- lightweight metric primitives (Prometheus exposition) ----

type CounterVec struct {
	name       string
	help       string
	labelNames []string
	mu         sync.RWMutex
	values     map[string]float64
}

func NewCounterVec(name, help string, labels []string) *CounterVec {
	return &CounterVec{name: name, help: help, labelNames: labels, values: map[string]float64{}}
}

func (c *CounterVec) Inc(values ...string) {
	c.Add(1, values...)
}

func (c *CounterVec) Add(v float64, values ...string) {
	if c == nil {
		return
	}
	lbl := labelString(c.labelNames, values)
	c.mu.Lock()
	c.values[lbl] += v
	c.mu.Unlock()
}

func (c *CounterVec) WritePrometheus(w io.Writer) error {
	if c == nil {
		return nil
	}
	if _, err := fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s counter\n", c.name, c.help, c.name); err != nil {
		return err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for k, v := range c.values {
		if _, err := fmt.Fprintf(w, "%s%s %f\n", c.name, k, v); err != nil {
			return err
		}
	}
	return nil
}

type Counter struct {
	name string
	help string
	mu   sync.RWMutex
	val  float64
}

func NewCounter(name, help string) *Counter {
	return &Counter{name: name, help: help}
}

func (c *Counter) Inc() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.val++
	c.mu.Unlock()
}

func (c *Counter) Value() float64 {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.val
}

func (c *Counter) WritePrometheus(w io.Writer) error {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, err := fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s counter\n%s %f\n", c.name, c.help, c.name, c.name, c.val)
	return err
}

type HistogramVec struct {
	name       string
	help       string
	labelNames []string
	buckets    []float64
	mu         sync.RWMutex
	counts     map[string][]float64
	sums       map[string]float64
	totals     map[string]float64
}

func NewHistogramVec(name, help string, labels []string, buckets []float64) *HistogramVec {
	return &HistogramVec{
		name:       name,
		help:       help,
		labelNames: labels,
		buckets:    buckets,
		counts:     map[string][]float64{},
		sums:       map[string]float64{},
		totals:     map[string]float64{},
	}
}

func (h *HistogramVec) Observe(v float64, values ...string) {
	if h == nil {
		return
	}
	lbl := labelString(h.labelNames, values)
	h.mu.Lock()
	defer h.mu.Unlock()
	buckets, ok := h.counts[lbl]
	if !ok {
		buckets = make([]float64, len(h.buckets))
		h.counts[lbl] = buckets
	}
	for i, ub := range h.buckets {
		if v <= ub {
			buckets[i]++
		}
	}
	h.sums[lbl] += v
	h.totals[lbl]++
}

func (h *HistogramVec) WritePrometheus(w io.Writer) error {
	if h == nil {
		return nil
	}
	if _, err := fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s histogram\n", h.name, h.help, h.name); err != nil {
		return err
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for lbl, buckets := range h.counts {
		inner := strings.TrimSuffix(strings.TrimPrefix(lbl, "{"), "}")
		for i, ub := range h.buckets {
			sep := ""
			if inner != "" {
				sep = ","
			}
			if _, err := fmt.Fprintf(w, "%s_bucket{%s%sle=\"%g\"} %f\n", h.name, inner, sep, ub, buckets[i]); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%s_sum%s %f\n%s_count%s %f\n", h.name, lbl, h.sums[lbl], h.name, lbl, h.totals[lbl]); err != nil {
			return err
		}
	}
	return nil
}

func labelString(names, values []string) string {
	if len(names) == 0 {
		return ""
	}
	parts := make([]string, 0, len(names))
	for i, n := range names {
		v := "unknown"
		if i < len(values) {
			v = values[i]
		}
		parts = append(parts, fmt.Sprintf("%s=%q", n, v))
	}
	return "{" + strings.Join(parts, ",") + "}"
}
