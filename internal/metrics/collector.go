// Package metrics provides in-memory runtime statistics collection.
package metrics

import (
	"math"
	"sort"
	"sync"
	"time"
)

// OperationMetrics holds aggregated metrics for a single operation type.
type OperationMetrics struct {
	Count     int64
	TotalTime time.Duration
	MinTime   time.Duration
	MaxTime   time.Duration
}

// OperationSnapshot provides computed stats from raw metrics.
type OperationSnapshot struct {
	Count       int64   `json:"count"`
	TotalTimeMs int64   `json:"total_time_ms"`
	AvgTimeMs   float64 `json:"avg_time_ms"`
	MinTimeMs   int64   `json:"min_time_ms"`
	MaxTimeMs   int64   `json:"max_time_ms"`
}

// TagCounts counts renders of one representation tag.
type TagCounts struct {
	Tag      string `json:"tag"`
	Rendered int64  `json:"rendered"`
	Degraded int64  `json:"degraded"`
	Failed   int64  `json:"failed"`
}

// Snapshot represents the full server statistics at a point in time.
type Snapshot struct {
	UptimeSeconds    float64            `json:"uptime_seconds"`
	RenderField      *OperationSnapshot `json:"render_field,omitempty"`
	RenderComparison *OperationSnapshot `json:"render_comparison,omitempty"`
	StoreGet         *OperationSnapshot `json:"store_get,omitempty"`
	StoreSearch      *OperationSnapshot `json:"store_search,omitempty"`
	StoreFetch       *OperationSnapshot `json:"store_fetch,omitempty"`
	ToolCall         *OperationSnapshot `json:"tool_call,omitempty"`
	PayloadsOmitted  int64              `json:"payloads_omitted"`
	Tags             []TagCounts        `json:"tags,omitempty"`
}

// Operation names for the collector.
const (
	OpRenderField      = "render_field"
	OpRenderComparison = "render_comparison"
	OpStoreGet         = "store_get"
	OpStoreSearch      = "store_search"
	OpStoreFetch       = "store_fetch"
	OpToolCall         = "tool_call"
)

// Collector aggregates in-memory runtime statistics.
// All methods are thread-safe and a nil *Collector discards everything.
type Collector struct {
	mu        sync.RWMutex
	startTime time.Time
	ops       map[string]*OperationMetrics
	tags      map[string]*TagCounts
	omitted   int64
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{
		startTime: time.Now(),
		ops:       make(map[string]*OperationMetrics),
		tags:      make(map[string]*TagCounts),
	}
}

// getOrCreate returns existing metrics or creates new ones for an operation.
// Caller must hold write lock.
func (c *Collector) getOrCreate(op string) *OperationMetrics {
	m, ok := c.ops[op]
	if !ok {
		m = &OperationMetrics{MinTime: time.Duration(math.MaxInt64)}
		c.ops[op] = m
	}
	return m
}

// tagCounts returns the counters for tag. Caller must hold write lock.
func (c *Collector) tagCounts(tag string) *TagCounts {
	t, ok := c.tags[tag]
	if !ok {
		t = &TagCounts{Tag: tag}
		c.tags[tag] = t
	}
	return t
}

// RecordTiming records timing for an operation.
func (c *Collector) RecordTiming(op string, duration time.Duration) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.getOrCreate(op)
	m.Count++
	m.TotalTime += duration

	if duration < m.MinTime {
		m.MinTime = duration
	}
	if duration > m.MaxTime {
		m.MaxTime = duration
	}
}

// RecordRender counts one field rendered with tag.
func (c *Collector) RecordRender(tag string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tagCounts(tag).Rendered++
}

// RecordDegraded counts one field of tag drawn by the generic fallback
// because its renderer could not read the value.
func (c *Collector) RecordDegraded(tag string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tagCounts(tag).Degraded++
}

// RecordFailure counts one field dropped because its renderer failed.
func (c *Collector) RecordFailure(tag string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tagCounts(tag).Failed++
}

// RecordPayloadOmitted counts a raw payload left out for exceeding the cap.
func (c *Collector) RecordPayloadOmitted() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.omitted++
}

// snapshotOp creates a snapshot for an operation, returning nil if no data.
func snapshotOp(m *OperationMetrics) *OperationSnapshot {
	if m == nil || m.Count == 0 {
		return nil
	}
	return &OperationSnapshot{
		Count:       m.Count,
		TotalTimeMs: m.TotalTime.Milliseconds(),
		AvgTimeMs:   float64(m.TotalTime.Milliseconds()) / float64(m.Count),
		MinTimeMs:   m.MinTime.Milliseconds(),
		MaxTimeMs:   m.MaxTime.Milliseconds(),
	}
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	tags := make([]TagCounts, 0, len(c.tags))
	for _, t := range c.tags {
		tags = append(tags, *t)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Tag < tags[j].Tag })

	return Snapshot{
		UptimeSeconds:    time.Since(c.startTime).Seconds(),
		RenderField:      snapshotOp(c.ops[OpRenderField]),
		RenderComparison: snapshotOp(c.ops[OpRenderComparison]),
		StoreGet:         snapshotOp(c.ops[OpStoreGet]),
		StoreSearch:      snapshotOp(c.ops[OpStoreSearch]),
		StoreFetch:       snapshotOp(c.ops[OpStoreFetch]),
		ToolCall:         snapshotOp(c.ops[OpToolCall]),
		PayloadsOmitted:  c.omitted,
		Tags:             tags,
	}
}
