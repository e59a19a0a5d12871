package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_RecordTiming(t *testing.T) {
	c := NewCollector()
	c.RecordTiming(OpRenderField, 2*time.Millisecond)
	c.RecordTiming(OpRenderField, 6*time.Millisecond)

	snap := c.Snapshot()
	require.NotNil(t, snap.RenderField)
	assert.Equal(t, int64(2), snap.RenderField.Count)
	assert.Equal(t, int64(8), snap.RenderField.TotalTimeMs)
	assert.Equal(t, 4.0, snap.RenderField.AvgTimeMs)
	assert.Equal(t, int64(2), snap.RenderField.MinTimeMs)
	assert.Equal(t, int64(6), snap.RenderField.MaxTimeMs)
	assert.Nil(t, snap.StoreSearch)
}

func TestCollector_TagCounters(t *testing.T) {
	c := NewCollector()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.RecordRender("radar")
			c.RecordRender("bar")
		}()
	}
	wg.Wait()
	c.RecordFailure("bar")
	c.RecordPayloadOmitted()

	snap := c.Snapshot()
	assert.Equal(t, []TagCounts{
		{Tag: "bar", Rendered: 10, Failed: 1},
		{Tag: "radar", Rendered: 10},
	}, snap.Tags)
	assert.Equal(t, int64(1), snap.PayloadsOmitted)
}

func TestCollector_NilIsNoop(t *testing.T) {
	var c *Collector
	c.RecordTiming(OpStoreGet, time.Second)
	c.RecordRender("text")
	c.RecordFailure("text")
	c.RecordPayloadOmitted()
	assert.Equal(t, Snapshot{}, c.Snapshot())
}
