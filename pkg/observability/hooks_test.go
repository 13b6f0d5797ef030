package observability

import (
	"context"
	"sync"
	"testing"
	"time"
)

// recordingHooks counts events for assertions.
type recordingHooks struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingHooks) record(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, name)
}

func (r *recordingHooks) OnParseStart(context.Context, int) { r.record("parse_start") }
func (r *recordingHooks) OnParseComplete(context.Context, int, time.Duration, error) {
	r.record("parse_complete")
}
func (r *recordingHooks) OnLayoutStart(context.Context, int) { r.record("layout_start") }
func (r *recordingHooks) OnLayoutComplete(context.Context, int, time.Duration, error) {
	r.record("layout_complete")
}
func (r *recordingHooks) OnExportStart(context.Context, int) { r.record("export_start") }
func (r *recordingHooks) OnExportComplete(context.Context, int, time.Duration, error) {
	r.record("export_complete")
}

func (r *recordingHooks) OnCacheHit(context.Context, string)      { r.record("hit") }
func (r *recordingHooks) OnCacheMiss(context.Context, string)     { r.record("miss") }
func (r *recordingHooks) OnCacheSet(context.Context, string, int) { r.record("set") }

func TestSetPipelineHooks(t *testing.T) {
	defer Reset()

	rec := &recordingHooks{}
	SetPipelineHooks(rec)

	ctx := context.Background()
	Pipeline().OnParseStart(ctx, 10)
	Pipeline().OnLayoutComplete(ctx, 5, time.Second, nil)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.events) != 2 || rec.events[0] != "parse_start" || rec.events[1] != "layout_complete" {
		t.Errorf("events = %v", rec.events)
	}
}

func TestSetCacheHooks(t *testing.T) {
	defer Reset()

	rec := &recordingHooks{}
	SetCacheHooks(rec)

	ctx := context.Background()
	Cache().OnCacheMiss(ctx, "layout")
	Cache().OnCacheSet(ctx, "layout", 128)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.events) != 2 || rec.events[0] != "miss" || rec.events[1] != "set" {
		t.Errorf("events = %v", rec.events)
	}
}

func TestSetNilHooksIgnored(t *testing.T) {
	defer Reset()

	SetPipelineHooks(nil)
	SetCacheHooks(nil)

	// Registered no-ops must survive nil registration; calling them must not panic.
	Pipeline().OnParseStart(context.Background(), 0)
	Cache().OnCacheHit(context.Background(), "layout")
}

func TestReset(t *testing.T) {
	rec := &recordingHooks{}
	SetPipelineHooks(rec)
	SetCacheHooks(rec)
	Reset()

	Pipeline().OnParseStart(context.Background(), 1)
	Cache().OnCacheHit(context.Background(), "layout")

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.events) != 0 {
		t.Errorf("hooks still registered after Reset: %v", rec.events)
	}
}
