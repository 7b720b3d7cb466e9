package listing

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/AKASH-DEV-23/taskctl/pkg/models"
)

func TestPager_Navigation(t *testing.T) {
	p := NewPager(10)
	p.SetTotals(models.Pagination{TotalPages: 3, TotalItems: 25})

	if p.Prev() {
		t.Fatal("must not step before page 1")
	}
	if !p.Next() || p.Page() != 2 {
		t.Fatalf("expected page 2, got %d", p.Page())
	}
	if !p.Next() || p.Page() != 3 {
		t.Fatalf("expected page 3, got %d", p.Page())
	}
	if p.Next() {
		t.Fatal("must not step past the last page")
	}
}

func TestPager_SetTotalsClampsPage(t *testing.T) {
	p := NewPager(10)
	p.SetTotals(models.Pagination{TotalPages: 5, TotalItems: 42})
	p.Next()
	p.Next()
	p.Next()
	p.Next()
	if p.Page() != 5 {
		t.Fatalf("expected page 5, got %d", p.Page())
	}

	p.SetTotals(models.Pagination{TotalPages: 2, TotalItems: 12})
	if p.Page() != 2 {
		t.Fatalf("expected clamp to page 2, got %d", p.Page())
	}
}

func TestPager_DefaultLimit(t *testing.T) {
	if got := NewPager(0).Limit(); got != DefaultPageSize {
		t.Fatalf("expected default limit %d, got %d", DefaultPageSize, got)
	}
}

func TestPager_StepBackIfEmptied(t *testing.T) {
	p := NewPager(10)
	p.SetTotals(models.Pagination{TotalPages: 3, TotalItems: 21})
	p.Next()
	p.Next()

	if !p.StepBackIfEmptied(0) || p.Page() != 2 {
		t.Fatalf("expected step back to page 2, got %d", p.Page())
	}
	if p.StepBackIfEmptied(4) {
		t.Fatal("must not move while rows remain")
	}
	p.Reset()
	if p.StepBackIfEmptied(0) {
		t.Fatal("page 1 has nowhere to step back to")
	}
}

func TestSelection_ToggleAndCount(t *testing.T) {
	s := NewSelection()
	s.Toggle("a")
	s.Toggle("b")
	s.Toggle("a")

	if s.Count() != 1 || !s.Selected("b") || s.Selected("a") {
		t.Fatalf("expected only b selected, got %v", s.IDs())
	}
}

func TestSelection_SelectAllCycles(t *testing.T) {
	visible := []string{"a", "b", "c"}
	s := NewSelection()

	s.SelectAll(visible)
	if !s.AllSelected(visible) {
		t.Fatal("expected every visible row selected")
	}

	s.SelectAll(visible)
	if s.Count() != 0 {
		t.Fatal("second select-all must clear the selection")
	}

	s.Toggle("a")
	s.SelectAll(visible)
	if !s.AllSelected(visible) {
		t.Fatal("partial selection must complete, not clear")
	}
}

func TestSelection_AllSelectedEmptyPage(t *testing.T) {
	s := NewSelection()
	if s.AllSelected(nil) {
		t.Fatal("an empty page is never fully selected")
	}
}

func TestSelection_StaleRowsBreakAllSelected(t *testing.T) {
	s := NewSelection()
	s.Toggle("a")
	s.Toggle("gone")
	if s.AllSelected([]string{"a", "b"}) {
		t.Fatal("selection holding off-page rows must not read as complete")
	}
}

// fakeTimer records its scheduled callback so tests can fire or cancel
// it without waiting on the wall clock.
type fakeTimer struct {
	fn      func()
	stopped bool
}

func (f *fakeTimer) Stop() bool {
	f.stopped = true
	return true
}

func withFakeClock(d *Debouncer) *[]*fakeTimer {
	timers := &[]*fakeTimer{}
	d.after = func(_ time.Duration, fn func()) timer {
		ft := &fakeTimer{fn: fn}
		*timers = append(*timers, ft)
		return ft
	}
	return timers
}

func TestDebouncer_CollapsesBurst(t *testing.T) {
	var got []string
	d := NewDebouncer(time.Second, func(v string) { got = append(got, v) })
	timers := withFakeClock(d)

	d.Trigger("j")
	d.Trigger("jo")
	d.Trigger("john")

	if len(*timers) != 3 {
		t.Fatalf("expected a replacement timer per trigger, got %d", len(*timers))
	}
	for _, ft := range (*timers)[:2] {
		if !ft.stopped {
			t.Fatal("superseded timers must be stopped")
		}
	}

	(*timers)[2].fn()
	if len(got) != 1 || got[0] != "john" {
		t.Fatalf("expected single fire with final value, got %v", got)
	}
}

func TestDebouncer_Stop(t *testing.T) {
	d := NewDebouncer(time.Second, func(string) { t.Fatal("callback fired after Stop") })
	timers := withFakeClock(d)

	d.Trigger("x")
	d.Stop()

	if !(*timers)[0].stopped {
		t.Fatal("Stop must cancel the pending timer")
	}
}

func TestDebouncer_RealTimerFires(t *testing.T) {
	done := make(chan string, 1)
	d := NewDebouncer(5*time.Millisecond, func(v string) { done <- v })
	defer d.Stop()

	d.Trigger("john")
	select {
	case v := <-done:
		if v != "john" {
			t.Fatalf("expected john, got %q", v)
		}
	case <-time.After(time.Second):
		t.Fatal("debounced callback never fired")
	}
}

func TestBulkDelete_MixedOutcome(t *testing.T) {
	var (
		mu    sync.Mutex
		calls []string
	)
	boom := errors.New("forbidden")
	result := BulkDelete(context.Background(), []string{"a", "b", "c"}, func(_ context.Context, id string) error {
		mu.Lock()
		calls = append(calls, id)
		mu.Unlock()
		if id == "b" {
			return boom
		}
		return nil
	})

	sort.Strings(result.Deleted)
	if len(result.Deleted) != 2 || result.Deleted[0] != "a" || result.Deleted[1] != "c" {
		t.Fatalf("unexpected deletions %v", result.Deleted)
	}
	if !errors.Is(result.Failed["b"], boom) {
		t.Fatalf("expected failure for b, got %v", result.Failed)
	}
	if len(calls) != 3 {
		t.Fatalf("every row must be attempted, got %v", calls)
	}
}

func TestBulkDelete_Empty(t *testing.T) {
	result := BulkDelete(context.Background(), nil, func(context.Context, string) error {
		t.Fatal("must not be called")
		return nil
	})
	if len(result.Deleted) != 0 || len(result.Failed) != 0 {
		t.Fatalf("unexpected result %+v", result)
	}
}
