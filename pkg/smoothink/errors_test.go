package smoothink

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestErrorCategoryString(t *testing.T) {
	tests := []struct {
		category ErrorCategory
		want     string
	}{
		{ErrorCategoryUnknown, "unknown"},
		{ErrorCategoryConfig, "config"},
		{ErrorCategoryRender, "render"},
		{ErrorCategoryInput, "input"},
		{ErrorCategoryIO, "io"},
		{ErrorCategory(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.category.String(); got != tt.want {
			t.Errorf("ErrorCategory(%d).String() = %q, want %q", tt.category, got, tt.want)
		}
	}
}

func TestErrorSeverityString(t *testing.T) {
	tests := []struct {
		severity ErrorSeverity
		want     string
	}{
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{SeverityCritical, "critical"},
		{ErrorSeverity(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.severity.String(); got != tt.want {
			t.Errorf("ErrorSeverity(%d).String() = %q, want %q", tt.severity, got, tt.want)
		}
	}
}

func TestCategorizedError(t *testing.T) {
	base := errors.New("bad color")
	err := NewCategorizedError(base, ErrorCategoryConfig, SeverityError).WithContext("key", "brush_color")

	if !errors.Is(err, base) {
		t.Error("errors.Is did not find the wrapped error")
	}
	if got, want := err.Error(), "[error/config] bad color"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if err.Context["key"] != "brush_color" {
		t.Errorf("Context = %v", err.Context)
	}

	empty := &CategorizedError{}
	if got, want := empty.Error(), "[info/unknown] (no error)"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestCategorizeKeepsExisting(t *testing.T) {
	inner := NewCategorizedError(errors.New("lost"), ErrorCategoryRender, SeverityCritical)
	wrapped := categorize(errors.Join(errors.New("outer"), inner), ErrorCategoryConfig, SeverityInfo)
	if wrapped != inner {
		t.Errorf("categorize re-wrapped an already categorized error: %v", wrapped)
	}

	fresh := categorize(errors.New("plain"), ErrorCategoryIO, SeverityWarning)
	if fresh.Category != ErrorCategoryIO || fresh.Severity != SeverityWarning {
		t.Errorf("categorize = %s/%s, want io/warning", fresh.Category, fresh.Severity)
	}
}

func TestErrorTrackerRecord(t *testing.T) {
	tr := NewErrorTracker(ErrorTrackerConfig{MaxErrors: 3})
	tr.Record(nil)
	for i := 0; i < 5; i++ {
		tr.Record(NewCategorizedError(errors.New("x"), ErrorCategoryConfig, SeverityError))
	}
	tr.Record(NewCategorizedError(errors.New("y"), ErrorCategoryRender, SeverityError))

	if got := len(tr.RecentErrors(10)); got != 3 {
		t.Errorf("retained %d errors, want 3", got)
	}
	if got := tr.TotalByCategory(ErrorCategoryConfig); got != 5 {
		t.Errorf("TotalByCategory(config) = %d, want 5", got)
	}
	if got := tr.TotalByCategory(ErrorCategory(-1)); got != 0 {
		t.Errorf("TotalByCategory(-1) = %d, want 0", got)
	}
	recent := tr.RecentErrors(1)
	if len(recent) != 1 || recent[0].Category != ErrorCategoryRender {
		t.Errorf("RecentErrors(1) = %v, want the render error", recent)
	}
	if tr.RecentErrors(0) != nil {
		t.Error("RecentErrors(0) should be nil")
	}

	tr.Clear()
	if got := len(tr.RecentErrors(10)); got != 0 {
		t.Errorf("Clear() left %d errors", got)
	}
}

func TestErrorTrackerErrorRate(t *testing.T) {
	tr := NewErrorTracker(DefaultErrorTrackerConfig())
	for i := 0; i < 10; i++ {
		tr.Record(NewCategorizedError(errors.New("x"), ErrorCategoryIO, SeverityWarning))
	}
	if got := tr.ErrorRate(10 * time.Second); got != 1 {
		t.Errorf("ErrorRate(10s) = %v, want 1", got)
	}
	if got := tr.ErrorRate(0); got != 0 {
		t.Errorf("ErrorRate(0) = %v, want 0", got)
	}
}

func TestErrorTrackerAlert(t *testing.T) {
	tr := NewErrorTracker(ErrorTrackerConfig{AlertCooldown: time.Hour})
	tr.AddCondition(AlertCondition{
		Category:    ErrorCategoryRender,
		MinSeverity: SeverityError,
		Threshold:   3,
		Window:      time.Minute,
	})

	var mu sync.Mutex
	var fired []int
	done := make(chan struct{}, 4)
	tr.SetAlertHandler(func(cond AlertCondition, count int, recent []CategorizedError) {
		mu.Lock()
		fired = append(fired, count)
		mu.Unlock()
		done <- struct{}{}
	})

	// Wrong category and low severity do not count.
	tr.Record(NewCategorizedError(errors.New("cfg"), ErrorCategoryConfig, SeverityCritical))
	tr.Record(NewCategorizedError(errors.New("warn"), ErrorCategoryRender, SeverityWarning))
	for i := 0; i < 4; i++ {
		tr.Record(NewCategorizedError(errors.New("draw"), ErrorCategoryRender, SeverityError))
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("alert did not fire")
	}
	time.Sleep(20 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(fired) != 1 {
		t.Fatalf("alert fired %d times, want 1 within the cooldown", len(fired))
	}
	if fired[0] != 3 {
		t.Errorf("alert count = %d, want 3", fired[0])
	}
}

func TestErrorTrackerHandlerPanic(t *testing.T) {
	tr := NewErrorTracker(DefaultErrorTrackerConfig())
	tr.AddCondition(AlertCondition{Threshold: 1, Window: time.Minute})
	tr.SetAlertHandler(func(AlertCondition, int, []CategorizedError) { panic("boom") })
	tr.Record(NewCategorizedError(errors.New("x"), ErrorCategoryInput, SeverityInfo))
	time.Sleep(20 * time.Millisecond)
}
