package utils

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestRetrySucceedsFirstAttempt(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond, Logger: NewLogger()}

	calls := 0
	err := r.Do("op", func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if calls != 1 {
		t.Errorf("got %d calls, want 1", calls)
	}
}

func TestRetryRecoversAfterFailures(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond, Logger: NewLogger()}

	calls := 0
	err := r.Do("op", func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if calls != 3 {
		t.Errorf("got %d calls, want 3", calls)
	}
}

func TestRetryExhaustionWrapsLastError(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 2, BaseDelay: time.Millisecond, Logger: NewLogger()}

	sentinel := errors.New("still broken")
	calls := 0
	err := r.Do("fetch-trending", func() error {
		calls++
		return sentinel
	})
	if calls != 2 {
		t.Errorf("got %d calls, want 2", calls)
	}
	if !errors.Is(err, sentinel) {
		t.Errorf("exhaustion error should wrap the last failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "fetch-trending") || !strings.Contains(err.Error(), "2 attempts") {
		t.Errorf("error text should name the operation and attempt count: %v", err)
	}
}
