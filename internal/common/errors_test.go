package common

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestLockedError_MatchesSentinel(t *testing.T) {
	until := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var err error = &LockedError{Until: until}

	if !errors.Is(err, ErrAccountLocked) {
		t.Fatalf("expected errors.Is(err, ErrAccountLocked) to be true")
	}

	var locked *LockedError
	if !errors.As(err, &locked) {
		t.Fatalf("expected errors.As to extract *LockedError")
	}
	if !locked.Until.Equal(until) {
		t.Fatalf("unexpected Until: %v", locked.Until)
	}
}

func TestLockedError_SurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("login: %w", &LockedError{Until: time.Now()})
	if !errors.Is(err, ErrAccountLocked) {
		t.Fatalf("wrapped LockedError should still match ErrAccountLocked")
	}
}
