package scheduler

import (
	"testing"
	"time"
)

func TestStartRejectsInvalidSpec(t *testing.T) {
	if _, err := Start("every now and then", time.UTC, func() {}); err == nil {
		t.Fatal("expected error for invalid spec")
	}
}

func TestStartDefaultsToHourly(t *testing.T) {
	s, err := Start("", time.UTC, func() {})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	deadline := time.Now().Add(time.Second)
	for s.Next().IsZero() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	next := s.Next()
	if next.IsZero() {
		t.Fatal("next run never planned")
	}
	if next.Minute() != 0 || next.Second() != 0 {
		t.Fatalf("next = %v, want top of the hour", next)
	}
	if d := time.Until(next); d <= 0 || d > time.Hour {
		t.Fatalf("next run in %v", d)
	}
}

func TestJobRuns(t *testing.T) {
	ran := make(chan struct{}, 1)
	s, err := Start("@every 1s", time.UTC, func() {
		select {
		case ran <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}
}
