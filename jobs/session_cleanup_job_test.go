package jobs

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type fakeSweeper struct {
	sessions atomic.Int32
	otps     atomic.Int32
	fail     bool
}

func (f *fakeSweeper) DeleteExpired() (int64, error) {
	f.sessions.Add(1)
	if f.fail {
		return 0, errors.New("db down")
	}
	return 2, nil
}

func (f *fakeSweeper) ClearExpiredOTPs() (int64, error) {
	f.otps.Add(1)
	return 1, nil
}

func TestSessionCleanupJobRunsOnStart(t *testing.T) {
	sweeper := &fakeSweeper{}
	job := NewSessionCleanupJob(sweeper, time.Hour)
	job.Start()

	deadline := time.Now().Add(2 * time.Second)
	for sweeper.otps.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("cleanup did not run on start")
		}
		time.Sleep(5 * time.Millisecond)
	}
	job.Stop()

	if sweeper.sessions.Load() != 1 {
		t.Fatalf("expected one session sweep, got %d", sweeper.sessions.Load())
	}
}

func TestSessionCleanupJobKeepsGoingAfterError(t *testing.T) {
	sweeper := &fakeSweeper{fail: true}
	job := NewSessionCleanupJob(sweeper, 10*time.Millisecond)
	job.Start()

	deadline := time.Now().Add(2 * time.Second)
	for sweeper.otps.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("expected repeated sweeps, got %d", sweeper.otps.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}
	job.Stop()
}
