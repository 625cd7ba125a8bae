// File: /jobs/session_cleanup_job.go
package jobs

import (
	"time"

	"globe-travel-api/logging"
	"globe-travel-api/metrics"
)

// SessionSweeper is implemented by *services.SessionService.
type SessionSweeper interface {
	DeleteExpired() (int64, error)
	ClearExpiredOTPs() (int64, error)
}

// SessionCleanupJob periodically drops expired sessions and stale OTP codes.
type SessionCleanupJob struct {
	sessions SessionSweeper
	ticker   *time.Ticker
	done     chan bool
}

func NewSessionCleanupJob(sessions SessionSweeper, interval time.Duration) *SessionCleanupJob {
	return &SessionCleanupJob{
		sessions: sessions,
		ticker:   time.NewTicker(interval),
		done:     make(chan bool),
	}
}

// Start runs one sweep immediately, then one per interval.
func (j *SessionCleanupJob) Start() {
	logging.Info().Msg("Session cleanup job started")

	go func() {
		j.cleanup()

		for {
			select {
			case <-j.ticker.C:
				j.cleanup()
			case <-j.done:
				logging.Info().Msg("Session cleanup job stopped")
				return
			}
		}
	}()
}

func (j *SessionCleanupJob) Stop() {
	j.ticker.Stop()
	j.done <- true
}

func (j *SessionCleanupJob) cleanup() {
	removed, err := j.sessions.DeleteExpired()
	if err != nil {
		logging.Error().Err(err).Msg("Error deleting expired sessions")
	} else if removed > 0 {
		metrics.ExpiredSessionsRemoved.Add(float64(removed))
	}

	cleared, err := j.sessions.ClearExpiredOTPs()
	if err != nil {
		logging.Error().Err(err).Msg("Error clearing expired OTP codes")
	}

	logging.Debug().Int64("sessions", removed).Int64("otps", cleared).Msg("Session cleanup completed")
}
