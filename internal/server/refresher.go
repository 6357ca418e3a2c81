package server

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// setupProfileRefresher schedules periodic profile refreshes. An empty
// schedule disables it.
func (s *Server) setupProfileRefresher() error {
	schedule := s.config.Session.RefreshSchedule
	if schedule == "" {
		return nil
	}

	s.scheduler = cron.New()
	if _, err := s.scheduler.AddFunc(schedule, s.refreshProfile); err != nil {
		return fmt.Errorf("invalid profile refresh schedule %q: %w", schedule, err)
	}

	return nil
}

func (s *Server) refreshProfile() {
	timeout := s.config.API.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	res := s.store.FetchUser(ctx)

	s.logger.Debug().
		Str("status", res.Status.String()).
		Msg("Scheduled profile refresh")
}
