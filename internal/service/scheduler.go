package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/User133445/memevote-sub000/internal/config"
)

// Scheduler drives the background batch jobs: trending recomputation every
// few hours and reward distribution once daily. Both jobs tolerate being
// skipped or delayed; no request path blocks on them.
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger
}

func NewScheduler(cfg *config.Config, trending *TrendingService, rewards *RewardService, log zerolog.Logger) (*Scheduler, error) {
	c := cron.New()

	if _, err := c.AddFunc(cfg.TrendingSchedule, func() {
		if _, _, err := trending.Recompute(context.Background()); err != nil {
			log.Error().Err(err).Msg("scheduled trending recompute failed")
		}
	}); err != nil {
		return nil, err
	}

	if _, err := c.AddFunc(cfg.RewardSchedule, func() {
		// Distribute for the previous UTC day so a full day of rankings
		// is in place when the job fires shortly after midnight.
		date := time.Now().UTC().AddDate(0, 0, -1)
		if _, err := rewards.Distribute(context.Background(), date); err != nil {
			// Surfaced loudly: a mid-run ledger fault needs an operator,
			// not a retry.
			log.Error().Err(err).Str("date", date.Format("2006-01-02")).
				Msg("scheduled reward distribution failed")
		}
	}); err != nil {
		return nil, err
	}

	return &Scheduler{cron: c, log: log}, nil
}

// Start begins the cron loop.
func (s *Scheduler) Start() {
	s.log.Info().Msg("scheduler: started")
	s.cron.Start()
}

// Stop halts scheduling and returns a context that closes once running
// jobs finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info().Msg("scheduler: stopping")
	return s.cron.Stop()
}
