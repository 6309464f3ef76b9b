package infra

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"

	"tonmarket/internal/service"
)

// Scheduler manages scheduled tasks: keeping the TON rate cache warm and
// the season leaderboard fresh.
type Scheduler struct {
	cron   *cron.Cron
	rates  *service.RatesService
	season *service.SeasonService
}

// NewScheduler creates a new scheduler
func NewScheduler(rates *service.RatesService, season *service.SeasonService) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		rates:  rates,
		season: season,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	log.Println("Starting scheduler...")

	// Warm the rate cache just before the 60s window expires, so deposit
	// conversions never block on the upstream.
	_, err := s.cron.AddFunc("@every 55s", func() {
		if _, err := s.rates.Rates(context.Background()); err != nil {
			log.Printf("[ERR] Scheduled rate refresh failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	_, err = s.cron.AddFunc("@every 5m", func() {
		if _, err := s.season.Refresh(context.Background()); err != nil {
			log.Printf("[ERR] Scheduled leaderboard refresh failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Println("[OK] Scheduler started successfully")
	return nil
}

// Stop stops the scheduler gracefully
func (s *Scheduler) Stop() {
	log.Println("Stopping scheduler...")
	s.cron.Stop()
	log.Println("[OK] Scheduler stopped")
}
