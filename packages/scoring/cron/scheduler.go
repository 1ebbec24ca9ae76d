package cron

import (
	"log"

	"scoring/services"

	panelUtils "panel/utils"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

type Scheduler struct {
	cron           *cron.Cron
	cleanupService *services.CleanupService
	db             *gorm.DB
}

func NewScheduler(db *gorm.DB, cleanupService *services.CleanupService) *Scheduler {
	// Create cron with seconds precision and logging
	c := cron.New(cron.WithSeconds(), cron.WithLogger(cron.VerbosePrintfLogger(log.Default())))

	return &Scheduler{
		cron:           c,
		cleanupService: cleanupService,
		db:             db,
	}
}

// Start initializes and starts all scheduled jobs
func (s *Scheduler) Start() error {
	log.Println("Starting cron scheduler...")

	// Sweep for stale matches at minute 0 of every hour
	_, err := s.cron.AddFunc("0 0 * * * *", s.runCleanup)
	if err != nil {
		log.Printf("Error scheduling stale-match cleanup job: %v", err)
		return err
	}

	// Purge expired panel session tokens once a day at 03:00
	_, err = s.cron.AddFunc("0 0 3 * * *", s.runTokenCleanup)
	if err != nil {
		log.Printf("Error scheduling session-token cleanup job: %v", err)
		return err
	}

	s.cron.Start()
	log.Println("Cron scheduler started successfully")

	return nil
}

// Stop gracefully shuts down the scheduler
func (s *Scheduler) Stop() {
	log.Println("Stopping cron scheduler...")
	s.cron.Stop()
	log.Println("Cron scheduler stopped")
}

// runCleanup is the job function that abandons stale matches
func (s *Scheduler) runCleanup() {
	log.Println("Running stale-match cleanup job...")

	staleCount, err := s.cleanupService.GetStaleMatchesCount()
	if err != nil {
		log.Printf("Error checking stale matches count: %v", err)
		return
	}

	if staleCount == 0 {
		log.Println("No stale matches to abandon")
		return
	}

	log.Printf("Found %d stale matches to abandon", staleCount)

	if err := s.cleanupService.AbandonStaleMatches(); err != nil {
		log.Printf("Error during stale-match cleanup: %v", err)
		return
	}

	log.Println("Stale-match cleanup job completed successfully")
}

// runTokenCleanup deletes expired panel session tokens
func (s *Scheduler) runTokenCleanup() {
	log.Println("Running session-token cleanup job...")
	if err := panelUtils.CleanExpiredTokens(s.db); err != nil {
		log.Printf("Error cleaning expired session tokens: %v", err)
		return
	}
	log.Println("Session-token cleanup job completed successfully")
}

// RunNow manually triggers the cleanup job (useful for testing)
func (s *Scheduler) RunNow() {
	log.Println("Manually triggering stale-match cleanup job...")
	s.runCleanup()
}
