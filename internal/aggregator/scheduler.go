package aggregator

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler triggers an aggregation run on a daily cron schedule, and
// once shortly after process start so a fresh deployment has data.
type Scheduler struct {
	cron       *cron.Cron
	service    *Service
	schedule   string
	runOnStart bool
	startDelay time.Duration
}

func NewScheduler(service *Service, schedule string, runOnStart bool, startDelay time.Duration) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		service:    service,
		schedule:   schedule,
		runOnStart: runOnStart,
		startDelay: startDelay,
	}
}

func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		log.Println("🕐 Starting scheduled aggregation...")
		if err := s.service.Run(context.Background()); err != nil {
			log.Printf("Scheduled aggregation error: %v", err)
		}
	})

	if err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("✅ Aggregation scheduler started (schedule: %q)", s.schedule)

	if s.runOnStart {
		log.Printf("🔄 Initial aggregation in %v...", s.startDelay)
		time.AfterFunc(s.startDelay, func() {
			if err := s.service.Run(context.Background()); err != nil {
				log.Printf("Initial aggregation error: %v", err)
			}
		})
	}

	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("Aggregation scheduler stopped")
}

// RunNow triggers a run outside the schedule.
func (s *Scheduler) RunNow() error {
	return s.service.Run(context.Background())
}
