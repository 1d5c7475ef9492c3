package timescheduler

import (
	"fmt"
	"time"

	"github.com/arkade-os/ledgerkit/internal/core/ports"
	"github.com/go-co-op/gocron"
)

type service struct {
	scheduler *gocron.Scheduler
}

func NewScheduler() ports.SchedulerService {
	svc := gocron.NewScheduler(time.UTC)
	return &service{svc}
}

func (s *service) Start() {
	s.scheduler.StartAsync()
}

func (s *service) Stop() {
	s.scheduler.Stop()
	s.scheduler.Clear()
}

func (s *service) ScheduleTask(interval time.Duration, task func()) error {
	if interval <= 0 {
		return fmt.Errorf("invalid task interval %s, must be positive", interval)
	}
	_, err := s.scheduler.Every(interval).WaitForSchedule().Do(task)
	return err
}
