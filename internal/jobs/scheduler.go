package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"GroundwaterDash/internal/config"
	"GroundwaterDash/internal/logger"
	"GroundwaterDash/internal/serviceiface"

	"github.com/robfig/cron/v3"
)

// Refresher reloads a cached snapshot.
type Refresher interface {
	Refresh(ctx context.Context) error
}

type RefreshConfig struct {
	Schedule string
	TimeZone string
	Timeout  time.Duration
}

func NewDefaultRefreshConfig() RefreshConfig {
	return RefreshConfig{
		Schedule: config.DefaultRefreshSchedule,
		TimeZone: config.DefaultTimeZone,
		Timeout:  config.RefreshTimeoutSeconds * time.Second,
	}
}

type CronService struct {
	config    map[string]interface{}
	refresher Refresher
	cron      *cron.Cron
}

func NewCronService(cfg map[string]interface{}, refresher Refresher) serviceiface.Service {
	return &CronService{
		config:    cfg,
		refresher: refresher,
	}
}

func (s *CronService) Name() string {
	return "cron"
}

func (s *CronService) refreshConfig() RefreshConfig {
	cfg := NewDefaultRefreshConfig()
	if s.config == nil {
		return cfg
	}
	if schedule, ok := s.config["refresh_schedule"].(string); ok && schedule != "" {
		cfg.Schedule = schedule
	}
	if tz, ok := s.config["time_zone"].(string); ok && tz != "" {
		cfg.TimeZone = tz
	}
	if secs, ok := s.config["refresh_timeout_seconds"].(int); ok && secs > 0 {
		cfg.Timeout = time.Duration(secs) * time.Second
	}
	return cfg
}

func (s *CronService) Start() error {
	log.Println("Starting cron service...")
	c, err := ScheduleRefresh(s.refreshConfig(), s.refresher)
	if err != nil {
		return err
	}
	s.cron = c
	logger.Audit("Cron service started with snapshot refresh")
	return nil
}

func (s *CronService) Stop() error {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	return nil
}

// ScheduleRefresh starts a cron that refreshes the snapshot on cfg.Schedule.
func ScheduleRefresh(cfg RefreshConfig, r Refresher) (*cron.Cron, error) {
	if r == nil {
		return nil, fmt.Errorf("snapshot refresh has no target")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = config.RefreshTimeoutSeconds * time.Second
	}
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		loc = time.UTC
	}

	c := cron.New(cron.WithLocation(loc))
	_, err = c.AddFunc(cfg.Schedule, func() {
		RunRefresh(r, cfg.Timeout)
	})
	if err != nil {
		return nil, fmt.Errorf("unable to schedule snapshot refresh: %v", err)
	}

	c.Start()
	logger.Audit("Snapshot refresh scheduled (%s, %s)", cfg.Schedule, loc)
	return c, nil
}

// RunRefresh performs one bounded refresh and logs the outcome.
func RunRefresh(r Refresher, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	if err := r.Refresh(ctx); err != nil {
		logger.Audit("Snapshot refresh failed: %v", err)
		return err
	}
	log.Printf("[REFRESH] snapshot refreshed in %s", time.Since(start).Round(time.Millisecond))
	return nil
}
