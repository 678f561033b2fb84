package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/sstrntu/youtube-live-comment-scrapper/internal/config"
	"github.com/sstrntu/youtube-live-comment-scrapper/internal/monitoring"
)

const scanTimeout = 30 * time.Minute

// Scanner runs one pass over the transcript store
type Scanner interface {
	RunScan(ctx context.Context) (*monitoring.ScanResult, error)
}

// Service handles scheduling of transcript scans
type Service struct {
	config  *config.Config
	scanner Scanner
	cron    *cron.Cron
}

// NewService creates a new scheduler service
func NewService(cfg *config.Config, scanner Scanner) *Service {
	return &Service{
		config:  cfg,
		scanner: scanner,
		cron:    cron.New(cron.WithSeconds()),
	}
}

// Start begins the scheduled scans
func (s *Service) Start() error {
	_, err := s.cron.AddFunc(s.config.ScanSchedule, s.runScan)
	if err != nil {
		return err
	}

	s.cron.Start()
	logrus.Infof("Scheduler started with schedule %q", s.config.ScanSchedule)
	return nil
}

func (s *Service) runScan() {
	logrus.Info("Starting scheduled transcript scan")

	ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
	defer cancel()

	if _, err := s.scanner.RunScan(ctx); err != nil {
		logrus.Errorf("Scheduled transcript scan failed: %v", err)
	}
}

// Stop stops the scheduler and waits for a running scan to finish
func (s *Service) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
		logrus.Info("Scheduler stopped")
	}
}
