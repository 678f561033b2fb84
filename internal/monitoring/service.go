package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sstrntu/youtube-live-comment-scrapper/internal/analysis"
	"github.com/sstrntu/youtube-live-comment-scrapper/internal/config"
	"github.com/sstrntu/youtube-live-comment-scrapper/internal/models"
	"github.com/sstrntu/youtube-live-comment-scrapper/internal/notifications"
	"github.com/sstrntu/youtube-live-comment-scrapper/internal/storage"
	"github.com/sstrntu/youtube-live-comment-scrapper/internal/telemetry"
	"github.com/sstrntu/youtube-live-comment-scrapper/internal/transcripts"
)

// ErrInvalidTranscript wraps decode failures of uploaded or stored transcripts
var ErrInvalidTranscript = errors.New("invalid transcript")

// Service runs engagement analyses over posted and stored chat transcripts
type Service struct {
	config              *config.Config
	storage             storage.StorageInterface
	notificationService notifications.NotificationInterface
	analyzer            *analysis.Analyzer
	metrics             *Metrics
	processed           map[string]struct{}
	mu                  sync.RWMutex
	scanMu              sync.Mutex
}

// Metrics holds run statistics
type Metrics struct {
	TotalRuns             int       `json:"total_runs"`
	TotalMessages         int       `json:"total_messages"`
	LastRun               time.Time `json:"last_run"`
	LastRunDuration       string    `json:"last_run_duration"`
	LastSource            string    `json:"last_source"`
	ProcessedTranscripts  int       `json:"processed_transcripts"`
	AugmentationFallbacks int       `json:"augmentation_fallbacks"`
	DigestFailures        int       `json:"digest_failures"`
	ErrorCount            int       `json:"error_count"`
}

// NewService creates a new analysis service
func NewService(cfg *config.Config, storage storage.StorageInterface, notificationService notifications.NotificationInterface, analyzer *analysis.Analyzer) *Service {
	telemetry.Init()
	return &Service{
		config:              cfg,
		storage:             storage,
		notificationService: notificationService,
		analyzer:            analyzer,
		metrics:             &Metrics{},
		processed:           make(map[string]struct{}),
	}
}

// AnalyzeMessages runs one analysis over a batch and records it
func (s *Service) AnalyzeMessages(ctx context.Context, source string, messages []models.Message, hostName string) *models.AnalysisRun {
	start := time.Now()
	run := &models.AnalysisRun{
		ID:          uuid.NewString(),
		Source:      source,
		GeneratedAt: start.UTC(),
	}
	log := logrus.WithFields(logrus.Fields{"run_id": run.ID, "source": source})
	log.Infof("Analyzing %d messages", len(messages))

	run.Analysis = s.analyzer.Analyze(ctx, messages, hostName)
	duration := time.Since(start)
	run.Duration = duration.String()

	fellBack := s.analyzer.HasThemeSource() && len(messages) > 0 && !hasAugmentedClusters(run.Analysis)
	if fellBack {
		telemetry.IncAugmentationFallback()
	}
	telemetry.ObserveAnalysis(source, len(messages), duration)
	s.updateMetrics(run, len(messages), duration, fellBack)

	log.WithFields(logrus.Fields{
		"host":      run.Analysis.HostName,
		"questions": run.Analysis.Summary.TotalQuestions,
		"answered":  run.Analysis.Summary.AnsweredQuestions,
		"clusters":  len(run.Analysis.TopicClusters),
	}).Infof("Analysis completed in %v", duration)

	return run
}

// loadError marks a transcript that could not be read from storage
type loadError struct {
	name string
	err  error
}

func (e *loadError) Error() string {
	return fmt.Sprintf("failed to load transcript %s: %v", e.name, e.err)
}

func (e *loadError) Unwrap() error { return e.err }

// AnalyzeTranscript loads a stored transcript and analyzes it
func (s *Service) AnalyzeTranscript(ctx context.Context, name, hostName string) (*models.AnalysisRun, error) {
	data, err := s.storage.Retrieve(ctx, s.key(name))
	if err != nil {
		return nil, &loadError{name: name, err: err}
	}

	messages, err := transcripts.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrInvalidTranscript, name, err)
	}

	return s.AnalyzeMessages(ctx, name, messages, hostName), nil
}

// StoreTranscript validates and uploads a transcript, returning its message count
func (s *Service) StoreTranscript(ctx context.Context, name string, data []byte) (int, error) {
	messages, err := transcripts.Decode(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("%w %s: %v", ErrInvalidTranscript, name, err)
	}

	if err := s.storage.Store(ctx, s.key(name), data); err != nil {
		return 0, err
	}

	logrus.Infof("Stored transcript %s with %d messages", name, len(messages))
	return len(messages), nil
}

// ListTranscripts returns stored transcript names relative to the configured prefix
func (s *Service) ListTranscripts(ctx context.Context) ([]string, error) {
	keys, err := s.storage.List(ctx, s.config.TranscriptPrefix)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(keys))
	for _, key := range keys {
		names = append(names, strings.TrimPrefix(key, s.config.TranscriptPrefix))
	}
	return names, nil
}

// key maps a transcript name to its storage key
func (s *Service) key(name string) string {
	return s.config.TranscriptPrefix + name
}

// DeleteTranscript removes a stored transcript so a later upload is scanned again
func (s *Service) DeleteTranscript(ctx context.Context, name string) error {
	if err := s.storage.Delete(ctx, s.key(name)); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.processed, name)
	s.metrics.ProcessedTranscripts = len(s.processed)
	s.mu.Unlock()
	return nil
}

// Deliver sends the digest for a run, logging rather than failing on delivery errors
func (s *Service) Deliver(run *models.AnalysisRun) {
	if s.notificationService == nil {
		return
	}
	if err := s.notificationService.SendDigest(run); err != nil {
		logrus.WithField("run_id", run.ID).Errorf("Failed to send digest: %v", err)
		telemetry.IncDigestFailure()

		s.mu.Lock()
		s.metrics.DigestFailures++
		s.mu.Unlock()
	}
}

func hasAugmentedClusters(a models.EngagementAnalysis) bool {
	for _, c := range a.TopicClusters {
		if c.Source == models.ClusterSourceAI {
			return true
		}
	}
	return false
}

func (s *Service) updateMetrics(run *models.AnalysisRun, messages int, duration time.Duration, fellBack bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.TotalRuns++
	s.metrics.TotalMessages += messages
	s.metrics.LastRun = run.GeneratedAt
	s.metrics.LastRunDuration = duration.String()
	s.metrics.LastSource = run.Source
	if fellBack {
		s.metrics.AugmentationFallbacks++
	}
}

func (s *Service) recordError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics.ErrorCount++
}

// Stats returns a copy of the current run statistics
func (s *Service) Stats() Metrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *s.metrics
}

// GetMetrics returns current metrics as JSON
func (s *Service) GetMetrics() string {
	stats := s.Stats()
	data, _ := json.MarshalIndent(stats, "", "  ")
	return string(data)
}
