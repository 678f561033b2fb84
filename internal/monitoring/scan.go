package monitoring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sstrntu/youtube-live-comment-scrapper/internal/storage"
	"github.com/sstrntu/youtube-live-comment-scrapper/internal/telemetry"
)

// ScanResult summarizes one pass over the transcript store
type ScanResult struct {
	Listed   int      `json:"listed"`
	Analyzed []string `json:"analyzed"`
	Failed   []string `json:"failed"`
	Skipped  int      `json:"skipped"`
}

// RunScan analyzes every stored transcript not seen before and delivers a
// digest for each. Transcripts that fail to decode are not retried; those that
// could not be loaded are retried on the next scan.
func (s *Service) RunScan(ctx context.Context) (*ScanResult, error) {
	s.scanMu.Lock()
	defer s.scanMu.Unlock()

	start := time.Now()
	logrus.Info("Starting transcript scan")

	names, err := s.ListTranscripts(ctx)
	if err != nil {
		s.recordError()
		return nil, fmt.Errorf("failed to list transcripts: %w", err)
	}

	result := &ScanResult{Listed: len(names), Analyzed: []string{}, Failed: []string{}}
	for _, name := range names {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		if s.isProcessed(name) {
			result.Skipped++
			continue
		}

		run, err := s.AnalyzeTranscript(ctx, name, "")
		if err != nil {
			logrus.Errorf("Scan could not analyze %s: %v", name, err)
			telemetry.IncAnalysisFailure()
			s.recordError()
			result.Failed = append(result.Failed, name)
			if !isRetryable(err) {
				s.markProcessed(name)
			}
			continue
		}

		s.markProcessed(name)
		s.Deliver(run)
		result.Analyzed = append(result.Analyzed, name)
	}

	logrus.Infof("Transcript scan completed in %v: %d analyzed, %d failed, %d already processed",
		time.Since(start), len(result.Analyzed), len(result.Failed), result.Skipped)
	return result, nil
}

// isRetryable is true for load failures other than a missing transcript
func isRetryable(err error) bool {
	var loadErr *loadError
	return errors.As(err, &loadErr) && !errors.Is(err, storage.ErrNotFound)
}

func (s *Service) isProcessed(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.processed[name]
	return ok
}

func (s *Service) markProcessed(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processed[name] = struct{}{}
	s.metrics.ProcessedTranscripts = len(s.processed)
	telemetry.SetProcessedTranscripts(len(s.processed))
}
