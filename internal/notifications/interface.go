package notifications

import "github.com/sstrntu/youtube-live-comment-scrapper/internal/models"

// NotificationInterface defines the contract for notification services
type NotificationInterface interface {
	SendDigest(run *models.AnalysisRun) error
}
