package analysis

import (
	"sort"

	"github.com/sstrntu/youtube-live-comment-scrapper/internal/models"
)

// sortChronologically returns a time-ordered copy; equal timestamps keep input order
func sortChronologically(messages []models.Message) []models.Message {
	sorted := make([]models.Message, len(messages))
	copy(sorted, messages)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return sorted
}

// StreamDurationMinutes is the span between the earliest and latest message
func StreamDurationMinutes(messages []models.Message) float64 {
	if len(messages) < 2 {
		return 0
	}
	first, last := messages[0].Timestamp, messages[0].Timestamp
	for _, msg := range messages[1:] {
		if msg.Timestamp.Before(first) {
			first = msg.Timestamp
		}
		if msg.Timestamp.After(last) {
			last = msg.Timestamp
		}
	}
	return last.Sub(first).Minutes()
}
