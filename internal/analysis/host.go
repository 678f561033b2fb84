package analysis

import (
	"strings"

	"github.com/sstrntu/youtube-live-comment-scrapper/internal/models"
)

// IdentifyHost picks the stream host. Rules apply in strict priority order:
// manual override, first owner badge, first moderator badge with enough
// activity, then the single most active author above 5% of all messages.
func IdentifyHost(messages []models.Message, manualHost string) string {
	if name := strings.TrimSpace(manualHost); name != "" {
		return manualHost
	}
	if len(messages) == 0 {
		return models.UnknownHost
	}

	for _, msg := range messages {
		if msg.HasBadge(models.BadgeOwner) {
			return msg.Author
		}
	}

	counts, order := authorCounts(messages)

	for _, msg := range messages {
		if !msg.HasBadge(models.BadgeModerator) {
			continue
		}
		threshold := len(messages) / 100
		if threshold < 5 {
			threshold = 5
		}
		if counts[msg.Author] > threshold {
			return msg.Author
		}
		// Only the first moderator-badged message is considered.
		break
	}

	best, bestCount := "", 0
	for _, author := range order {
		if counts[author] > bestCount {
			best, bestCount = author, counts[author]
		}
	}
	if best != "" && float64(bestCount) > float64(len(messages))*0.05 {
		return best
	}

	return models.UnknownHost
}

// FlagHost returns copies of messages annotated with IsHost
func FlagHost(messages []models.Message, host string) []models.Message {
	flagged := make([]models.Message, len(messages))
	for i, msg := range messages {
		msg.IsHost = host != models.UnknownHost && msg.Author == host
		flagged[i] = msg
	}
	return flagged
}

// authorCounts counts messages per author and keeps first-seen author order
func authorCounts(messages []models.Message) (map[string]int, []string) {
	counts := make(map[string]int)
	var order []string
	for _, msg := range messages {
		if _, seen := counts[msg.Author]; !seen {
			order = append(order, msg.Author)
		}
		counts[msg.Author]++
	}
	return counts, order
}
