package analysis

import (
	"sort"

	"github.com/sstrntu/youtube-live-comment-scrapper/internal/models"
)

// ScoreCommunity computes the engagement aggregate of every author and returns
// the highest scoring members. answered maps author -> questions answered.
func ScoreCommunity(messages []models.Message, answered map[string]int, threads []models.ConversationThread, opts Options) []models.CommunityMember {
	opts = opts.normalized()
	sorted := sortChronologically(messages)
	duration := StreamDurationMinutes(sorted)

	byAuthor := make(map[string][]models.Message)
	var order []string
	for _, msg := range sorted {
		if _, ok := byAuthor[msg.Author]; !ok {
			order = append(order, msg.Author)
		}
		byAuthor[msg.Author] = append(byAuthor[msg.Author], msg)
	}

	threadCounts := make(map[string]int)
	for _, t := range threads {
		for _, p := range t.Participants {
			threadCounts[p]++
		}
	}

	members := make([]models.CommunityMember, 0, len(order))
	for _, author := range order {
		authored := byAuthor[author]
		perHour := 0.0
		if duration > 0 {
			perHour = float64(len(authored)) / duration * 60
		}
		gap := meanReplyGap(authored, opts)

		member := models.CommunityMember{
			Author:              author,
			TotalMessages:       len(authored),
			MessagesPerHour:     perHour,
			QuestionsAnswered:   answered[author],
			AverageResponseTime: gap,
			ThreadCount:         threadCounts[author],
		}
		for _, msg := range authored {
			if member.ProfileImage == "" {
				member.ProfileImage = msg.ProfileImage
			}
			if member.ChannelID == "" {
				member.ChannelID = msg.ChannelID
			}
		}
		member.EngagementScore = EngagementScore(perHour, member.QuestionsAnswered, gap, member.ThreadCount)
		members = append(members, member)
	}

	sort.SliceStable(members, func(i, j int) bool {
		return members[i].EngagementScore > members[j].EngagementScore
	})
	if len(members) > opts.TopMembers {
		members = members[:opts.TopMembers]
	}
	return members
}

// meanReplyGap averages the gaps between an author's consecutive messages,
// ignoring gaps above the ceiling. Falls back to DefaultGapSeconds.
func meanReplyGap(authored []models.Message, opts Options) float64 {
	var total float64
	var n int
	for i := 1; i < len(authored); i++ {
		gap := authored[i].Timestamp.Sub(authored[i-1].Timestamp).Seconds()
		if gap <= opts.GapCeilingSeconds {
			total += gap
			n++
		}
	}
	if n == 0 {
		return opts.DefaultGapSeconds
	}
	return total / float64(n)
}
