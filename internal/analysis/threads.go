package analysis

import (
	"fmt"
	"strings"

	"github.com/sstrntu/youtube-live-comment-scrapper/internal/models"
)

// BuildThreads groups temporally adjacent messages into conversation threads.
//
// Each unprocessed message seeds a candidate thread. Up to ThreadLookahead later
// unprocessed messages join it while they fall inside the thread window of the
// seed. Threads with fewer than MinThreadMessages are discarded and their
// candidates stay available for later seeds.
//
// With RelevanceGatedThreads set, a candidate must additionally share an author
// with the thread or be linked to it by an @mention.
func BuildThreads(messages []models.Message, opts Options) []models.ConversationThread {
	opts = opts.normalized()
	threads := []models.ConversationThread{}
	if len(messages) < opts.MinThreadMessages {
		return threads
	}

	sorted := sortChronologically(messages)
	processed := make([]bool, len(sorted))

	for i, seed := range sorted {
		if processed[i] {
			continue
		}
		members := []int{i}
		looked := 0
		for j := i + 1; j < len(sorted) && looked < opts.ThreadLookahead; j++ {
			if processed[j] {
				continue
			}
			looked++
			if sorted[j].Timestamp.Sub(seed.Timestamp).Seconds() > opts.ThreadWindowSeconds {
				break
			}
			if opts.RelevanceGatedThreads && !isRelated(sorted, members, sorted[j]) {
				continue
			}
			members = append(members, j)
		}

		if len(members) < opts.MinThreadMessages {
			continue
		}
		for _, idx := range members {
			processed[idx] = true
		}
		threads = append(threads, newThread(len(threads)+1, sorted, members))
	}
	return threads
}

func newThread(n int, sorted []models.Message, members []int) models.ConversationThread {
	thread := models.ConversationThread{
		ID:           fmt.Sprintf("thread-%d", n),
		Participants: []string{},
		MessageIDs:   make([]string, 0, len(members)),
		MessageCount: len(members),
		StartTime:    sorted[members[0]].Timestamp,
		EndTime:      sorted[members[len(members)-1]].Timestamp,
	}
	seen := make(map[string]struct{})
	for _, idx := range members {
		msg := sorted[idx]
		thread.MessageIDs = append(thread.MessageIDs, msg.ID)
		if _, ok := seen[msg.Author]; !ok {
			seen[msg.Author] = struct{}{}
			thread.Participants = append(thread.Participants, msg.Author)
		}
	}
	return thread
}

// isRelated reports a same-author repeat or an @mention in either direction
func isRelated(sorted []models.Message, members []int, candidate models.Message) bool {
	for _, idx := range members {
		member := sorted[idx]
		if member.Author == candidate.Author {
			return true
		}
		if mentions(candidate.Text, member.Author) || mentions(member.Text, candidate.Author) {
			return true
		}
	}
	return false
}

func mentions(text, author string) bool {
	if author == "" {
		return false
	}
	return strings.Contains(strings.ToLower(text), "@"+strings.ToLower(author))
}
