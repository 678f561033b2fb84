package analysis

import (
	"sort"

	"github.com/sstrntu/youtube-live-comment-scrapper/internal/models"
)

type answererTally struct {
	author        string
	profileImage  string
	count         int
	totalResponse float64
}

// RankAnswerers aggregates answers per author and orders them by helpfulness.
// The full ranking is returned; callers truncate for display.
func RankAnswerers(questions []models.HostQuestion, messages []models.Message) []models.Answerer {
	totals, _ := authorCounts(messages)

	tallies := make(map[string]*answererTally)
	var order []string
	for _, q := range questions {
		for _, a := range q.Answers {
			t, ok := tallies[a.Message.Author]
			if !ok {
				t = &answererTally{author: a.Message.Author}
				tallies[a.Message.Author] = t
				order = append(order, a.Message.Author)
			}
			if t.profileImage == "" {
				t.profileImage = a.Message.ProfileImage
			}
			t.count++
			t.totalResponse += a.ResponseTimeSeconds
		}
	}

	answerers := make([]models.Answerer, 0, len(order))
	for _, author := range order {
		t := tallies[author]
		mean := t.totalResponse / float64(t.count)
		total := totals[author]
		if total < 1 {
			total = 1
		}
		answerers = append(answerers, models.Answerer{
			Author:                  author,
			ProfileImage:            t.profileImage,
			AnswerCount:             t.count,
			AverageResponseTime:     mean,
			HelpfulnessScore:        HelpfulnessScore(t.count, total, len(questions), mean),
			TotalMessagesFromAuthor: total,
		})
	}

	sort.SliceStable(answerers, func(i, j int) bool {
		return answerers[i].HelpfulnessScore > answerers[j].HelpfulnessScore
	})
	return answerers
}

// answerCountLookup snapshots author -> answers given
func answerCountLookup(answerers []models.Answerer) map[string]int {
	lookup := make(map[string]int, len(answerers))
	for _, a := range answerers {
		lookup[a.Author] = a.AnswerCount
	}
	return lookup
}
