package analysis

import (
	"strings"
	"unicode/utf8"

	"github.com/sstrntu/youtube-live-comment-scrapper/internal/models"
)

var questionLeads = []string{
	"what", "how", "why", "when", "where", "who",
	"can", "could", "would", "should", "is", "are", "do", "does",
}

// IsQuestion applies the interrogative heuristic to a message text
func IsQuestion(text string) bool {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < 5 {
		return false
	}
	if strings.Contains(trimmed, "?") {
		return true
	}
	lower := strings.ToLower(trimmed)
	for _, lead := range questionLeads {
		if strings.HasPrefix(lower, lead+" ") {
			return true
		}
	}
	return false
}

// ExtractQuestions finds host questions and attaches the replies that followed
// each one within the answer window. Messages must already carry IsHost.
func ExtractQuestions(messages []models.Message, opts Options) []models.HostQuestion {
	opts = opts.normalized()
	sorted := sortChronologically(messages)

	questions := []models.HostQuestion{}
	for i, msg := range sorted {
		if !msg.IsHost || !IsQuestion(msg.Text) {
			continue
		}
		answers := matchAnswers(sorted[i+1:], msg, opts)
		questions = append(questions, models.HostQuestion{
			Message:     msg,
			Answers:     answers,
			WasAnswered: len(answers) > 0,
		})
	}
	return questions
}

// matchAnswers scans the chronologically sorted messages following a question
func matchAnswers(following []models.Message, question models.Message, opts Options) []models.Answer {
	answers := []models.Answer{}
	for _, candidate := range following {
		offset := candidate.Timestamp.Sub(question.Timestamp).Seconds()
		if offset > opts.AnswerWindowSeconds {
			break
		}
		if offset <= 0 || candidate.Author == question.Author {
			continue
		}
		answers = append(answers, models.Answer{
			Message:             candidate,
			ResponseTimeSeconds: offset,
		})
		if len(answers) == opts.MaxAnswersPerQuestion {
			break
		}
	}
	return answers
}
