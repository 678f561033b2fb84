package analysis

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/sstrntu/youtube-live-comment-scrapper/internal/models"
)

var punctuation = regexp.MustCompile(`[^\p{L}\p{N}_\s]+`)

var stopwords = toSet(
	"a", "an", "and", "are", "as", "at", "be", "been", "but", "by", "can", "could",
	"did", "do", "does", "for", "from", "had", "has", "have", "he", "her", "him",
	"his", "how", "i", "if", "im", "in", "into", "is", "it", "its", "just", "me",
	"my", "no", "not", "of", "on", "or", "our", "she", "so", "than", "that", "the",
	"their", "them", "then", "there", "these", "they", "this", "those", "to", "too",
	"up", "us", "very", "was", "we", "were", "what", "when", "where", "which", "who",
	"why", "will", "with", "would", "you", "your", "yours", "should", "all", "am",
	"any", "out", "about", "get", "got", "dont", "yes", "yeah", "lol", "oh", "ok",
)

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// tokenize lowercases, strips punctuation and drops stopwords
func tokenize(text string) []string {
	cleaned := punctuation.ReplaceAllString(strings.ToLower(text), "")
	var tokens []string
	for _, field := range strings.Fields(cleaned) {
		if _, stop := stopwords[field]; stop {
			continue
		}
		tokens = append(tokens, field)
	}
	return tokens
}

// ExtractKeywords counts unigrams, bigrams and trigrams across the corpus and
// returns the frequent ones, most frequent first. Ties keep first-seen order.
func ExtractKeywords(messages []models.Message, opts Options) []models.Keyword {
	opts = opts.normalized()

	counts := make(map[string]int)
	var order []string
	add := func(term string) {
		if _, seen := counts[term]; !seen {
			order = append(order, term)
		}
		counts[term]++
	}

	for _, msg := range messages {
		tokens := tokenize(msg.Text)
		for i, tok := range tokens {
			if utf8.RuneCountInString(tok) > 2 {
				add(tok)
			}
			if i+1 < len(tokens) {
				add(tok + " " + tokens[i+1])
			}
			if i+2 < len(tokens) {
				add(tok + " " + tokens[i+1] + " " + tokens[i+2])
			}
		}
	}

	minFrequency := int(math.Ceil(float64(len(messages)) / float64(opts.KeywordFrequencyDivisor)))
	if minFrequency < opts.MinKeywordFloor {
		minFrequency = opts.MinKeywordFloor
	}

	keywords := []models.Keyword{}
	for _, term := range order {
		if counts[term] >= minFrequency {
			keywords = append(keywords, models.Keyword{Word: term, Frequency: counts[term]})
		}
	}
	sort.SliceStable(keywords, func(i, j int) bool {
		return keywords[i].Frequency > keywords[j].Frequency
	})
	if len(keywords) > opts.TopKeywords {
		keywords = keywords[:opts.TopKeywords]
	}
	return keywords
}

// ClusterTopics anchors a cluster on each of the top keywords with at least two
// matching messages, largest clusters first.
func ClusterTopics(messages []models.Message, keywords []models.Keyword, opts Options) []models.TopicCluster {
	opts = opts.normalized()
	sorted := sortChronologically(messages)
	lowered := lowerTexts(sorted)

	clusters := []models.TopicCluster{}
	for i, kw := range keywords {
		if i >= opts.TopClusters {
			break
		}
		cluster, ok := buildCluster(sorted, lowered, kw.Word, []string{kw.Word}, 2)
		if !ok {
			continue
		}
		cluster.Source = models.ClusterSourceKeyword
		clusters = append(clusters, cluster)
	}

	sortClustersBySize(clusters)
	return clusters
}

// buildCluster gathers messages whose lowercase text contains any of the terms
func buildCluster(sorted []models.Message, lowered []string, topic string, terms []string, minMessages int) (models.TopicCluster, bool) {
	cluster := models.TopicCluster{
		Topic:        topic,
		Keywords:     terms,
		MessageIDs:   []string{},
		Contributors: []string{},
	}
	seenAuthors := make(map[string]struct{})
	for i, msg := range sorted {
		if !containsAny(lowered[i], terms) {
			continue
		}
		cluster.MessageIDs = append(cluster.MessageIDs, msg.ID)
		if cluster.StartTime.IsZero() || msg.Timestamp.Before(cluster.StartTime) {
			cluster.StartTime = msg.Timestamp
		}
		if msg.Timestamp.After(cluster.EndTime) {
			cluster.EndTime = msg.Timestamp
		}
		if _, seen := seenAuthors[msg.Author]; !seen && len(cluster.Contributors) < 5 {
			seenAuthors[msg.Author] = struct{}{}
			cluster.Contributors = append(cluster.Contributors, msg.Author)
		}
	}
	cluster.MessageCount = len(cluster.MessageIDs)
	return cluster, cluster.MessageCount >= minMessages
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term != "" && strings.Contains(text, term) {
			return true
		}
	}
	return false
}

func lowerTexts(messages []models.Message) []string {
	lowered := make([]string, len(messages))
	for i, msg := range messages {
		lowered[i] = strings.ToLower(msg.Text)
	}
	return lowered
}

func sortClustersBySize(clusters []models.TopicCluster) {
	sort.SliceStable(clusters, func(i, j int) bool {
		return clusters[i].MessageCount > clusters[j].MessageCount
	})
}

// ComputeTrends compares keyword mentions across three chronological periods.
// The first two periods hold ceil(n/3) messages each, the third the remainder.
func ComputeTrends(messages []models.Message, keywords []models.Keyword, opts Options) []models.KeywordTrend {
	opts = opts.normalized()
	trends := []models.KeywordTrend{}
	if len(messages) < 2 {
		return trends
	}

	sorted := sortChronologically(messages)
	lowered := lowerTexts(sorted)
	size := int(math.Ceil(float64(len(sorted)) / 3))
	bounds := [4]int{0, min(size, len(sorted)), min(2*size, len(sorted)), len(sorted)}

	for i, kw := range keywords {
		if i >= opts.TopTrends {
			break
		}
		var counts [3]int
		for p := 0; p < 3; p++ {
			for _, text := range lowered[bounds[p]:bounds[p+1]] {
				if strings.Contains(text, kw.Word) {
					counts[p]++
				}
			}
		}
		trends = append(trends, models.KeywordTrend{
			Keyword:      kw.Word,
			Frequency:    kw.Frequency,
			PeriodCounts: counts,
			Trend:        ClassifyTrend(counts[0], counts[1], counts[2]),
		})
	}

	sort.SliceStable(trends, func(i, j int) bool {
		return trends[i].Frequency > trends[j].Frequency
	})
	return trends
}

// ClassifyTrend labels a keyword rising or declining when the last period moved
// more than 30% of the larger of the first two periods away from the first.
func ClassifyTrend(first, second, third int) string {
	delta := float64(third - first)
	threshold := 0.3 * float64(max(first, second))
	switch {
	case delta > threshold:
		return models.TrendRising
	case delta < -threshold:
		return models.TrendDeclining
	default:
		return models.TrendStable
	}
}
