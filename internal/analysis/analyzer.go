// Package analysis derives engagement intelligence from a closed batch of
// live-chat messages: host identification, host questions and their answers,
// answerer ranking, keyword topics and trends, conversation threads and
// community engagement scores.
//
// Everything here is deterministic and synchronous. The only fallible step is
// the optional ThemeSource, which is called with a timeout and whose failure
// leaves the locally computed topics untouched.
package analysis

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/sstrntu/youtube-live-comment-scrapper/internal/models"
)

// ThemeSource suggests topic themes for a message batch
type ThemeSource interface {
	Themes(ctx context.Context, messages []models.Message) ([]models.Theme, error)
}

// Analyzer runs the full pipeline over one stream session
type Analyzer struct {
	opts   Options
	themes ThemeSource
}

// NewAnalyzer creates an analyzer. themes may be nil.
func NewAnalyzer(opts Options, themes ThemeSource) *Analyzer {
	return &Analyzer{opts: opts.normalized(), themes: themes}
}

// Options returns the effective thresholds
func (a *Analyzer) Options() Options {
	return a.opts
}

// HasThemeSource reports whether topic augmentation is wired
func (a *Analyzer) HasThemeSource() bool {
	return a.themes != nil
}

type augmentResult struct {
	clusters []models.TopicCluster
	err      error
}

// Analyze produces the engagement report for messages. manualHost, when non-empty,
// overrides host detection. The input slice is never modified.
func (a *Analyzer) Analyze(ctx context.Context, messages []models.Message, manualHost string) models.EngagementAnalysis {
	if len(messages) == 0 {
		return emptyAnalysis()
	}

	host := IdentifyHost(messages, manualHost)
	flagged := FlagHost(messages, host)

	questions := ExtractQuestions(flagged, a.opts)
	ranked := RankAnswerers(questions, flagged)
	answered := answerCountLookup(ranked)

	keywords := ExtractKeywords(flagged, a.opts)
	clusters := ClusterTopics(flagged, keywords, a.opts)
	trends := ComputeTrends(flagged, keywords, a.opts)

	var augmented <-chan augmentResult
	if a.themes != nil {
		augmented = a.startAugmentation(ctx, flagged)
	}

	threads := BuildThreads(flagged, a.opts)
	members := ScoreCommunity(flagged, answered, threads, a.opts)

	if augmented != nil {
		res := <-augmented
		if res.err != nil {
			logrus.WithError(res.err).Warn("Topic augmentation unavailable, using keyword clusters")
		} else {
			clusters = a.mergeClusters(res.clusters, clusters)
			logrus.Debugf("Merged %d augmented topic clusters", len(res.clusters))
		}
	}

	topAnswerers := ranked
	if len(topAnswerers) > a.opts.TopAnswerers {
		topAnswerers = topAnswerers[:a.opts.TopAnswerers]
	}

	logrus.WithFields(logrus.Fields{
		"messages":  len(messages),
		"host":      host,
		"questions": len(questions),
		"answerers": len(ranked),
		"keywords":  len(keywords),
		"clusters":  len(clusters),
		"threads":   len(threads),
	}).Debug("Analysis complete")

	return models.EngagementAnalysis{
		HostName:         host,
		HostQuestions:    questions,
		TopAnswerers:     topAnswerers,
		Keywords:         keywords,
		TopicClusters:    clusters,
		KeywordTrends:    trends,
		Threads:          threads,
		CommunityMembers: members,
		Summary:          a.summarize(flagged, questions, clusters),
	}
}

// startAugmentation asks the theme source for topics in the background. The
// returned channel always yields exactly one result once the timeout elapses
// at the latest.
func (a *Analyzer) startAugmentation(ctx context.Context, messages []models.Message) <-chan augmentResult {
	out := make(chan augmentResult, 1)
	go func() {
		ctx, cancel := context.WithTimeout(ctx, a.opts.AugmentTimeout)
		defer cancel()

		done := make(chan augmentResult, 1)
		go func() {
			defer func() {
				if r := recover(); r != nil {
					logrus.Errorf("Theme source panicked: %v", r)
					done <- augmentResult{err: errors.New("theme source panicked")}
				}
			}()
			themes, err := a.themes.Themes(ctx, messages)
			if err != nil {
				done <- augmentResult{err: err}
				return
			}
			done <- augmentResult{clusters: clustersFromThemes(messages, themes, a.opts)}
		}()

		select {
		case res := <-done:
			if res.err == nil && len(res.clusters) == 0 {
				res.err = errors.New("theme source returned no usable themes")
			}
			out <- res
		case <-ctx.Done():
			out <- augmentResult{err: ctx.Err()}
		}
	}()
	return out
}

// clustersFromThemes turns well-formed themes into clusters over the corpus
func clustersFromThemes(messages []models.Message, themes []models.Theme, opts Options) []models.TopicCluster {
	sorted := sortChronologically(messages)
	lowered := lowerTexts(sorted)

	var clusters []models.TopicCluster
	for _, theme := range themes {
		topic := strings.TrimSpace(theme.Topic)
		var terms []string
		for _, kw := range theme.Keywords {
			if kw = strings.TrimSpace(kw); kw != "" {
				terms = append(terms, kw)
			}
		}
		if topic == "" || len(terms) == 0 {
			continue
		}
		cluster, ok := buildCluster(sorted, lowered, topic, terms, 1)
		if !ok {
			continue
		}
		cluster.Description = theme.Description
		cluster.Source = models.ClusterSourceAI
		clusters = append(clusters, cluster)
		if len(clusters) == opts.MaxAugmentedClusters {
			break
		}
	}
	return clusters
}

// mergeClusters prepends external clusters ahead of the leading local ones
func (a *Analyzer) mergeClusters(external, local []models.TopicCluster) []models.TopicCluster {
	if len(external) > a.opts.MaxAugmentedClusters {
		external = external[:a.opts.MaxAugmentedClusters]
	}
	if len(local) > a.opts.LocalClustersIfAugmented {
		local = local[:a.opts.LocalClustersIfAugmented]
	}
	merged := make([]models.TopicCluster, 0, len(external)+len(local))
	merged = append(merged, external...)
	return append(merged, local...)
}

func (a *Analyzer) summarize(messages []models.Message, questions []models.HostQuestion, clusters []models.TopicCluster) models.Summary {
	summary := models.Summary{
		TotalMessages:         len(messages),
		StreamDurationMinutes: StreamDurationMinutes(messages),
		TotalQuestions:        len(questions),
		TopTopics:             []string{},
	}

	authors := make(map[string]struct{})
	for _, msg := range messages {
		authors[msg.Author] = struct{}{}
		if msg.IsHost {
			summary.HostMessages++
		}
		if msg.IsSuperChat {
			summary.SuperChats++
		}
	}
	summary.UniqueAuthors = len(authors)

	var totalResponse float64
	var answers int
	for _, q := range questions {
		if q.WasAnswered {
			summary.AnsweredQuestions++
		}
		for _, ans := range q.Answers {
			totalResponse += ans.ResponseTimeSeconds
			answers++
		}
	}
	if answers > 0 {
		summary.AverageResponseTime = totalResponse / float64(answers)
	}

	bySize := make([]models.TopicCluster, len(clusters))
	copy(bySize, clusters)
	sortClustersBySize(bySize)
	for i, c := range bySize {
		if i >= a.opts.TopSummary {
			break
		}
		summary.TopTopics = append(summary.TopTopics, c.Topic)
	}
	return summary
}

func emptyAnalysis() models.EngagementAnalysis {
	return models.EngagementAnalysis{
		HostName:         models.UnknownHost,
		HostQuestions:    []models.HostQuestion{},
		TopAnswerers:     []models.Answerer{},
		Keywords:         []models.Keyword{},
		TopicClusters:    []models.TopicCluster{},
		KeywordTrends:    []models.KeywordTrend{},
		Threads:          []models.ConversationThread{},
		CommunityMembers: []models.CommunityMember{},
		Summary:          models.Summary{TopTopics: []string{}},
	}
}
