package analysis

import "time"

// Options holds every tunable threshold and truncation point used by the analyzer
type Options struct {
	// Answer matching
	AnswerWindowSeconds   float64
	MaxAnswersPerQuestion int

	// Threading
	ThreadWindowSeconds   float64
	ThreadLookahead       int
	MinThreadMessages     int
	RelevanceGatedThreads bool

	// Keywords: min frequency = max(MinKeywordFloor, ceil(messages/KeywordFrequencyDivisor))
	MinKeywordFloor         int
	KeywordFrequencyDivisor int

	// Truncation points
	TopKeywords  int
	TopClusters  int
	TopTrends    int
	TopMembers   int
	TopAnswerers int
	TopSummary   int

	// Community gaps
	GapCeilingSeconds float64
	DefaultGapSeconds float64

	// Topic augmentation
	AugmentTimeout           time.Duration
	MaxAugmentedClusters     int
	LocalClustersIfAugmented int
}

// DefaultOptions returns the stock thresholds
func DefaultOptions() Options {
	return Options{
		AnswerWindowSeconds:      120,
		MaxAnswersPerQuestion:    10,
		ThreadWindowSeconds:      120,
		ThreadLookahead:          20,
		MinThreadMessages:        3,
		MinKeywordFloor:          2,
		KeywordFrequencyDivisor:  100,
		TopKeywords:              50,
		TopClusters:              15,
		TopTrends:                20,
		TopMembers:               20,
		TopAnswerers:             10,
		TopSummary:               5,
		GapCeilingSeconds:        300,
		DefaultGapSeconds:        120,
		AugmentTimeout:           10 * time.Second,
		MaxAugmentedClusters:     10,
		LocalClustersIfAugmented: 5,
	}
}

// normalized fills zero values with defaults so a partially populated Options is usable
func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.AnswerWindowSeconds <= 0 {
		o.AnswerWindowSeconds = d.AnswerWindowSeconds
	}
	if o.MaxAnswersPerQuestion <= 0 {
		o.MaxAnswersPerQuestion = d.MaxAnswersPerQuestion
	}
	if o.ThreadWindowSeconds <= 0 {
		o.ThreadWindowSeconds = d.ThreadWindowSeconds
	}
	if o.ThreadLookahead <= 0 {
		o.ThreadLookahead = d.ThreadLookahead
	}
	if o.MinThreadMessages <= 0 {
		o.MinThreadMessages = d.MinThreadMessages
	}
	if o.MinKeywordFloor <= 0 {
		o.MinKeywordFloor = d.MinKeywordFloor
	}
	if o.KeywordFrequencyDivisor <= 0 {
		o.KeywordFrequencyDivisor = d.KeywordFrequencyDivisor
	}
	if o.TopKeywords <= 0 {
		o.TopKeywords = d.TopKeywords
	}
	if o.TopClusters <= 0 {
		o.TopClusters = d.TopClusters
	}
	if o.TopTrends <= 0 {
		o.TopTrends = d.TopTrends
	}
	if o.TopMembers <= 0 {
		o.TopMembers = d.TopMembers
	}
	if o.TopAnswerers <= 0 {
		o.TopAnswerers = d.TopAnswerers
	}
	if o.TopSummary <= 0 {
		o.TopSummary = d.TopSummary
	}
	if o.GapCeilingSeconds <= 0 {
		o.GapCeilingSeconds = d.GapCeilingSeconds
	}
	if o.DefaultGapSeconds <= 0 {
		o.DefaultGapSeconds = d.DefaultGapSeconds
	}
	if o.AugmentTimeout <= 0 {
		o.AugmentTimeout = d.AugmentTimeout
	}
	if o.MaxAugmentedClusters <= 0 {
		o.MaxAugmentedClusters = d.MaxAugmentedClusters
	}
	if o.LocalClustersIfAugmented <= 0 {
		o.LocalClustersIfAugmented = d.LocalClustersIfAugmented
	}
	return o
}
