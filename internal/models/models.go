package models

import (
	"strings"
	"time"
)

// Badge role tags attached to chat authors.
const (
	BadgeOwner     = "owner"
	BadgeModerator = "moderator"
	BadgeMember    = "member"
	BadgeVerified  = "verified"
)

// UnknownHost is reported when no participant qualifies as the stream host.
const UnknownHost = "Unknown Host"

// Message represents a single live-chat message of one stream session.
// Author is a display name, not an account identity: two accounts can share it.
// ChannelID carries the opaque account id when the source provides one.
type Message struct {
	ID              string    `json:"id"`
	Author          string    `json:"author"`
	ChannelID       string    `json:"channelId,omitempty"`
	Text            string    `json:"text"`
	Timestamp       time.Time `json:"timestamp"`
	Badges          []string  `json:"badges,omitempty"`
	IsSuperChat     bool      `json:"isSuperChat,omitempty"`
	SuperChatAmount string    `json:"superChatAmount,omitempty"`
	ProfileImage    string    `json:"profileImage,omitempty"`
	IsHost          bool      `json:"isHost"`
}

// HasBadge reports whether the message carries the given role tag (case-insensitive).
func (m Message) HasBadge(role string) bool {
	for _, b := range m.Badges {
		if strings.EqualFold(strings.TrimSpace(b), role) {
			return true
		}
	}
	return false
}

// Answer is a reply linked to exactly one HostQuestion
type Answer struct {
	Message             Message `json:"message"`
	ResponseTimeSeconds float64 `json:"responseTimeSeconds"`
}

// HostQuestion is a host message classified as interrogative
type HostQuestion struct {
	Message     Message  `json:"message"`
	Answers     []Answer `json:"answers"`
	WasAnswered bool     `json:"wasAnswered"`
}

// Answerer aggregates the answers one author gave across all host questions
type Answerer struct {
	Author                  string  `json:"author"`
	ProfileImage            string  `json:"profileImage"`
	AnswerCount             int     `json:"answerCount"`
	AverageResponseTime     float64 `json:"averageResponseTime"`
	HelpfulnessScore        int     `json:"helpfulnessScore"`
	TotalMessagesFromAuthor int     `json:"totalMessages"`
}

// Keyword is a normalized 1-3 word term with its corpus frequency
type Keyword struct {
	Word      string `json:"word"`
	Frequency int    `json:"frequency"`
}

// Cluster origins
const (
	ClusterSourceKeyword = "keyword"
	ClusterSourceAI      = "ai"
)

// TopicCluster groups the messages that mention one keyword-anchored topic.
// Clusters are not partitions: a message may belong to several.
type TopicCluster struct {
	Topic        string    `json:"topic"`
	Keywords     []string  `json:"keywords"`
	Description  string    `json:"description,omitempty"`
	Source       string    `json:"source"`
	MessageIDs   []string  `json:"messageIds"`
	MessageCount int       `json:"messageCount"`
	Contributors []string  `json:"contributors"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
}

// Trend directions
const (
	TrendRising    = "rising"
	TrendStable    = "stable"
	TrendDeclining = "declining"
)

// KeywordTrend classifies how a keyword's frequency moved across three time periods
type KeywordTrend struct {
	Keyword      string `json:"keyword"`
	Frequency    int    `json:"frequency"`
	PeriodCounts [3]int `json:"periodCounts"`
	Trend        string `json:"trend"`
}

// ConversationThread is a time-bounded group of at least three adjacent messages
type ConversationThread struct {
	ID           string    `json:"id"`
	Participants []string  `json:"participants"`
	MessageIDs   []string  `json:"messageIds"`
	MessageCount int       `json:"messageCount"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
}

// CommunityMember is the per-author engagement aggregate
type CommunityMember struct {
	Author              string  `json:"author"`
	ChannelID           string  `json:"channelId,omitempty"`
	ProfileImage        string  `json:"profileImage"`
	TotalMessages       int     `json:"totalMessages"`
	MessagesPerHour     float64 `json:"messagesPerHour"`
	QuestionsAnswered   int     `json:"questionsAnswered"`
	AverageResponseTime float64 `json:"averageResponseTime"`
	ThreadCount         int     `json:"threadCount"`
	EngagementScore     int     `json:"engagementScore"`
}

// Summary holds the headline counts of an analysis
type Summary struct {
	TotalMessages         int      `json:"totalMessages"`
	UniqueAuthors         int      `json:"uniqueAuthors"`
	HostMessages          int      `json:"hostMessages"`
	SuperChats            int      `json:"superChats"`
	StreamDurationMinutes float64  `json:"streamDurationMinutes"`
	TotalQuestions        int      `json:"totalQuestions"`
	AnsweredQuestions     int      `json:"answeredQuestions"`
	AverageResponseTime   float64  `json:"averageResponseTime"`
	TopTopics             []string `json:"topTopics"`
}

// EngagementAnalysis is the complete report for one stream session.
// A new analysis is a new value; nothing updates one in place.
type EngagementAnalysis struct {
	HostName         string               `json:"hostName"`
	HostQuestions    []HostQuestion       `json:"hostQuestions"`
	TopAnswerers     []Answerer           `json:"topAnswerers"`
	Keywords         []Keyword            `json:"keywords"`
	TopicClusters    []TopicCluster       `json:"topicClusters"`
	KeywordTrends    []KeywordTrend       `json:"keywordTrends"`
	Threads          []ConversationThread `json:"threads"`
	CommunityMembers []CommunityMember    `json:"communityMembers"`
	Summary          Summary              `json:"summary"`
}

// Theme is an externally supplied topic suggestion
type Theme struct {
	Topic       string   `json:"topic"`
	Keywords    []string `json:"keywords"`
	Description string   `json:"description,omitempty"`
}

// AnalysisRun wraps an analysis with the bookkeeping of the run that produced it
type AnalysisRun struct {
	ID          string             `json:"id"`
	Source      string             `json:"source"`
	GeneratedAt time.Time          `json:"generated_at"`
	Duration    string             `json:"duration"`
	Analysis    EngagementAnalysis `json:"analysis"`
}
