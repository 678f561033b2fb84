package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/sstrntu/youtube-live-comment-scrapper/internal/models"
)

const (
	reportListLimit = 5
	snippetRunes    = 60
)

func printReport(w io.Writer, source string, a models.EngagementAnalysis) {
	heading := color.New(color.FgCyan, color.Bold)
	s := a.Summary

	fmt.Fprintln(w, strings.Repeat("=", 70))
	heading.Fprintf(w, "LIVE CHAT REPORT  %s\n", source)
	fmt.Fprintln(w, strings.Repeat("=", 70))
	fmt.Fprintf(w, "Host:        %s\n", a.HostName)
	fmt.Fprintf(w, "Messages:    %d from %d chatters over %.1f min\n", s.TotalMessages, s.UniqueAuthors, s.StreamDurationMinutes)
	fmt.Fprintf(w, "Questions:   %d asked, %d answered, avg response %.1fs\n", s.TotalQuestions, s.AnsweredQuestions, s.AverageResponseTime)
	fmt.Fprintf(w, "Super Chats: %d\n", s.SuperChats)
	if len(s.TopTopics) > 0 {
		fmt.Fprintf(w, "Top Topics:  %s\n", strings.Join(s.TopTopics, ", "))
	}

	if len(a.HostQuestions) > 0 {
		fmt.Fprintln(w)
		heading.Fprintln(w, "Host Questions")
		for i, q := range a.HostQuestions {
			if i >= reportListLimit {
				fmt.Fprintf(w, "   ... and %d more\n", len(a.HostQuestions)-reportListLimit)
				break
			}
			mark := color.RedString("unanswered")
			if q.WasAnswered {
				mark = color.GreenString("%d answers", len(q.Answers))
			}
			fmt.Fprintf(w, "   %d. %s (%s)\n", i+1, snippet(q.Message.Text), mark)
		}
	}

	if len(a.TopAnswerers) > 0 {
		fmt.Fprintln(w)
		heading.Fprintln(w, "Top Answerers")
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "   AUTHOR\tANSWERS\tAVG RESPONSE\tSCORE")
		for i, ans := range a.TopAnswerers {
			if i >= reportListLimit {
				break
			}
			fmt.Fprintf(tw, "   %s\t%d\t%.1fs\t%d\n", ans.Author, ans.AnswerCount, ans.AverageResponseTime, ans.HelpfulnessScore)
		}
		tw.Flush()
	}

	if len(a.KeywordTrends) > 0 {
		fmt.Fprintln(w)
		heading.Fprintln(w, "Keyword Trends")
		for i, trend := range a.KeywordTrends {
			if i >= reportListLimit {
				break
			}
			fmt.Fprintf(w, "   %-20s %-7s %v\n", trend.Keyword, trend.Trend, trend.PeriodCounts)
		}
	}

	if len(a.CommunityMembers) > 0 {
		fmt.Fprintln(w)
		heading.Fprintln(w, "Community")
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "   AUTHOR\tMESSAGES\tPER HOUR\tTHREADS\tSCORE")
		for i, m := range a.CommunityMembers {
			if i >= reportListLimit {
				break
			}
			fmt.Fprintf(tw, "   %s\t%d\t%.1f\t%d\t%d\n", m.Author, m.TotalMessages, m.MessagesPerHour, m.ThreadCount, m.EngagementScore)
		}
		tw.Flush()
	}

	fmt.Fprintf(w, "\n%d threads, %d keywords, %d topic clusters\n", len(a.Threads), len(a.Keywords), len(a.TopicClusters))
}

func snippet(text string) string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) <= snippetRunes {
		return string(runes)
	}
	return string(runes[:snippetRunes]) + "..."
}
