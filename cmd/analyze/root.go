package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sstrntu/youtube-live-comment-scrapper/internal/analysis"
	"github.com/sstrntu/youtube-live-comment-scrapper/internal/augment"
	"github.com/sstrntu/youtube-live-comment-scrapper/internal/transcripts"
)

var (
	hostName     string
	useAI        bool
	jsonOutput   bool
	debug        bool
	answerWindow float64
	threadWindow float64
	gatedThreads bool
	geminiModel  string
)

var rootCmd = &cobra.Command{
	Use:   "analyze <transcript.json|->",
	Short: "Analyze a live chat transcript",
	Long: `Analyze a recorded live chat transcript and print the engagement report:
host questions and who answered them, topics and trends, conversation
threads and the most engaged community members.

The transcript is a JSON array of messages, an object with a "messages"
array, or newline-delimited JSON. Use "-" to read from stdin.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		logrus.SetOutput(os.Stderr)
		logrus.SetLevel(logrus.WarnLevel)
		if debug {
			logrus.SetLevel(logrus.DebugLevel)
		}
	},
	RunE: runAnalyze,
}

func init() {
	defaults := analysis.DefaultOptions()
	rootCmd.Flags().StringVar(&hostName, "host", "", "host display name (skips host detection)")
	rootCmd.Flags().BoolVar(&useAI, "ai", false, "augment topics with Gemini (needs GEMINI_API_KEY)")
	rootCmd.Flags().StringVar(&geminiModel, "model", "", "Gemini model for --ai")
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the full report as JSON")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.Flags().Float64Var(&answerWindow, "answer-window", defaults.AnswerWindowSeconds, "seconds after a host question that count as answers")
	rootCmd.Flags().Float64Var(&threadWindow, "thread-window", defaults.ThreadWindowSeconds, "max seconds between messages of one thread")
	rootCmd.Flags().BoolVar(&gatedThreads, "gated-threads", false, "only thread messages that share an author or mention each other")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	in, closeIn, err := openInput(args[0])
	if err != nil {
		return err
	}
	defer closeIn()

	messages, err := transcripts.Decode(in)
	if err != nil {
		return err
	}

	ctx := context.Background()
	opts := analysis.DefaultOptions()
	opts.AnswerWindowSeconds = answerWindow
	opts.ThreadWindowSeconds = threadWindow
	opts.RelevanceGatedThreads = gatedThreads

	var themes analysis.ThemeSource
	if useAI {
		augmenter, err := augment.NewGeminiAugmenter(ctx, os.Getenv("GEMINI_API_KEY"), geminiModel)
		if err != nil {
			color.Yellow("Topic augmentation unavailable: %v", err)
		} else {
			themes = augmenter
		}
	}

	report := analysis.NewAnalyzer(opts, themes).Analyze(ctx, messages, hostName)

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	printReport(cmd.OutOrStdout(), args[0], report)
	return nil
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open transcript: %w", err)
	}
	return f, func() { f.Close() }, nil
}
