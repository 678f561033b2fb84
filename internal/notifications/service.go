package notifications

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"github.com/sstrntu/youtube-live-comment-scrapper/internal/config"
	"github.com/sstrntu/youtube-live-comment-scrapper/internal/models"
	"gopkg.in/gomail.v2"
)

const digestAnswerers = 5

// Service handles sending notifications via various channels
type Service struct {
	config *config.Config
	client *resty.Client
}

// Ensure Service implements NotificationInterface
var _ NotificationInterface = (*Service)(nil)

// TeamsMessage represents a Microsoft Teams message
type TeamsMessage struct {
	Type     string         `json:"@type"`
	Context  string         `json:"@context"`
	Title    string         `json:"title"`
	Text     string         `json:"text"`
	Sections []TeamsSection `json:"sections,omitempty"`
}

type TeamsSection struct {
	ActivityTitle    string      `json:"activityTitle,omitempty"`
	ActivitySubtitle string      `json:"activitySubtitle,omitempty"`
	ActivityText     string      `json:"activityText,omitempty"`
	Facts            []TeamsFact `json:"facts,omitempty"`
	Markdown         bool        `json:"markdown,omitempty"`
}

type TeamsFact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NewService creates a new notification service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		client: resty.New().SetTimeout(30 * time.Second),
	}
}

// Enabled reports whether any delivery channel is configured
func (s *Service) Enabled() bool {
	return s.config.TeamsWebhookURL != "" || s.config.NotificationEmail != ""
}

// SendDigest sends a finished analysis via configured notification channels
func (s *Service) SendDigest(run *models.AnalysisRun) error {
	if !s.Enabled() {
		logrus.Debugf("No notification channel configured, skipping digest for %s", run.Source)
		return nil
	}

	var errors []string

	// Send to Teams if configured
	if s.config.TeamsWebhookURL != "" {
		if err := s.sendToTeams(run); err != nil {
			logrus.Errorf("Failed to send Teams notification: %v", err)
			errors = append(errors, fmt.Sprintf("Teams: %v", err))
		} else {
			logrus.Infof("Sent digest for %s to Teams", run.Source)
		}
	}

	// Send via email if configured
	if s.config.NotificationEmail != "" {
		if err := s.sendEmail(run); err != nil {
			logrus.Errorf("Failed to send email notification: %v", err)
			errors = append(errors, fmt.Sprintf("Email: %v", err))
		} else {
			logrus.Infof("Sent digest for %s via email", run.Source)
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("notification errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

func (s *Service) sendToTeams(run *models.AnalysisRun) error {
	message := buildTeamsMessage(run)

	resp, err := s.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(message).
		Post(s.config.TeamsWebhookURL)

	if err != nil {
		return fmt.Errorf("failed to send Teams message: %w", err)
	}

	if resp.StatusCode() != 200 {
		return fmt.Errorf("Teams webhook returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	return nil
}

func summaryFacts(run *models.AnalysisRun) []TeamsFact {
	a := run.Analysis
	return []TeamsFact{
		{Name: "Host", Value: a.HostName},
		{Name: "Messages", Value: fmt.Sprintf("%d from %d chatters", a.Summary.TotalMessages, a.Summary.UniqueAuthors)},
		{Name: "Stream Duration", Value: fmt.Sprintf("%.0f min", a.Summary.StreamDurationMinutes)},
		{Name: "Questions Answered", Value: fmt.Sprintf("%d / %d", a.Summary.AnsweredQuestions, a.Summary.TotalQuestions)},
		{Name: "Avg Response", Value: fmt.Sprintf("%.1fs", a.Summary.AverageResponseTime)},
		{Name: "Super Chats", Value: fmt.Sprintf("%d", a.Summary.SuperChats)},
		{Name: "Generated", Value: run.GeneratedAt.Format("2006-01-02 15:04:05 UTC")},
	}
}

func buildTeamsMessage(run *models.AnalysisRun) *TeamsMessage {
	a := run.Analysis
	message := &TeamsMessage{
		Type:    "MessageCard",
		Context: "https://schema.org/extensions",
		Title:   fmt.Sprintf("Live Chat Digest - %s", run.Source),
		Text:    fmt.Sprintf("Analyzed %d messages hosted by %s", a.Summary.TotalMessages, a.HostName),
	}

	message.Sections = append(message.Sections, TeamsSection{
		ActivityTitle: "Summary",
		Facts:         summaryFacts(run),
		Markdown:      true,
	})

	if len(a.Summary.TopTopics) > 0 {
		message.Sections = append(message.Sections, TeamsSection{
			ActivityTitle: "Top Topics",
			ActivityText:  strings.Join(a.Summary.TopTopics, ", "),
			Markdown:      true,
		})
	}

	if len(a.TopAnswerers) > 0 {
		var lines []string
		for i, ans := range a.TopAnswerers {
			if i >= digestAnswerers {
				break
			}
			lines = append(lines, fmt.Sprintf("**%s** - %d answers, score %d", ans.Author, ans.AnswerCount, ans.HelpfulnessScore))
		}
		message.Sections = append(message.Sections, TeamsSection{
			ActivityTitle: "Top Answerers",
			ActivityText:  strings.Join(lines, "\n\n"),
			Markdown:      true,
		})
	}

	return message
}

func (s *Service) sendEmail(run *models.AnalysisRun) error {
	subject := fmt.Sprintf("Live Chat Digest - %s (%d messages)", run.Source, run.Analysis.Summary.TotalMessages)

	htmlBody, err := buildEmailHTML(run)
	if err != nil {
		return fmt.Errorf("failed to build email HTML: %w", err)
	}

	textBody := buildEmailText(run)

	// Create message
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.SMTPUsername)
	m.SetHeader("To", s.config.NotificationEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", textBody)
	m.AddAlternative("text/html", htmlBody)

	d := gomail.NewDialer(s.config.SMTPHost, s.config.SMTPPort, s.config.SMTPUsername, s.config.SMTPPassword)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

const emailTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Live Chat Digest</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        .header { background-color: #c4302b; color: white; padding: 20px; border-radius: 5px; }
        .summary { background-color: #f5f5f5; padding: 15px; margin: 20px 0; border-radius: 5px; }
        .answerer { border-left: 4px solid #c4302b; padding: 10px; margin: 10px 0; background-color: #fafafa; }
        .meta { color: #666; font-size: 0.9em; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Live Chat Digest</h1>
        <p>{{.Source}} analyzed on {{.GeneratedAt.Format "January 2, 2006 at 3:04 PM UTC"}}</p>
    </div>

    <div class="summary">
        <h2>Summary</h2>
        {{range .Facts}}
        <p><strong>{{.Name}}:</strong> {{.Value}}</p>
        {{end}}
        {{if .Topics}}<p><strong>Top Topics:</strong> {{join .Topics ", "}}</p>{{end}}
    </div>

    {{if .Answerers}}
    <h2>Top Answerers</h2>
    {{range .Answerers}}
    <div class="answerer">
        <strong>{{.Author}}</strong>
        <div class="meta">{{.AnswerCount}} answers | avg {{printf "%.1f" .AverageResponseTime}}s | score {{.HelpfulnessScore}}</div>
    </div>
    {{end}}
    {{end}}

    <hr>
    <p><small>This digest was generated automatically by the live chat analyzer.</small></p>
</body>
</html>
`

type emailView struct {
	Source      string
	GeneratedAt time.Time
	Facts       []TeamsFact
	Topics      []string
	Answerers   []models.Answerer
}

func topAnswerers(run *models.AnalysisRun) []models.Answerer {
	answerers := run.Analysis.TopAnswerers
	if len(answerers) > digestAnswerers {
		answerers = answerers[:digestAnswerers]
	}
	return answerers
}

func buildEmailHTML(run *models.AnalysisRun) (string, error) {
	t, err := template.New("email").Funcs(template.FuncMap{
		"join": strings.Join,
	}).Parse(emailTemplate)
	if err != nil {
		return "", err
	}

	view := emailView{
		Source:      run.Source,
		GeneratedAt: run.GeneratedAt,
		Facts:       summaryFacts(run),
		Topics:      run.Analysis.Summary.TopTopics,
		Answerers:   topAnswerers(run),
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, view); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func buildEmailText(run *models.AnalysisRun) string {
	var text strings.Builder

	text.WriteString(fmt.Sprintf("Live Chat Digest - %s\n", run.Source))
	text.WriteString(fmt.Sprintf("Generated: %s\n\n", run.GeneratedAt.Format("2006-01-02 15:04:05 UTC")))

	text.WriteString("SUMMARY\n")
	text.WriteString("=======\n")
	for _, fact := range summaryFacts(run) {
		text.WriteString(fmt.Sprintf("%s: %s\n", fact.Name, fact.Value))
	}
	if topics := run.Analysis.Summary.TopTopics; len(topics) > 0 {
		text.WriteString(fmt.Sprintf("Top Topics: %s\n", strings.Join(topics, ", ")))
	}

	if answerers := topAnswerers(run); len(answerers) > 0 {
		text.WriteString("\nTOP ANSWERERS\n")
		text.WriteString("=============\n")
		for i, ans := range answerers {
			text.WriteString(fmt.Sprintf("%d. %s - %d answers, avg %.1fs, score %d\n",
				i+1, ans.Author, ans.AnswerCount, ans.AverageResponseTime, ans.HelpfulnessScore))
		}
	}

	text.WriteString("\n---\nThis digest was generated automatically by the live chat analyzer.\n")

	return text.String()
}
