// Package transcripts decodes collected chat transcripts into messages.
//
// A transcript is a JSON array of messages, an object with a "messages" array,
// or newline-delimited JSON. Entries without id, author or a parseable
// timestamp are dropped here so the analysis core only ever sees valid input.
package transcripts

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sstrntu/youtube-live-comment-scrapper/internal/models"
)

// ErrEmpty is returned for a transcript with no content at all
var ErrEmpty = errors.New("transcript is empty")

type record struct {
	ID              string          `json:"id"`
	Author          string          `json:"author"`
	ChannelID       string          `json:"channelId"`
	Text            string          `json:"text"`
	Message         string          `json:"message"`
	Timestamp       json.RawMessage `json:"timestamp"`
	Badges          []string        `json:"badges"`
	IsSuperChat     bool            `json:"isSuperChat"`
	SuperChatAmount string          `json:"superChatAmount"`
	ProfileImage    string          `json:"profileImage"`
}

type envelope struct {
	Messages []record `json:"messages"`
}

// Decode reads a transcript and returns its valid messages in input order
func Decode(r io.Reader) ([]models.Message, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrEmpty
	}

	var records []record
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("failed to parse transcript array: %w", err)
		}
	case '{':
		records, err = decodeObjectOrLines(data)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unrecognized transcript format")
	}

	messages := make([]models.Message, 0, len(records))
	dropped := 0
	for _, rec := range records {
		msg, ok := rec.toMessage()
		if !ok {
			dropped++
			continue
		}
		messages = append(messages, msg)
	}
	if dropped > 0 {
		logrus.Warnf("Dropped %d malformed transcript entries", dropped)
	}
	return messages, nil
}

// decodeObjectOrLines handles {"messages":[...]} and NDJSON, which both start with '{'
func decodeObjectOrLines(data []byte) ([]record, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err == nil && env.Messages != nil {
		return env.Messages, nil
	}

	var records []record
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var rec record
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			logrus.Debugf("Skipping unparseable transcript line %d: %v", line, err)
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan transcript: %w", err)
	}
	return records, nil
}

func (r record) toMessage() (models.Message, bool) {
	if strings.TrimSpace(r.ID) == "" || strings.TrimSpace(r.Author) == "" {
		return models.Message{}, false
	}
	ts, ok := parseTimestamp(r.Timestamp)
	if !ok {
		return models.Message{}, false
	}
	text := r.Text
	if text == "" {
		text = r.Message
	}
	return models.Message{
		ID:              r.ID,
		Author:          r.Author,
		ChannelID:       r.ChannelID,
		Text:            text,
		Timestamp:       ts,
		Badges:          r.Badges,
		IsSuperChat:     r.IsSuperChat,
		SuperChatAmount: r.SuperChatAmount,
		ProfileImage:    r.ProfileImage,
	}, true
}

// parseTimestamp accepts RFC3339 strings, numeric strings and epoch numbers.
// Numbers above 1e12 are milliseconds, otherwise seconds.
func parseTimestamp(raw json.RawMessage) (time.Time, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return time.Time{}, false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t.UTC(), true
		}
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return fromEpoch(n), true
		}
		return time.Time{}, false
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return fromEpoch(n), true
	}
	return time.Time{}, false
}

func fromEpoch(n float64) time.Time {
	if n > 1e12 {
		return time.UnixMilli(int64(n)).UTC()
	}
	return time.Unix(int64(n), 0).UTC()
}
