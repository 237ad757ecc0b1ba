package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"framefix/internal/config"
)

const userAgent = "framefix/0.1.0"

// Event names a notification-worthy run milestone.
type Event string

const (
	EventRunCompleted   Event = "run_completed"
	EventUnmatchedPaths Event = "unmatched_paths"
	EventRunFailed      Event = "run_failed"
	EventTest           Event = "test"
)

// Payload carries event-specific values keyed by name.
type Payload map[string]any

// Service defines the notification surface exposed to the pipeline.
type Service interface {
	Publish(ctx context.Context, event Event, payload Payload) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) Publish(ctx context.Context, event Event, payload Payload) error {
	msg, ok := format(event, payload)
	if !ok {
		return nil
	}
	return n.send(ctx, msg)
}

func format(event Event, payload Payload) (message, bool) {
	switch event {
	case EventRunCompleted:
		title := payloadString(payload, "title")
		rows := payloadInt(payload, "rows")
		body := fmt.Sprintf("Report ready: %s (%d rows)", title, rows)
		if output := payloadString(payload, "output"); output != "" {
			body += "\nOutput: " + output
		}
		return message{
			title: "framefix - Report Ready",
			body:  body,
			tags:  []string{"framefix", "report", "completed"},
		}, true
	case EventUnmatchedPaths:
		count := payloadInt(payload, "count")
		body := fmt.Sprintf("%d shot path(s) had no work-order location", count)
		if paths := payloadString(payload, "paths"); paths != "" {
			body += "\n" + paths
		}
		return message{
			title: "framefix - Unmatched Paths",
			body:  body,
			tags:  []string{"framefix", "unmatched", "review"},
		}, true
	case EventRunFailed:
		var builder strings.Builder
		builder.WriteString("Run failed")
		if stage := payloadString(payload, "stage"); stage != "" {
			builder.WriteString(" during ")
			builder.WriteString(stage)
		}
		builder.WriteString(": ")
		if errText := payloadString(payload, "error"); errText != "" {
			builder.WriteString(errText)
		} else {
			builder.WriteString("unknown")
		}
		return message{
			title:    "framefix - Error",
			body:     builder.String(),
			tags:     []string{"framefix", "error", "alert"},
			priority: "high",
		}, true
	case EventTest:
		return message{
			title:    "framefix - Test",
			body:     "Notification system test",
			tags:     []string{"framefix", "test"},
			priority: "low",
		}, true
	default:
		return message{}, false
	}
}

func (n *ntfyService) send(ctx context.Context, data message) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func payloadString(payload Payload, key string) string {
	if payload == nil {
		return ""
	}
	switch v := payload[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case []string:
		return strings.Join(v, "\n")
	case error:
		return strings.TrimSpace(v.Error())
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func payloadInt(payload Payload, key string) int {
	if payload == nil {
		return 0
	}
	switch v := payload[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	default:
		return 0
	}
}

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }
