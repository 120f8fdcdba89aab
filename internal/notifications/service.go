package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"vigil/internal/config"
)

const userAgent = "Vigil/0.1.0"

// Service defines the notification surface exposed to the watchdog.
type Service interface {
	NotifyProcessOffline(ctx context.Context, process string) error
	NotifyProcessRestarted(ctx context.Context, process string, downFor time.Duration) error
	NotifyRestartFailed(ctx context.Context, process, reason string) error
	NotifyProcessRecovered(ctx context.Context, process string) error
	NotifyMemoryAlert(ctx context.Context, process string, memoryMB, thresholdMB float64) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &http.Client{Timeout: timeout}
	return &ntfyService{
		endpoint: topic,
		client:   client,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyProcessOffline(ctx context.Context, process string) error {
	process = strings.TrimSpace(process)
	data := payload{
		title:   "Vigil - Process Offline",
		message: fmt.Sprintf("Process offline: %s", process),
		tags:    []string{"vigil", "offline", "detected"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyProcessRestarted(ctx context.Context, process string, downFor time.Duration) error {
	process = strings.TrimSpace(process)
	downFor = downFor.Round(time.Second)
	if downFor < 0 {
		downFor = 0
	}
	data := payload{
		title:   "Vigil - Restart Attempted",
		message: fmt.Sprintf("Restarted %s after %s offline", process, downFor),
		tags:    []string{"vigil", "restart", "attempted"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyRestartFailed(ctx context.Context, process, reason string) error {
	process = strings.TrimSpace(process)
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "unknown"
	}
	data := payload{
		title:    "Vigil - Restart Failed",
		message:  fmt.Sprintf("Could not restart %s: %s", process, reason),
		tags:     []string{"vigil", "restart", "failed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyProcessRecovered(ctx context.Context, process string) error {
	process = strings.TrimSpace(process)
	data := payload{
		title:   "Vigil - Recovered",
		message: fmt.Sprintf("Process back online: %s", process),
		tags:    []string{"vigil", "recovered"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyMemoryAlert(ctx context.Context, process string, memoryMB, thresholdMB float64) error {
	process = strings.TrimSpace(process)
	data := payload{
		title:    "Vigil - Memory Alert",
		message:  fmt.Sprintf("%s is using %.2f MB (threshold %.2f MB)", process, memoryMB, thresholdMB),
		tags:     []string{"vigil", "memory", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Vigil - Error",
		message:  builder.String(),
		tags:     []string{"vigil", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Vigil - Test",
		message:  "Notification system test",
		tags:     []string{"vigil", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
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

type noopService struct{}

func (noopService) NotifyProcessOffline(context.Context, string) error                 { return nil }
func (noopService) NotifyProcessRestarted(context.Context, string, time.Duration) error { return nil }
func (noopService) NotifyRestartFailed(context.Context, string, string) error          { return nil }
func (noopService) NotifyProcessRecovered(context.Context, string) error               { return nil }
func (noopService) NotifyMemoryAlert(context.Context, string, float64, float64) error  { return nil }
func (noopService) NotifyError(context.Context, error, string) error                   { return nil }
func (noopService) TestNotification(context.Context) error                             { return nil }
