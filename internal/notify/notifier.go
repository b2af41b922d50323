// Package notify delivers audit reports to a Mattermost-compatible incoming webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/obentoo/check-wallpaper/internal/common/logger"
)

// ReportHeader is the first line of every failure report
const ReportHeader = "Meta package not recommends wallpaper"

// DefaultTimeout bounds a single webhook request
const DefaultTimeout = 30 * time.Second

// maxDetailBytes caps how much of an error response body is logged
const maxDetailBytes = 512

// ErrDelivery is returned when the webhook could not be reached at all
var ErrDelivery = errors.New("webhook delivery failed")

// payload is the incoming-webhook message body
type payload struct {
	Text string `json:"text"`
}

// FormatMessage builds the report text for the given failures
func FormatMessage(failures []string) string {
	return ReportHeader + "\n" + strings.Join(failures, "\n")
}

// Notifier posts messages to a chat webhook
type Notifier struct {
	client *http.Client
	log    *logger.Logger
}

// New creates a Notifier whose requests time out after timeout.
// A zero timeout leaves requests unbounded.
func New(log *logger.Logger, timeout time.Duration) *Notifier {
	if log == nil {
		log = logger.Discard()
	}
	return &Notifier{
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

// SetHTTPClient sets a custom underlying HTTP client (useful for testing)
func (n *Notifier) SetHTTPClient(client *http.Client) {
	n.client = client
}

// Notify posts {"text": message} to webhookURL.
// A 4xx or 5xx response is logged as an error and not returned: delivery
// problems on the chat side never fail the audit. Transport failures (DNS,
// refused connection, timeout) are returned wrapped in ErrDelivery.
func (n *Notifier) Notify(ctx context.Context, webhookURL, message string) error {
	body, err := json.Marshal(payload{Text: message})
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxDetailBytes))
		// The webhook URL embeds its secret key, so it is never logged
		n.log.Error("HTTP error occurred: %s: %s (Status Code: %d)",
			resp.Status, strings.TrimSpace(string(detail)), resp.StatusCode)
		return nil
	}

	io.Copy(io.Discard, resp.Body)
	n.log.Debug("Posted report to webhook (Status Code: %d)", resp.StatusCode)
	return nil
}
