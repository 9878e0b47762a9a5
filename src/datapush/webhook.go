// webhook.go
package datapush

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nicholasarchambault/employee-exit-surveys/src/processor"
)

const (
	RetryTimes    = 5
	RetryInterval = 2 * time.Second
	pushTimeout   = 10 * time.Second
)

// Summary is the JSON payload pushed after each pipeline run.
type Summary struct {
	GeneratedAt time.Time                `json:"generated_at"`
	RowCount    int                      `json:"row_count"`
	Categories  []processor.CategoryRate `json:"categories"`
}

// response is the receiver's acknowledgement envelope.
type response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Pusher posts pipeline summaries to a webhook, retrying transient
// failures with a fixed backoff.
type Pusher struct {
	URL    string
	client *http.Client
}

func NewPusher(url string) *Pusher {
	return &Pusher{
		URL:    url,
		client: &http.Client{Timeout: pushTimeout},
	}
}

// Push sends the summary, retrying up to RetryTimes on transport errors
// and 5xx responses.
func (p *Pusher) Push(result *processor.Result) error {
	summary := Summary{
		GeneratedAt: time.Now(),
		RowCount:    result.Combined.Nrow(),
		Categories:  result.Pivot,
	}
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < RetryTimes; attempt++ {
		if attempt > 0 {
			time.Sleep(RetryInterval)
		}
		lastErr = p.post(payload)
		if lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("webhook push failed after %d attempts: %w", RetryTimes, lastErr)
}

func (p *Pusher) post(payload []byte) error {
	resp, err := p.client.Post(p.URL, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode >= 500 {
		return fmt.Errorf("server error %d: %s", resp.StatusCode, body)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("rejected with status %d: %s", resp.StatusCode, body)
	}

	var ack response
	if err := json.Unmarshal(body, &ack); err != nil {
		return nil // a bare 2xx without an envelope is still a success
	}
	if ack.Code != 0 {
		return fmt.Errorf("receiver reported error %d: %s", ack.Code, ack.Message)
	}
	return nil
}
