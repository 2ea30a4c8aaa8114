// Package events publishes a CloudEvent to an operator-configured sink each
// time a subscription is recorded. Delivery is fire-and-forget: a slow or
// broken sink never delays or fails the intake path.
package events

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	ceevent "github.com/cloudevents/sdk-go/v2/event"
	"github.com/google/uuid"

	"github.com/pricedrop/notifier/internal/registry"
)

const (
	// SubscriptionRecordedType is the CloudEvents type for recorded subscriptions.
	SubscriptionRecordedType = "com.pricedrop.subscription.recorded.v1"
	// SignatureHeader carries the HMAC signature of the request body.
	SignatureHeader = "X-Webhook-Signature"

	eventSource = "pricedrop/notifier"
)

// Publisher posts subscription-recorded events to a single sink.
type Publisher struct {
	Endpoint   string
	Secret     string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// NewPublisher constructs a publisher, or nil when no endpoint is configured.
// A nil *Publisher is safe to use; its hooks are no-ops.
func NewPublisher(endpoint, secret string, timeout time.Duration, log *slog.Logger) *Publisher {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil
	}
	return &Publisher{
		Endpoint: endpoint,
		Secret:   secret,
		Timeout:  timeout,
		Logger:   log,
	}
}

// Recorded satisfies registry.RecordedFunc. It hands delivery to a goroutine
// so the subscriber's request never waits on the sink.
func (p *Publisher) Recorded(_ context.Context, record registry.Record) {
	if p == nil {
		return
	}
	go func() {
		timeout := p.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := p.publish(ctx, record); err != nil {
			p.logger().Warn("subscription event delivery failed", "error", err, "email", record.Email)
		}
	}()
}

func (p *Publisher) publish(ctx context.Context, record registry.Record) error {
	body, err := buildEventBody(record)
	if err != nil {
		return fmt.Errorf("build event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/cloudevents+json")
	if secret := strings.TrimSpace(p.Secret); secret != "" {
		req.Header.Set(SignatureHeader, sign(body, secret))
	}

	client := p.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		payload, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sink rejected: status=%s body=%s", resp.Status, strings.TrimSpace(string(payload)))
	}
	return nil
}

func buildEventBody(record registry.Record) ([]byte, error) {
	e := ceevent.New()
	e.SetID(uuid.NewString())
	e.SetType(SubscriptionRecordedType)
	e.SetSource(eventSource)
	e.SetSubject(record.Email)
	e.SetTime(record.SubscribedAt)
	if err := e.SetData(ceevent.ApplicationJSON, record); err != nil {
		return nil, err
	}
	return json.Marshal(e)
}

func sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func (p *Publisher) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}
