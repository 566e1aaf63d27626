// Package webhook builds vendor-shaped callback payloads and delivers them
// to the configured target. Dispatch is fire-and-forget: handlers hand an
// event off and never learn whether delivery succeeded.
package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"wamock/internal/constants"
	"wamock/internal/ids"
	"wamock/internal/metrics"
	"wamock/internal/models"
	"wamock/internal/service"
	"wamock/pkg/cloudapi/types"
)

// Dispatcher owns its own concurrency: every event runs in its own
// goroutine with a per-call timeout, exactly one delivery attempt, no
// retries. Outcomes go to the EventLogger only.
type Dispatcher struct {
	target        string
	secret        string
	timeout       time.Duration
	phoneNumberID string
	displayNumber string

	client *http.Client
	gen    *ids.Generator
	events service.EventLogger
	now    func() time.Time
	wg     sync.WaitGroup
}

// NewDispatcher builds a dispatcher from the runtime config. A nil webhook
// config yields a disabled dispatcher; Dispatch becomes a no-op.
func NewDispatcher(cfg *models.Config, gen *ids.Generator, events service.EventLogger) *Dispatcher {
	if events == nil {
		events = service.NoopEventLogger{}
	}

	d := &Dispatcher{
		phoneNumberID: cfg.PhoneNumberID,
		displayNumber: cfg.DisplayPhoneNumber,
		gen:           gen,
		events:        events,
		now:           time.Now,
		timeout:       constants.DefaultWebhookTimeoutMs * time.Millisecond,
	}

	if cfg.Webhook != nil {
		d.target = cfg.Webhook.URL
		d.secret = cfg.Webhook.Secret
		if cfg.Webhook.TimeoutMs > 0 {
			d.timeout = time.Duration(cfg.Webhook.TimeoutMs) * time.Millisecond
		}
	}

	// The per-request context carries the deadline; the client itself
	// stays unbounded so the context is the single timeout authority.
	d.client = &http.Client{}
	return d
}

// Enabled reports whether a webhook target is configured.
func (d *Dispatcher) Enabled() bool {
	return d.target != ""
}

// Dispatch hands an event to the delivery goroutine and returns
// immediately. The triggering HTTP response never waits on it.
func (d *Dispatcher) Dispatch(event models.WebhookEvent) {
	if !d.Enabled() {
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.deliver(event)
	}()
}

// Wait blocks until all in-flight deliveries settle. Used at shutdown and
// in tests; request handlers never call it.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) deliver(event models.WebhookEvent) {
	payload := d.BuildPayload(event)

	body, err := json.Marshal(payload)
	if err != nil {
		d.events.RecordFailed(d.target, fmt.Sprintf("marshal payload: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.target, bytes.NewReader(body))
	if err != nil {
		d.events.RecordFailed(d.target, fmt.Sprintf("build request: %v", err))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if d.secret != "" {
		req.Header.Set(constants.WebhookSignatureHeader, signBody(d.secret, body))
	}

	start := d.now()
	resp, err := d.client.Do(req)
	duration := d.now().Sub(start)

	if err != nil {
		metrics.IncrementCounter("webhook_deliveries_total", map[string]string{
			"event": string(event.Kind()), "outcome": "failed",
		}, "Webhook delivery attempts by outcome")
		d.events.RecordFailed(d.target, err.Error())
		return
	}
	defer resp.Body.Close()

	metrics.IncrementCounter("webhook_deliveries_total", map[string]string{
		"event": string(event.Kind()), "outcome": "delivered",
	}, "Webhook delivery attempts by outcome")
	metrics.RecordTimer("webhook_delivery_duration", duration, map[string]string{
		"event": string(event.Kind()),
	}, "Webhook delivery duration")

	d.events.RecordDelivered(d.target, resp.StatusCode, duration.Milliseconds())
}

// BuildPayload constructs the vendor envelope for an event: one entry keyed
// by the business phone identity, one change with field "messages", and a
// value carrying exactly one of messages[] or statuses[].
func (d *Dispatcher) BuildPayload(event models.WebhookEvent) *types.WebhookPayload {
	value := types.Value{
		MessagingProduct: types.MessagingProduct,
		Metadata: types.Metadata{
			DisplayPhoneNumber: d.displayNumber,
			PhoneNumberID:      d.phoneNumberID,
		},
	}

	timestamp := strconv.FormatInt(d.now().Unix(), 10)

	switch ev := event.(type) {
	case models.StatusEvent:
		value.Statuses = []types.Status{{
			ID:          ev.MessageID,
			Status:      types.StatusSent,
			Timestamp:   timestamp,
			RecipientID: ev.RecipientID,
			Conversation: &types.Conversation{
				ID:     "mock_conversation",
				Origin: &types.Origin{Type: "service"},
			},
		}}

	case models.TextEvent:
		value.Contacts = []types.WebhookContact{{
			Profile: types.Profile{Name: ev.Name},
			WaID:    ev.From,
		}}
		value.Messages = []types.WebhookMessage{{
			From:      ev.From,
			ID:        d.messageID(ev.MessageID),
			Timestamp: timestamp,
			Type:      types.MessageTypeText,
			Text:      &types.Text{Body: ev.Body},
		}}

	case models.ButtonReplyEvent:
		value.Messages = []types.WebhookMessage{{
			From:      ev.From,
			ID:        d.messageID(ev.MessageID),
			Timestamp: timestamp,
			Type:      types.MessageTypeInteractive,
			Interactive: &types.WebhookInteractive{
				Type:        types.InteractiveTypeButtonReply,
				ButtonReply: &types.ButtonReply{ID: ev.ButtonID, Title: ev.Title},
			},
		}}

	case models.ListReplyEvent:
		value.Messages = []types.WebhookMessage{{
			From:      ev.From,
			ID:        d.messageID(ev.MessageID),
			Timestamp: timestamp,
			Type:      types.MessageTypeInteractive,
			Interactive: &types.WebhookInteractive{
				Type:      types.InteractiveTypeListReply,
				ListReply: &types.ListReply{ID: ev.ItemID, Title: ev.Title, Description: ev.Description},
			},
		}}
	}

	return &types.WebhookPayload{
		Object: types.ObjectBusinessAccount,
		Entry: []types.Entry{{
			ID: d.phoneNumberID,
			Changes: []types.Change{{
				Field: types.FieldMessages,
				Value: value,
			}},
		}},
	}
}

// messageID keeps the id the caller was handed when one exists, so debug
// responses and webhook payloads agree.
func (d *Dispatcher) messageID(fromEvent string) string {
	if fromEvent != "" {
		return fromEvent
	}
	return d.gen.Next()
}

// signBody computes the X-Hub-Signature-256 header value for a payload.
func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
