package service

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"valid-assessment-backend/internal/assessment"
	"valid-assessment-backend/internal/metrics"
	"valid-assessment-backend/utilities"
)

// SignatureHeader carries the hex HMAC-SHA256 of the body when a secret is set.
const SignatureHeader = "X-Valid-Signature"

// Lead is the lead-capture payload.
type Lead struct {
	SessionID    string                  `json:"session_id"`
	Demographics assessment.Demographics `json:"demographics"`
	Persona      string                  `json:"persona"`
	Secondary    string                  `json:"secondary,omitempty"`
	Confidence   string                  `json:"confidence"`
	Scores       map[string]int          `json:"scores"`
	Verdict      string                  `json:"verdict"`
	CompletedAt  time.Time               `json:"completed_at"`
}

// NewLead builds the payload from a completion event.
func NewLead(ev CompletionEvent) Lead {
	snap := ev.Snapshot
	return Lead{
		SessionID:    snap.SessionID,
		Demographics: snap.Demographics,
		Persona:      string(snap.Persona.Primary),
		Secondary:    string(snap.Persona.Secondary),
		Confidence:   string(snap.Persona.Confidence),
		Scores:       snap.Scores.Map(),
		Verdict:      string(ev.Verdict.Verdict),
		CompletedAt:  snap.CompletedAt,
	}
}

type WebhookService interface {
	Send(ctx context.Context, ev CompletionEvent) error
}

type webhookService struct {
	url     string
	secret  []byte
	client  *http.Client
	limiter *rate.Limiter
	metrics *metrics.Metrics
}

func NewWebhookService(url, secret string, timeout time.Duration, perSecond float64, m *metrics.Metrics) WebhookService {
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return &webhookService{
		url:     url,
		secret:  []byte(secret),
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		metrics: m,
	}
}

// InitWebhookEventListeners posts a lead for every completed assessment that
// carries an email address.
func InitWebhookEventListeners(bus *utilities.EventBus, hooks WebhookService, timeout time.Duration) {
	bus.Subscribe(utilities.EventAssessmentCompleted, func(data interface{}) {
		ev, ok := data.(CompletionEvent)
		if !ok || ev.Snapshot.Demographics.Email == "" {
			return
		}
		// Allow for the wait on the limiter plus the request itself.
		ctx, cancel := context.WithTimeout(context.Background(), 2*timeout)
		defer cancel()
		if err := hooks.Send(ctx, ev); err != nil {
			utilities.Error("webhook for session %s: %v", ev.Snapshot.SessionID, err)
		}
	})
}

func (s *webhookService) sign(body []byte) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *webhookService) Send(ctx context.Context, ev CompletionEvent) error {
	if err := s.limiter.Wait(ctx); err != nil {
		s.metrics.WebhookFailures.Inc()
		return fmt.Errorf("webhook rate limit: %w", err)
	}

	body, err := json.Marshal(NewLead(ev))
	if err != nil {
		return fmt.Errorf("encode lead: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if len(s.secret) > 0 {
		req.Header.Set(SignatureHeader, s.sign(body))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.metrics.WebhookFailures.Inc()
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.metrics.WebhookFailures.Inc()
		return fmt.Errorf("webhook responded %s", resp.Status)
	}
	return nil
}
