package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Client sends transactional mail (verification codes, access decisions)
// through an HTTP email provider. The circuit breaker keeps a flapping
// provider from stalling every signup.
type Client struct {
	baseURL    string
	apiKey     string
	sender     string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	log        *zap.SugaredLogger
	configured bool
}

func NewClient(baseURL, apiKey, sender string, log *zap.SugaredLogger) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "email",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		sender:     sender,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		breaker:    cb,
		log:        log,
		configured: baseURL != "" && apiKey != "" && sender != "",
	}
}

type sendReq struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Send delivers one email. Unconfigured clients log and drop the mail so dev
// environments work without a provider.
func (c *Client) Send(ctx context.Context, to, subject, html string) error {
	if !c.configured {
		c.log.Infow("email provider not configured, skipping", "to", to, "subject", subject)
		return nil
	}
	if to == "" || subject == "" {
		return errors.New("recipient and subject are required")
	}
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.post(ctx, sendReq{From: c.sender, To: to, Subject: subject, HTML: html})
	})
	return err
}

func (c *Client) post(ctx context.Context, body sendReq) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v3/smtp/email", bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("email provider returned %d", resp.StatusCode)
	}
	return nil
}

// SendVerificationCode mails the signup verification code.
func (c *Client) SendVerificationCode(ctx context.Context, to, code string, ttl time.Duration) error {
	html := fmt.Sprintf("<p>Your Joint verification code is <b>%s</b>. It expires in %d minutes.</p>",
		code, int(ttl.Minutes()))
	return c.Send(ctx, to, "Verify your Joint account", html)
}
