// Package stripe is the HTTP client for the hosted payment processor and
// the verifier for its signed webhook deliveries.
package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Config struct {
	BaseURL   string
	SecretKey string
	Timeout   time.Duration
}

type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

// CheckoutSession is the subset of the processor's session object this
// system reads.
type CheckoutSession struct {
	ID              string `json:"id"`
	URL             string `json:"url"`
	Customer        string `json:"customer"`
	CustomerDetails struct {
		Email string `json:"email"`
	} `json:"customer_details"`
}

// CheckoutParams describes one hosted-checkout session for the single
// course product.
type CheckoutParams struct {
	PriceID    string
	SuccessURL string
	CancelURL  string
	Product    string
}

func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = "https://api.stripe.com"
	}
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return nil, errors.New("stripe secret key is empty")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		secretKey:  strings.TrimSpace(cfg.SecretKey),
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// CreateCheckoutSession opens a hosted checkout session: card payment for a
// single fixed price, automatic tax, promotion codes allowed, and customer
// email always collected so the webhook can provision the account.
func (c *Client) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (CheckoutSession, error) {
	if strings.TrimSpace(params.PriceID) == "" {
		return CheckoutSession{}, errors.New("price id is empty")
	}

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("payment_method_types[0]", "card")
	form.Set("line_items[0][price]", params.PriceID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("customer_creation", "always")
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	form.Set("allow_promotion_codes", "true")
	form.Set("automatic_tax[enabled]", "true")
	if params.Product != "" {
		form.Set("metadata[product]", params.Product)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return CheckoutSession{}, fmt.Errorf("build checkout request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return CheckoutSession{}, fmt.Errorf("create checkout session: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return CheckoutSession{}, fmt.Errorf("create checkout session: status=%d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var session CheckoutSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return CheckoutSession{}, fmt.Errorf("decode checkout session: %w", err)
	}
	if session.URL == "" {
		return CheckoutSession{}, errors.New("checkout session has no hosted url")
	}
	return session, nil
}
