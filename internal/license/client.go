// Package license talks to the LemonSqueezy licensing API and manages the
// local one-shot trial.
package license

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const apiBase = "https://api.lemonsqueezy.com/v1/licenses"

// Client is a LemonSqueezy license API client. The zero value is not
// usable; construct with NewClient.
type Client struct {
	base string
	http *http.Client
}

// Option mutates a Client during construction.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, used by tests.
func WithBaseURL(u string) Option { return func(c *Client) { c.base = strings.TrimRight(u, "/") } }

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

func NewClient(opts ...Option) *Client {
	c := &Client{base: apiBase, http: &http.Client{Timeout: 15 * time.Second}}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Info is the license object returned by the API.
type Info struct {
	ID              int    `json:"id"`
	Status          string `json:"status"`
	Key             string `json:"key"`
	ActivationLimit int    `json:"activation_limit"`
	ActivationUsage int    `json:"activation_usage"`
	ExpiresAt       string `json:"expires_at"`
}

// Meta carries the store/customer context attached to a license.
type Meta struct {
	StoreID       int    `json:"store_id"`
	ProductID     int    `json:"product_id"`
	ProductName   string `json:"product_name"`
	VariantID     int    `json:"variant_id"`
	VariantName   string `json:"variant_name"`
	CustomerID    int    `json:"customer_id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
}

type instance struct {
	ID string `json:"id"`
}

// ValidationResult is the outcome of a validate call.
type ValidationResult struct {
	Valid      bool
	Err        string
	License    *Info
	InstanceID string
	Meta       *Meta
}

// ActivationResult is the outcome of an activate call.
type ActivationResult struct {
	Activated  bool
	Err        string
	License    *Info
	InstanceID string
	Meta       *Meta
}

type apiResponse struct {
	Valid       bool      `json:"valid"`
	Activated   bool      `json:"activated"`
	Deactivated bool      `json:"deactivated"`
	Error       string    `json:"error"`
	LicenseKey  *Info     `json:"license_key"`
	Instance    *instance `json:"instance"`
	Meta        *Meta     `json:"meta"`
}

// Validate checks a license key; instanceID may be empty for key-only
// validation.
func (c *Client) Validate(ctx context.Context, key, instanceID string) (ValidationResult, error) {
	form := url.Values{"license_key": {key}}
	if instanceID != "" {
		form.Set("instance_id", instanceID)
	}
	resp, err := c.post(ctx, "/validate", form)
	if err != nil {
		return ValidationResult{}, err
	}
	out := ValidationResult{Valid: resp.Valid, Err: resp.Error, License: resp.LicenseKey, Meta: resp.Meta}
	if resp.Instance != nil {
		out.InstanceID = resp.Instance.ID
	}
	return out, nil
}

// Activate registers this machine as a license instance.
func (c *Client) Activate(ctx context.Context, key, instanceName string) (ActivationResult, error) {
	form := url.Values{"license_key": {key}, "instance_name": {instanceName}}
	resp, err := c.post(ctx, "/activate", form)
	if err != nil {
		return ActivationResult{}, err
	}
	out := ActivationResult{Activated: resp.Activated, Err: resp.Error, License: resp.LicenseKey, Meta: resp.Meta}
	if resp.Instance != nil {
		out.InstanceID = resp.Instance.ID
	}
	return out, nil
}

// Deactivate releases this machine's license instance.
func (c *Client) Deactivate(ctx context.Context, key, instanceID string) (bool, error) {
	form := url.Values{"license_key": {key}, "instance_id": {instanceID}}
	resp, err := c.post(ctx, "/deactivate", form)
	if err != nil {
		return false, err
	}
	return resp.Deactivated, nil
}

func (c *Client) post(ctx context.Context, path string, form url.Values) (*apiResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("license API request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode license API response: %w", err)
	}
	return &out, nil
}
