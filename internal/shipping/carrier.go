package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Package dimensions sent with every booking until products carry real
// weights and sizes.
const (
	PlaceholderWeightKg = 0.5
	PlaceholderLengthCm = 10
	PlaceholderWidthCm  = 10
	PlaceholderHeightCm = 10
)

var ErrCarrierRejected = errors.New("carrier rejected request")

// Consignment is what the carrier needs to book a pickup.
type Consignment struct {
	Reference     string            `json:"reference"`
	Recipient     Recipient         `json:"recipient"`
	Items         []ConsignmentItem `json:"items"`
	CODAmount     string            `json:"codAmount,omitempty"`
	DeclaredValue string            `json:"declaredValue"`
	WeightKg      float64           `json:"weightKg"`
	LengthCm      float64           `json:"lengthCm"`
	WidthCm       float64           `json:"widthCm"`
	HeightCm      float64           `json:"heightCm"`
}

type Recipient struct {
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	Line1    string `json:"line1"`
	Line2    string `json:"line2,omitempty"`
	City     string `json:"city"`
	State    string `json:"state,omitempty"`
	Postcode string `json:"postcode"`
	Country  string `json:"country"`
}

type ConsignmentItem struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
}

// Booking is the carrier's answer to a consignment.
type Booking struct {
	AWB      string `json:"awb"`
	LabelURL string `json:"labelUrl,omitempty"`
	Status   string `json:"status,omitempty"`
}

// Tracking is the latest carrier status for an AWB. Raw is the full
// response body, stored as-is.
type Tracking struct {
	AWB    string          `json:"awb"`
	Status string          `json:"status"`
	Raw    json.RawMessage `json:"-"`
}

// Carrier books consignments and reports tracking status.
type Carrier interface {
	Name() string
	Book(ctx context.Context, c Consignment) (*Booking, error)
	Track(ctx context.Context, awb string) (*Tracking, error)
}

// HTTPCarrier talks to the carrier's JSON API.
type HTTPCarrier struct {
	name    string
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPCarrier(name, baseURL, apiKey string, timeout time.Duration) *HTTPCarrier {
	return &HTTPCarrier{
		name:    name,
		baseURL: baseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (c *HTTPCarrier) Name() string {
	return c.name
}

func (c *HTTPCarrier) Book(ctx context.Context, consignment Consignment) (*Booking, error) {
	var booking Booking
	if _, err := c.do(ctx, http.MethodPost, "/shipments", consignment, &booking); err != nil {
		return nil, fmt.Errorf("book consignment: %w", err)
	}
	if booking.AWB == "" {
		return nil, fmt.Errorf("book consignment: %w: empty awb", ErrCarrierRejected)
	}
	return &booking, nil
}

func (c *HTTPCarrier) Track(ctx context.Context, awb string) (*Tracking, error) {
	var tracking Tracking
	raw, err := c.do(ctx, http.MethodGet, "/shipments/"+url.PathEscape(awb)+"/track", nil, &tracking)
	if err != nil {
		return nil, fmt.Errorf("track %s: %w", awb, err)
	}
	tracking.Raw = raw
	if tracking.AWB == "" {
		tracking.AWB = awb
	}
	return &tracking, nil
}

func (c *HTTPCarrier) do(ctx context.Context, method, path string, in, out any) (json.RawMessage, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrCarrierRejected, resp.StatusCode, truncate(string(raw), 200))
	}
	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return nil, fmt.Errorf("decode carrier response: %w", err)
		}
	}
	return raw, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
