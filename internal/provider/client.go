// Package provider implements the HTTP client for the company-registry API.
// The client performs exactly one round trip per call with a bounded timeout;
// retry policy, if any, belongs to the caller.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"kontra/internal/platform/config"
	"kontra/pkg/domain"
	"kontra/pkg/platform/circuit"
)

var tracer = otel.Tracer("kontra/provider")

// notFoundStatus is the provider's "no data for this ID" status code, carried
// inside an otherwise-200 response body.
const notFoundStatus = "260"

// probeInterval bounds how often an open circuit lets a request through.
const probeInterval = 30 * time.Second

// Client queries the registry's combined multiple-methods endpoint. A
// circuit breaker fails calls fast while the registry is down instead of
// holding every check for the full timeout.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	breaker *circuit.Breaker

	probeMu   sync.Mutex
	lastProbe time.Time
}

// New constructs a registry client. A missing API key is a config error and
// is reported here, once, rather than on every request.
func New(cfg config.ProviderConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, NewError(ErrorConfig, "registry API key is not configured", nil)
	}
	if cfg.BaseURL == "" {
		return nil, NewError(ErrorConfig, "registry base URL is not configured", nil)
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.Timeout},
		breaker: circuit.New("registry"),
	}, nil
}

// Fetch retrieves the requested facets for a tax ID in a single round trip.
// The tax ID is passed through unmodified; length validation is a transport
// concern. Failures are always *Error values.
func (c *Client) Fetch(ctx context.Context, taxID domain.TaxID, facets []Facet) (Bundle, error) {
	ctx, span := tracer.Start(ctx, "provider.Fetch")
	defer span.End()
	span.SetAttributes(attribute.Int("facets", len(facets)))

	if c.breaker.IsOpen() && !c.shouldProbe() {
		return nil, NewError(ErrorNetwork, "registry is unavailable, circuit open", nil)
	}

	if len(facets) == 0 {
		facets = DefaultFacets
	}
	names := make([]string, len(facets))
	for i, f := range facets {
		names[i] = string(f)
	}

	q := url.Values{}
	q.Set("id", taxID.String())
	q.Set("api_key", c.apiKey)
	q.Set("list", strings.Join(names, ","))
	q.Set("_format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/multiple-methods?"+q.Encode(), nil)
	if err != nil {
		return nil, NewError(ErrorNetwork, "build registry request", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.breaker.RecordFailure()
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, NewError(ErrorTimeout, "registry request timed out", err)
		}
		return nil, NewError(ErrorNetwork, "registry request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.breaker.RecordFailure()
		return nil, NewError(ErrorProvider, fmt.Sprintf("registry returned HTTP %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.breaker.RecordFailure()
		return nil, NewError(ErrorNetwork, "read registry response", err)
	}

	// The registry answered; a not-found or malformed body is not a
	// transport failure.
	c.breaker.RecordSuccess()
	return decodeBundle(body, facets)
}

// shouldProbe lets one request through the open circuit per probe interval
// so the breaker can observe recovery.
func (c *Client) shouldProbe() bool {
	c.probeMu.Lock()
	defer c.probeMu.Unlock()
	if time.Since(c.lastProbe) < probeInterval {
		return false
	}
	c.lastProbe = time.Now()
	return true
}

// decodeBundle splits the combined response into per-facet raw fragments and
// surfaces provider-level failure signals (status/message fields) as errors.
func decodeBundle(body []byte, facets []Facet) (Bundle, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, NewError(ErrorMalformed, "registry response is not a JSON object", err)
	}

	if raw, ok := envelope["status"]; ok {
		var status string
		if json.Unmarshal(raw, &status) == nil && status == notFoundStatus {
			return nil, NewError(ErrorNotFound, "company not found in registry", nil)
		}
	}
	if raw, ok := envelope["message"]; ok {
		var message string
		if json.Unmarshal(raw, &message) == nil && looksLikeError(message) {
			return nil, NewError(ErrorProvider, message, nil)
		}
	}

	bundle := make(Bundle, len(facets))
	for _, f := range facets {
		if raw, ok := envelope[string(f)]; ok && len(raw) > 0 && string(raw) != "null" {
			bundle[f] = raw
		}
	}
	return bundle, nil
}

// looksLikeError matches the provider's free-text failure indicator. The
// provider localizes it, so both spellings are checked.
func looksLikeError(message string) bool {
	lower := strings.ToLower(message)
	return strings.Contains(lower, "ошибка") || strings.Contains(lower, "error")
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
