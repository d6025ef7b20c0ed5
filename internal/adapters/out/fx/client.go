package fx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// rateResponse is the JSON body both providers answer with.
type rateResponse struct {
	Base   string  `json:"base"`
	Target string  `json:"target"`
	Rate   float64 `json:"rate"`
}

// ProviderClient fetches exchange rates from one HTTP rate provider.
type ProviderClient struct {
	name string
	http *resty.Client
}

// NewProviderClient creates a client for the provider at baseURL. The name
// identifies the provider in logs and errors.
func NewProviderClient(name, baseURL string, timeout time.Duration) *ProviderClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)

	return &ProviderClient{
		name: name,
		http: client,
	}
}

// Name returns the provider's log-facing name.
func (c *ProviderClient) Name() string {
	return c.name
}

// FetchRate requests the rate from base to target. Any transport failure or
// non-200 answer is an error; the caller decides whether to fall through to
// the next source.
func (c *ProviderClient) FetchRate(ctx context.Context, base, target string) (float64, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("base", base).
		SetQueryParam("target", target).
		Get("/rates")
	if err != nil {
		return 0, fmt.Errorf("%s: %w", c.name, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return 0, fmt.Errorf("%s: rate request status %d", c.name, resp.StatusCode())
	}

	var body rateResponse
	if err = json.Unmarshal(resp.Body(), &body); err != nil {
		return 0, fmt.Errorf("%s: %w", c.name, err)
	}

	if body.Rate <= 0 {
		return 0, fmt.Errorf("%s: non-positive rate %v", c.name, body.Rate)
	}

	return body.Rate, nil
}
