package catfact

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
	"unicode/utf8"

	"golang.org/x/time/rate"

	"github.com/whiskerlabs/catfacts-memory/backend/internal/metrics"
)

// Response is one fact returned by the external API. Length is optional in
// the wire format; RandomFact fills it from the fact text when absent.
type Response struct {
	Fact   string `json:"fact"`
	Length int    `json:"length"`
}

// Client fetches random facts from the external cat fact API.
// Each fetch is a single attempt with a bounded timeout; callers decide what
// a failure means (fallback fact, error budget, ...). A token-bucket limiter
// paces successive calls as a courtesy to the provider.
type Client struct {
	httpClient *http.Client
	url        string
	limiter    *rate.Limiter
}

// Options configures a Client.
type Options struct {
	URL     string
	Timeout time.Duration
	RPS     float64
	Burst   int
}

// NewClient creates a client for the given endpoint.
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	rps := opts.RPS
	if rps <= 0 {
		rps = 10
	}
	burst := opts.Burst
	if burst < 1 {
		burst = 1
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		url:        opts.URL,
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// RandomFact fetches one random fact. It blocks on the pacing limiter first,
// then issues exactly one HTTP request.
func (c *Client) RandomFact(ctx context.Context) (Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Response{}, err
	}
	metrics.ExternalAPIRateLimitWaits.Inc()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return Response{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ExternalAPIRequests.WithLabelValues("failure").Inc()
		return Response{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ExternalAPIRequests.WithLabelValues("failure").Inc()
		return Response{}, ClassifyError(resp)
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		metrics.ExternalAPIRequests.WithLabelValues("failure").Inc()
		return Response{}, err
	}
	if out.Fact == "" {
		metrics.ExternalAPIRequests.WithLabelValues("failure").Inc()
		return Response{}, &APIError{Type: ErrorEmptyFact, StatusCode: resp.StatusCode, Message: "fact API returned an empty fact"}
	}
	if out.Length == 0 {
		out.Length = utf8.RuneCountInString(out.Fact)
	}

	metrics.ExternalAPIRequests.WithLabelValues("success").Inc()
	return out, nil
}
