// Package scoring calls the external AI endpoint that rates one article's
// clickbait probability and factual accuracy.
package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"time"
)

const defaultTimeout = 10 * time.Second

// Result carries the two percentages for one article. Scored reports
// whether the service actually produced them: a failed call yields the
// neutral zero pair with Scored=false so downstream consumers can tell
// "failed to score" apart from "genuinely neutral".
type Result struct {
	ClickbaitRate int
	Accuracy      int
	Scored        bool
}

// Neutral is the fallback result for a failed scoring call.
func Neutral() Result { return Result{} }

// Client is an HTTP client for the scoring service. The service takes a
// single (title, body) pair per call; there is no batch endpoint.
type Client struct {
	endpoint string
	http     *http.Client

	// compatZero reproduces the original dashboard behavior of reporting
	// failed calls as legitimately scored zeros. Only useful for
	// behavior-comparison runs; it silently drags averages down.
	compatZero bool
}

// NewClient builds a scoring client. A zero timeout gets the default 10s.
func NewClient(endpoint string, timeout time.Duration, compatZero bool) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		endpoint:   endpoint,
		http:       &http.Client{Timeout: timeout},
		compatZero: compatZero,
	}
}

type scoreRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type scoreResponse struct {
	Probabilities []float64 `json:"probabilities"`
	Score         *float64  `json:"score"`
	LabelName     string    `json:"label_name"`
}

// Score rates one article. Any failure (network, timeout, non-200,
// malformed or incomplete response) yields the neutral result; scoring
// failures are terminal per article, never retried.
func (c *Client) Score(ctx context.Context, title, body string) Result {
	result, err := c.score(ctx, title, body)
	if err != nil {
		log.Printf("❌ scoring failed for %q: %v", title, err)
		fallback := Neutral()
		fallback.Scored = c.compatZero
		return fallback
	}
	return result
}

func (c *Client) score(ctx context.Context, title, body string) (Result, error) {
	payload, err := json.Marshal(scoreRequest{Title: title, Body: body})
	if err != nil {
		return Result{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var decoded scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Result{}, fmt.Errorf("decode response: %w", err)
	}

	// The first probability is the clickbait probability; score doubles as
	// the accuracy estimate. Both are required.
	if len(decoded.Probabilities) == 0 || decoded.Score == nil {
		return Result{}, fmt.Errorf("incomplete response: probabilities=%d score=%v",
			len(decoded.Probabilities), decoded.Score)
	}

	return Result{
		ClickbaitRate: toPercent(decoded.Probabilities[0]),
		Accuracy:      toPercent(*decoded.Score),
		Scored:        true,
	}, nil
}

// toPercent converts a [0,1] probability to a bounded integer percentage.
func toPercent(p float64) int {
	v := int(math.Round(p * 100))
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
