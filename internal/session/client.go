// Package session runs the client side of the game: the cooperative
// tick loop that simulates energy, taps and purchases, and the
// synchronizer that mirrors progress to the remote store.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"tapkombat/internal/progress"
)

// ClaimResult is the server's verdict on a daily claim. On success
// the client adopts NewCoins and NewStreak verbatim instead of its
// own prediction.
type ClaimResult struct {
	Success         bool   `json:"success"`
	Reward          int    `json:"reward"`
	NewStreak       int    `json:"new_streak"`
	NewCoins        int    `json:"new_coins"`
	Error           string `json:"error,omitempty"`
	TimeLeftSeconds int    `json:"time_left_seconds,omitempty"`
}

// Client is the remote progress store as seen from a session.
type Client interface {
	Load(ctx context.Context, playerID string) (progress.Snapshot, bool, error)
	Save(ctx context.Context, snap progress.Snapshot) error
	ClaimDaily(ctx context.Context, playerID string) (ClaimResult, error)
}

// HTTPClient talks JSON to a progress server. Every call carries a
// request timeout; Load additionally retries with exponential backoff
// before the session gives up and starts from defaults.
type HTTPClient struct {
	BaseURL string
	HTTP    *http.Client

	// LoadRetries bounds the backoff retry count for Load.
	LoadRetries uint64
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		HTTP:        &http.Client{Timeout: 10 * time.Second},
		LoadRetries: 4,
	}
}

func (c *HTTPClient) Load(ctx context.Context, playerID string) (progress.Snapshot, bool, error) {
	var (
		snap  progress.Snapshot
		found bool
	)
	op := func() error {
		var resp struct {
			Found bool              `json:"found"`
			Data  progress.Snapshot `json:"data"`
		}
		target := c.BaseURL + "/api/progress/load?player_id=" + url.QueryEscape(playerID)
		if err := c.getJSON(ctx, target, &resp); err != nil {
			return err
		}
		snap, found = resp.Data, resp.Found
		return nil
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.LoadRetries), ctx)
	if err := backoff.Retry(op, b); err != nil {
		return progress.Snapshot{}, false, err
	}
	return snap, found, nil
}

func (c *HTTPClient) Save(ctx context.Context, snap progress.Snapshot) error {
	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error,omitempty"`
	}
	if err := c.postJSON(ctx, c.BaseURL+"/api/progress/save", snap, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("save rejected: %s", resp.Error)
	}
	return nil
}

func (c *HTTPClient) ClaimDaily(ctx context.Context, playerID string) (ClaimResult, error) {
	var out ClaimResult
	body := map[string]string{"player_id": playerID}
	err := c.postJSON(ctx, c.BaseURL+"/api/daily/claim", body, &out)
	if err != nil {
		return ClaimResult{}, err
	}
	return out, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, target string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	return c.do(req, out, http.StatusOK)
}

func (c *HTTPClient) postJSON(ctx context.Context, target string, in, out any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(in); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	// Claim rejections come back as 400 with a JSON body the caller
	// still needs to read.
	return c.do(req, out, http.StatusOK, http.StatusBadRequest)
}

func (c *HTTPClient) do(req *http.Request, out any, acceptable ...int) error {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	ok := false
	for _, code := range acceptable {
		if resp.StatusCode == code {
			ok = true
			break
		}
	}
	if !ok {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: unexpected status %d: %s", req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
