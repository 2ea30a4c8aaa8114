package widget

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type subscriptionRequest struct {
	Email   string      `json:"email"`
	Product ProductData `json:"product"`
}

// submitResult is the interpreted server response. ErrorCode is the
// machine-readable code the widget branches its message on; it is empty when
// the body carried none.
type submitResult struct {
	OK        bool
	Status    int
	ErrorCode string
}

// submitClient posts subscription requests with a bounded timeout. A timeout
// surfaces as a transport error, indistinguishable from a refused connection
// by design.
type submitClient struct {
	endpoint string
	timeout  time.Duration
	http     *http.Client
}

func (c *submitClient) submit(ctx context.Context, payload subscriptionRequest) (submitResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return submitResult{}, fmt.Errorf("encode request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return submitResult{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := c.http
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return submitResult{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	result := submitResult{
		OK:     resp.StatusCode >= 200 && resp.StatusCode < 300,
		Status: resp.StatusCode,
	}

	// An undecodable body leaves the code empty and the caller falls back to
	// its generic message.
	var decoded struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err == nil {
		result.ErrorCode = decoded.Error
	}
	return result, nil
}
