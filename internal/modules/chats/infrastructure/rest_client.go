package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const defaultAssistantTimeout = 15 * time.Second

// jsonEndpoint posts JSON documents to paths under a fixed base URL.
type jsonEndpoint struct {
	baseURL string
	client  *http.Client
}

func newJSONEndpoint(baseURL string, timeout time.Duration, client *http.Client) jsonEndpoint {
	if timeout <= 0 {
		timeout = defaultAssistantTimeout
	}
	if client == nil {
		client = &http.Client{}
	}
	client.Timeout = timeout
	return jsonEndpoint{baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"), client: client}
}

func (e jsonEndpoint) url(path string) string {
	return e.baseURL + "/" + strings.TrimLeft(path, "/")
}

// post sends in as JSON and returns the body of a 200 response. The caller closes it.
// Any other status is an error carrying the first 2KiB of the body.
func (e jsonEndpoint) post(ctx context.Context, path string, in any) (io.ReadCloser, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url(path), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	res, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("assistant request failed: %w", err)
	}
	slog.Debug("assistant response", slog.Int("status", res.StatusCode), slog.String("url", req.URL.String()))
	if res.StatusCode != http.StatusOK {
		defer res.Body.Close()
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 2048))
		return nil, fmt.Errorf("unexpected assistant response %d: %s", res.StatusCode, strings.TrimSpace(string(snippet)))
	}
	return res.Body, nil
}
