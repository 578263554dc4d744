// Package lottie fetches the decorative loading animation shown by the
// dashboard. Strictly best-effort: every failure means the animation simply
// does not render.
package lottie

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// maxAnimationBytes bounds how much of the remote blob is read.
const maxAnimationBytes = 1 << 20

type Loader struct {
	httpClient *http.Client
	logger     *zap.Logger
}

func NewLoader(logger *zap.Logger) *Loader {
	return &Loader{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Fetch downloads the animation JSON. Callers treat a nil result as
// "no animation" and move on.
func (l *Loader) Fetch(ctx context.Context, url string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building animation request: %w", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching animation: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("animation fetch returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAnimationBytes))
	if err != nil {
		return nil, fmt.Errorf("reading animation body: %w", err)
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("animation body is not valid JSON")
	}

	l.logger.Debug("animation loaded", zap.String("url", url), zap.Int("bytes", len(body)))
	return json.RawMessage(body), nil
}
