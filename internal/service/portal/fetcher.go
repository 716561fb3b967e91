package portal

import (
	"context"
	"io"
	"net/http"

	"github.com/ayame/salon-sync-go/internal/constants"
	"github.com/ayame/salon-sync-go/pkg/errors"
	"go.uber.org/zap"
)

// Fetcher performs plain GETs against the portal. No retry and no caching:
// a failed unit is the caller's problem to isolate, and every sync works
// from a fresh fetch.
type Fetcher struct {
	httpClient *http.Client
	logger     *zap.Logger
}

func NewFetcher(logger *zap.Logger) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: constants.FetchConfig.Timeout,
		},
		logger: logger,
	}
}

// Fetch returns the raw markup of url.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.NewTransportError("failed to build request", url, 0, err)
	}

	req.Header.Set("User-Agent", constants.FetchConfig.UserAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewTransportError("HTTP request failed", url, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewTransportError("unexpected status code", url, resp.StatusCode, nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewTransportError("failed to read body", url, resp.StatusCode, err)
	}

	f.logger.Debug("Fetched portal page",
		zap.String("url", url),
		zap.Int("bytes", len(body)))

	return body, nil
}

// Download fetches a binary asset and reports the response content type
// alongside the bytes, so the mirror can trust the server over the URL
// suffix when assigning a MIME type.
func (f *Fetcher) Download(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", errors.NewTransportError("failed to build request", url, 0, err)
	}

	req.Header.Set("User-Agent", constants.FetchConfig.UserAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, "", errors.NewTransportError("download failed", url, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", errors.NewTransportError("unexpected status code", url, resp.StatusCode, nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", errors.NewTransportError("failed to read body", url, resp.StatusCode, err)
	}

	return body, resp.Header.Get("Content-Type"), nil
}
