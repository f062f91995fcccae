// Package network provides the HTTP client used to fetch remote ad schedules.
package network

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/adcue/adcue/constant"
	"github.com/adcue/adcue/util"
)

// MaxBodyBytes caps the size of a fetched document.
const MaxBodyBytes = 4 << 20

// Client is shared across the application.
var Client = &http.Client{
	Timeout:   30 * time.Second,
	Transport: newTransport(),
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConnsPerHost = 4
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 10 * time.Second
	return t
}

// Get fetches url and returns its body along with the response content type.
func Get(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", constant.UserAgent)

	resp, err := Client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("get %s: unexpected status %s", url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("get %s: %w", url, err)
	}
	if len(body) > MaxBodyBytes {
		return nil, "", fmt.Errorf("get %s: body exceeds %d bytes", url, MaxBodyBytes)
	}

	return body, resp.Header.Get("Content-Type"), nil
}
