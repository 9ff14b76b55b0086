package net

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	DefaultRequestTimeout = 10 * time.Second
	DefaultMaxRedirects   = 10

	// maxDrainBytes bounds how much of an unchecked body is read so the
	// connection can be reused.
	maxDrainBytes = 4 << 20

	searchChunkSize = 32 << 10
)

// CheckResults is the outcome of a single HTTP check.
type CheckResults struct {
	URL          string
	LastCheck    time.Time
	ResponseTime time.Duration
	StatusCode   int
	// BodyMatched is true when no text was required or the body contained it.
	BodyMatched  bool
	ErrorMessage string
}

// HTTPChecker issues GET requests against one URL. Certificate validation is
// always disabled.
type HTTPChecker struct {
	URL          string
	Text         string
	Timeout      time.Duration
	MaxRedirects int

	client *http.Client
}

func NewHTTPChecker(url, text string, timeout time.Duration, maxRedirects int) *HTTPChecker {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	if maxRedirects < 0 {
		maxRedirects = 0
	}

	hc := &HTTPChecker{
		URL:          url,
		Text:         text,
		Timeout:      timeout,
		MaxRedirects: maxRedirects,
	}

	hc.client = &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > hc.MaxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}

	return hc
}

// Check performs one GET. Transport failures are returned as err together
// with a populated result carrying status 0.
func (hc *HTTPChecker) Check(ctx context.Context) (*CheckResults, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, hc.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request for %s: %w", hc.URL, err)
	}

	start := time.Now()
	resp, err := hc.client.Do(req)
	if err != nil {
		return &CheckResults{
			URL:          hc.URL,
			LastCheck:    time.Now(),
			ResponseTime: time.Since(start),
			ErrorMessage: describeError(hc.URL, err),
		}, err
	}
	defer resp.Body.Close()

	matched := true
	if hc.Text != "" {
		matched, err = bodyContains(resp.Body, []byte(hc.Text), searchChunkSize)
		if err != nil {
			return &CheckResults{
				URL:          hc.URL,
				LastCheck:    time.Now(),
				ResponseTime: time.Since(start),
				StatusCode:   resp.StatusCode,
				ErrorMessage: describeError(hc.URL, err),
			}, err
		}
	} else {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))
	}

	return &CheckResults{
		URL:          hc.URL,
		LastCheck:    time.Now(),
		ResponseTime: time.Since(start),
		StatusCode:   resp.StatusCode,
		BodyMatched:  matched,
	}, nil
}

// bodyContains searches r for text chunk by chunk, carrying the last
// len(text)-1 bytes over so matches spanning two chunks are found. Reading
// stops at the first match; the request timeout bounds the rest.
func bodyContains(r io.Reader, text []byte, chunkSize int) (bool, error) {
	if len(text) == 0 {
		return true, nil
	}
	keep := len(text) - 1
	if chunkSize < 1 {
		chunkSize = searchChunkSize
	}

	buf := make([]byte, keep+chunkSize)
	carried := 0
	for {
		n, err := r.Read(buf[carried:])
		window := buf[:carried+n]
		if bytes.Contains(window, text) {
			return true, nil
		}
		if err == io.EOF {
			return false, nil
		}
		if err != nil {
			return false, err
		}

		carried = min(keep, len(window))
		copy(buf, window[len(window)-carried:])
	}
}
