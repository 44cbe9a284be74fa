package groupware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const maxBodyBytes = 8 << 20

type page struct {
	status   int
	finalURL string
	body     string
}

func (s *Session) get(ctx context.Context, path string) (page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.BaseURL+path, nil)
	if err != nil {
		return page{}, err
	}
	return s.do(req)
}

func (s *Session) postForm(ctx context.Context, path string, form url.Values) (page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return page{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(req)
}

// postJSON sends payload and returns the raw JSON response body. An HTML
// answer means the portal bounced the request to its login page.
func (s *Session) postJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	if err := s.requireAuthenticated(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/plain, */*")

	p, err := s.do(req)
	if err != nil {
		return nil, err
	}
	if p.status == http.StatusUnauthorized || p.status == http.StatusForbidden || looksLikeHTML(p.body) {
		s.expire()
		return nil, ErrSessionExpired
	}
	if p.status >= 400 {
		return nil, fmt.Errorf("portal returned HTTP %d for %s", p.status, path)
	}
	return []byte(p.body), nil
}

func (s *Session) do(req *http.Request) (page, error) {
	client, err := s.httpClient()
	if err != nil {
		return page{}, err
	}
	if err := s.limiter.Wait(req.Context()); err != nil {
		return page{}, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return page{}, fmt.Errorf("request %s failed: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return page{}, fmt.Errorf("failed to read %s response: %w", req.URL.Path, err)
	}
	return page{
		status:   resp.StatusCode,
		finalURL: resp.Request.URL.String(),
		body:     string(data),
	}, nil
}

func looksLikeHTML(body string) bool {
	trimmed := strings.TrimSpace(body)
	return strings.HasPrefix(trimmed, "<")
}
