package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/atelierhub/sheetmirror/internal/utils"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPSource talks to the sheet API over HTTP.
type HTTPSource struct {
	baseURL string
	apiKey  string
	client  HTTPClient
}

type Option func(*HTTPSource)

// WithClient replaces the underlying HTTP client (tests, custom transports).
func WithClient(c HTTPClient) Option {
	return func(s *HTTPSource) { s.client = c }
}

func NewHTTPSource(baseURL, apiKey string, timeout time.Duration, opts ...Option) *HTTPSource {
	s := &HTTPSource{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type tableResponse struct {
	Values [][]string `json:"values"`
}

func (s *HTTPSource) FetchTable(ctx context.Context, name string) ([][]string, error) {
	resp, err := s.get(ctx, "/tables/"+url.PathEscape(name))
	if err != nil {
		return nil, err
	}
	defer utils.Try(resp.Body.Close)

	var body tableResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode table %s: %v", ErrUnavailable, name, err)
	}
	return body.Values, nil
}

func (s *HTTPSource) FetchAsset(ctx context.Context, id string) (io.ReadCloser, error) {
	resp, err := s.get(ctx, "/assets/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func (s *HTTPSource) AppendRow(ctx context.Context, table string, row []string) error {
	payload, err := json.Marshal(map[string][]string{"values": row})
	if err != nil {
		return fmt.Errorf("marshal row: %w", err)
	}

	req, err := s.newRequest(ctx, http.MethodPost, "/tables/"+url.PathEscape(table)+"/rows", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: append to %s: %v", ErrUnavailable, table, err)
	}
	defer utils.Try(resp.Body.Close)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: append to %s: unexpected status %d", ErrUnavailable, table, resp.StatusCode)
	}
	return nil
}

func (s *HTTPSource) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := s.newRequest(ctx, http.MethodGet, path, http.NoBody)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", ErrUnavailable, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		utils.Try(resp.Body.Close)
		return nil, fmt.Errorf("%w: GET %s: unexpected status %d", ErrUnavailable, path, resp.StatusCode)
	}
	return resp, nil
}

func (s *HTTPSource) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", path, err)
	}
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}
	return req, nil
}
