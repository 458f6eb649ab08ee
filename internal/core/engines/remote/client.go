// Package remote binds an invoice analysis engine served over HTTP.
//
// The service takes a multipart upload on POST <base>/analyze and answers
// with the engine's JSON result. 422 means the service did not accept one
// of the form fields.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/markdave123-py/fatura-gateway/internal/core/capability"
)

// Module is the name the remote engine registers under.
const Module = "app"

const maxErrorBody = 4 << 10

// Client is a constructed remote engine.
type Client struct {
	endpoint string
	headers  map[string]string
	http     *http.Client
	logger   zerolog.Logger
}

// NewClient builds a client for baseURL. kw may carry config_path; values in
// the file override baseURL.
func NewClient(baseURL string, kw capability.Kwargs, logger zerolog.Logger) (*Client, error) {
	if err := capability.UnexpectedKeyword(kw, capability.KwConfigPath); err != nil {
		return nil, err
	}
	var fc FileConfig
	if p, ok := kw.String(capability.KwConfigPath); ok {
		var err error
		if fc, err = LoadFileConfig(p); err != nil {
			return nil, fmt.Errorf("load engine config: %w", err)
		}
	}
	if fc.BaseURL != "" {
		baseURL = fc.BaseURL
	}
	timeout, err := fc.timeout()
	if err != nil {
		return nil, err
	}

	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid engine url %q", baseURL)
	}
	return &Client{
		endpoint: strings.TrimRight(baseURL, "/") + "/analyze",
		headers:  fc.Headers,
		http:     &http.Client{Timeout: timeout},
		logger:   logger,
	}, nil
}

// Analyze uploads the file at path and returns the decoded response.
func (c *Client) Analyze(ctx context.Context, path string, kw capability.Kwargs) (any, error) {
	if err := capability.UnexpectedKeyword(kw, capability.KwVisualize); err != nil {
		return nil, err
	}
	body, contentType, err := encodeUpload(path, kw)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("engine request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug().Str("endpoint", c.endpoint).Int("status", resp.StatusCode).Msg("engine responded")

	switch {
	case resp.StatusCode == http.StatusUnprocessableEntity:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: %s", capability.ErrSignatureMismatch, strings.TrimSpace(string(msg)))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("engine returned %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("engine returned an empty body")
		}
		return nil, fmt.Errorf("decode engine response: %w", err)
	}
	return out, nil
}

func encodeUpload(path string, kw capability.Kwargs) (io.Reader, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("read upload: %w", err)
	}
	if v, ok := kw.Bool(capability.KwVisualize); ok {
		if err := mw.WriteField(capability.KwVisualize, strconv.FormatBool(v)); err != nil {
			return nil, "", err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

// Register adds the remote module for baseURL to reg. It is a no-op when
// baseURL is empty.
func Register(reg *capability.Registry, baseURL string, logger zerolog.Logger) error {
	if baseURL == "" {
		return nil
	}
	logger = logger.With().Str("engine", "remote").Logger()
	return reg.Register(&capability.Module{
		Name: Module,
		Classes: map[string]capability.Constructor{
			capability.EngineClass: func(kw capability.Kwargs) (any, error) {
				return NewClient(baseURL, kw, logger)
			},
		},
	})
}
