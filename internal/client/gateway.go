// Package client talks to the archive server over its REST surface.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const defaultTimeout = 30 * time.Second

type Gateway struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewGateway targets a server origin such as http://localhost:4000.
func NewGateway(baseURL string, log zerolog.Logger) *Gateway {
	return &Gateway{
		baseURL: strings.TrimRight(baseURL, "/") + "/api",
		http:    &http.Client{Timeout: defaultTimeout},
		log:     log.With().Str("component", "gateway").Logger(),
	}
}

func (g *Gateway) Health(ctx context.Context) error {
	resp, err := g.do(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	return nil
}

// Fetch returns the raw documents of a collection.
func (g *Gateway) Fetch(ctx context.Context, table string) ([]json.RawMessage, error) {
	resp, err := g.do(ctx, http.MethodGet, "/"+table, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}
	var docs []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", table, err)
	}
	return docs, nil
}

// ErrUndecodable marks a collection the server returned but that could not
// be read into its typed form.
var ErrUndecodable = errors.New("undecodable collection")

// Load fetches a collection into []T. A transport failure, a non-2xx answer
// and an empty collection yield def. A document that does not decode is an
// ErrUndecodable error, never def, since saving def would overwrite the
// server's data.
func Load[T any](ctx context.Context, g *Gateway, table string, def []T) ([]T, error) {
	docs, err := g.Fetch(ctx, table)
	if err != nil {
		g.log.Warn().Err(err).Str("table", table).Msg("load failed, using defaults")
		return def, nil
	}
	if len(docs) == 0 {
		return def, nil
	}
	items := make([]T, 0, len(docs))
	for i, doc := range docs {
		var item T
		if err := json.Unmarshal(doc, &item); err != nil {
			return nil, fmt.Errorf("%w: %s[%d]: %v", ErrUndecodable, table, i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// Save replaces a collection on the server. Anything other than a slice or
// array is sent as an empty list.
func (g *Gateway) Save(ctx context.Context, table string, data any) error {
	if !isList(data) {
		data = []any{}
	}
	body, err := json.Marshal(data)
	if err != nil {
		return err
	}
	resp, err := g.do(ctx, http.MethodPost, "/"+table, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	return nil
}

// Backup downloads every collection. A non-2xx answer yields an empty object.
func (g *Gateway) Backup(ctx context.Context) (json.RawMessage, error) {
	resp, err := g.do(ctx, http.MethodGet, "/backup", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		g.log.Warn().Int("status", resp.StatusCode).Msg("backup unavailable")
		return json.RawMessage(`{}`), nil
	}
	var payload json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode backup: %w", err)
	}
	return payload, nil
}

// Restore uploads a backup document produced by Backup.
func (g *Gateway) Restore(ctx context.Context, payload []byte) error {
	if !json.Valid(payload) {
		return fmt.Errorf("restore payload is not valid JSON")
	}
	resp, err := g.do(ctx, http.MethodPost, "/restore", payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	return nil
}

// Get decodes any JSON endpoint under /api into dst.
func (g *Gateway) Get(ctx context.Context, path string, dst any) error {
	resp, err := g.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

func (g *Gateway) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return g.http.Do(req)
}

func statusError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
		return fmt.Errorf("%s %s: %d %s", resp.Request.Method, resp.Request.URL.Path, resp.StatusCode, payload.Error)
	}
	return fmt.Errorf("%s %s: %d", resp.Request.Method, resp.Request.URL.Path, resp.StatusCode)
}

func isList(data any) bool {
	if data == nil {
		return false
	}
	kind := reflect.TypeOf(data).Kind()
	if kind == reflect.Slice {
		return !reflect.ValueOf(data).IsNil()
	}
	return kind == reflect.Array
}
