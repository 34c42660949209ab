// Package rest talks to the room REST endpoints.
package rest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dkeye/Sketch/internal/core"
	"github.com/dkeye/Sketch/internal/domain"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

const maxBodyBytes = 1 << 20

// RoomClient implements core.RoomAPI over HTTP/JSON.
type RoomClient struct {
	BaseURL string
	Token   string
	http    *http.Client
}

func New(baseURL, token string, timeout time.Duration) *RoomClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RoomClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

type joinRequest struct {
	Codeword string `json:"codeword"`
}

type roomResponse struct {
	Room *domain.RoomConfig `json:"room"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func (c *RoomClient) CreateRoom(ctx context.Context, req domain.RoomRequest) (domain.RoomConfig, error) {
	return c.post(ctx, "/room", req)
}

func (c *RoomClient) JoinRoom(ctx context.Context, codeword string) (domain.RoomConfig, error) {
	return c.post(ctx, "/room/join", joinRequest{Codeword: codeword})
}

func (c *RoomClient) post(ctx context.Context, path string, body any) (domain.RoomConfig, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return domain.RoomConfig{}, fmt.Errorf("encode %s: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(b))
	if err != nil {
		return domain.RoomConfig{}, fmt.Errorf("build %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return domain.RoomConfig{}, &core.TransportError{Err: err}
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.RoomConfig{}, &core.TransportError{Status: resp.StatusCode, Err: err}
	}
	log.Debug().Str("module", "adapters.rest").Str("path", path).Int("status", resp.StatusCode).Dur("dur", time.Since(start)).Msg("http")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorResponse
		_ = json.Unmarshal(data, &eb)
		return domain.RoomConfig{}, &core.TransportError{
			Status:  resp.StatusCode,
			Message: eb.Message,
			Err:     fmt.Errorf("POST %s: %s", path, resp.Status),
		}
	}

	var rr roomResponse
	if err := json.Unmarshal(data, &rr); err != nil {
		return domain.RoomConfig{}, malformed(resp.StatusCode, err)
	}
	if rr.Room == nil {
		return domain.RoomConfig{}, malformed(resp.StatusCode, fmt.Errorf("missing room"))
	}
	if err := domain.Validate(rr.Room); err != nil {
		return domain.RoomConfig{}, malformed(resp.StatusCode, err)
	}
	return *rr.Room, nil
}

func malformed(status int, err error) error {
	return &core.TransportError{Status: status, Err: fmt.Errorf("%w: %v", core.ErrMalformedResponse, err)}
}
