/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package epicorder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Request is the body sent to a Game Data Provider.
type Request struct {
	NumberOfTimelines         int    `json:"numberOfTimelines"`
	NumberOfEventsPerTimeline int    `json:"numberOfEventsPerTimeline"`
	Topic                     string `json:"topic"`
}

func RequestFor(s Settings) Request {
	return Request{
		NumberOfTimelines:         s.Timelines,
		NumberOfEventsPerTimeline: s.EventsPerTimeline,
		Topic:                     string(s.Topic),
	}
}

// GameData is the content of one session: its timelines and its cards.
type GameData struct {
	Timelines []Timeline  `json:"timelines"`
	Events    []EventCard `json:"events"`
}

// Provider supplies the timelines and cards for a new game. Fetch never
// fails; providers recover from their own errors.
type Provider interface {
	Fetch(ctx context.Context, req Request) GameData
}

// HTTPProvider posts the request as JSON to URL. Any transport failure,
// non-2xx status or malformed body falls back to Fallback.
type HTTPProvider struct {
	URL      string
	Client   *http.Client
	Fallback Provider
	Logf     func(format string, args ...any)
}

func NewHTTPProvider(url string, timeout time.Duration, fallback Provider) *HTTPProvider {
	return &HTTPProvider{
		URL:      url,
		Client:   &http.Client{Timeout: timeout},
		Fallback: fallback,
	}
}

func (p *HTTPProvider) Fetch(ctx context.Context, req Request) GameData {
	if p.URL == "" {
		return p.Fallback.Fetch(ctx, req)
	}

	data, err := p.fetch(ctx, req)
	if err != nil {
		p.logf("DATA: Falling back to built-in events for %q: %v", req.Topic, err)
		return p.Fallback.Fetch(ctx, req)
	}

	p.logf("DATA: Received %d timelines and %d events for %q", len(data.Timelines), len(data.Events), req.Topic)

	return data
}

func (p *HTTPProvider) fetch(ctx context.Context, req Request) (GameData, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return GameData{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.URL, bytes.NewReader(body))
	if err != nil {
		return GameData{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return GameData{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return GameData{}, fmt.Errorf("unexpected status %s", resp.Status)
	}

	return DecodeGameData(resp.Body)
}

// DecodeGameData accepts a body only when both "timelines" and "events" are
// present and are arrays, even if empty.
func DecodeGameData(r io.Reader) (GameData, error) {
	var raw struct {
		Timelines json.RawMessage `json:"timelines"`
		Events    json.RawMessage `json:"events"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return GameData{}, fmt.Errorf("decoding game data: %w", err)
	}
	if !isArray(raw.Timelines) || !isArray(raw.Events) {
		return GameData{}, fmt.Errorf("decoding game data: timelines and events must both be arrays")
	}

	var data GameData
	if err := json.Unmarshal(raw.Timelines, &data.Timelines); err != nil {
		return GameData{}, fmt.Errorf("decoding timelines: %w", err)
	}
	if err := json.Unmarshal(raw.Events, &data.Events); err != nil {
		return GameData{}, fmt.Errorf("decoding events: %w", err)
	}
	if data.Timelines == nil {
		data.Timelines = []Timeline{}
	}
	if data.Events == nil {
		data.Events = []EventCard{}
	}

	return data, nil
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

func (p *HTTPProvider) logf(format string, args ...any) {
	if p.Logf != nil {
		p.Logf(format, args...)
	}
}
