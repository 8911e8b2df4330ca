package epicorder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHTTPProviderFetch(t *testing.T) {
	var got Request

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method: got %s, want POST", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"timelines":[{"id":"t","title":"T","start":"1800","end":"1900"}],"events":[{"id":"e","description":"E","date":"1850","timelineId":"t"}]}`))
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, time.Second, &staticProvider{})
	data := p.Fetch(context.Background(), Request{NumberOfTimelines: 1, NumberOfEventsPerTimeline: 3, Topic: "Ancient History"})

	if want := (Request{NumberOfTimelines: 1, NumberOfEventsPerTimeline: 3, Topic: "Ancient History"}); got != want {
		t.Errorf("request body: got %+v, want %+v", got, want)
	}
	if len(data.Timelines) != 1 || len(data.Events) != 1 || data.Events[0].TimelineID != "t" {
		t.Errorf("unexpected data %+v", data)
	}
}

func TestHTTPProviderFallsBack(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"timelines":[],"events":[]}`},
		{"malformed body", http.StatusOK, `{"timelines":`},
		{"events not an array", http.StatusOK, `{"timelines":[],"events":{}}`},
		{"missing timelines", http.StatusOK, `{"events":[]}`},
	}

	fallback := GameData{Timelines: []Timeline{{ID: "fallback"}}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			var logged []string
			p := NewHTTPProvider(srv.URL, time.Second, &staticProvider{data: fallback})
			p.Logf = func(format string, args ...any) { logged = append(logged, format) }

			data := p.Fetch(context.Background(), Request{})
			if len(data.Timelines) != 1 || data.Timelines[0].ID != "fallback" {
				t.Errorf("expected fallback data, got %+v", data)
			}
			if len(logged) != 1 || !strings.HasPrefix(logged[0], "DATA: Falling back") {
				t.Errorf("unexpected log lines %v", logged)
			}
		})
	}
}

func TestHTTPProviderUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	fallback := &staticProvider{data: GameData{Events: []EventCard{{ID: "x"}}}}
	data := NewHTTPProvider(url, time.Second, fallback).Fetch(context.Background(), Request{})

	if len(data.Events) != 1 || len(fallback.requests) != 1 {
		t.Errorf("expected one fallback fetch, got %+v", data)
	}
}

func TestHTTPProviderWithoutURL(t *testing.T) {
	fallback := &staticProvider{}
	NewHTTPProvider("", time.Second, fallback).Fetch(context.Background(), Request{Topic: "x"})

	if len(fallback.requests) != 1 {
		t.Errorf("fallback fetched %d times, want 1", len(fallback.requests))
	}
}

func TestDecodeGameDataAcceptsEmptyArrays(t *testing.T) {
	data, err := DecodeGameData(strings.NewReader(`{"timelines":[],"events":[]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.Timelines == nil || data.Events == nil {
		t.Errorf("expected empty slices, got %+v", data)
	}
}

func TestMockProviderClustersByYear(t *testing.T) {
	for _, topic := range Topics {
		t.Run(string(topic), func(t *testing.T) {
			p := NewMockProvider(NewRand(3))
			data := p.Fetch(context.Background(), Request{NumberOfTimelines: 3, NumberOfEventsPerTimeline: 5, Topic: string(topic)})

			if len(data.Timelines) != 3 {
				t.Fatalf("timelines: got %d, want 3", len(data.Timelines))
			}
			if len(data.Events) != 15 {
				t.Fatalf("events: got %d, want 15", len(data.Events))
			}

			index := make(map[string]int, len(data.Timelines))
			for i, tl := range data.Timelines {
				index[tl.ID] = i
			}

			seen := make(map[string]bool)
			for _, a := range data.Events {
				if seen[a.ID] {
					t.Errorf("duplicate event %s", a.ID)
				}
				seen[a.ID] = true

				if _, ok := index[a.TimelineID]; !ok {
					t.Fatalf("event %s assigned to unknown timeline %q", a.ID, a.TimelineID)
				}
				for _, b := range data.Events {
					if a.When().Year < b.When().Year && index[a.TimelineID] > index[b.TimelineID] {
						t.Errorf("%s (%d) is on a later timeline than %s (%d)", a.ID, a.When().Year, b.ID, b.When().Year)
					}
				}
			}
		})
	}
}

func TestMockProviderUnknownTopic(t *testing.T) {
	data := NewMockProvider(NewRand(5)).Fetch(context.Background(), Request{NumberOfTimelines: 1, NumberOfEventsPerTimeline: 3, Topic: "Lunar History"})

	pool := make(map[string]bool)
	for _, ev := range SamplePool(DefaultTopic) {
		pool[ev.ID] = true
	}
	for _, ev := range data.Events {
		if !pool[ev.ID] {
			t.Errorf("event %s is not from the default pool", ev.ID)
		}
	}
}

func TestMockProviderSmallPool(t *testing.T) {
	data := NewMockProvider(NewRand(9)).Fetch(context.Background(), Request{NumberOfTimelines: 3, NumberOfEventsPerTimeline: 50, Topic: string(TopicAncient)})

	if got, want := len(data.Events), len(SamplePool(TopicAncient)); got != want {
		t.Errorf("events: got %d, want the whole pool of %d", got, want)
	}
}

func TestSamplePoolDatesParse(t *testing.T) {
	for _, topic := range Topics {
		for _, ev := range SamplePool(topic) {
			if _, err := ParseDate(ev.Date); err != nil {
				t.Errorf("%s: %s has date %q: %v", topic, ev.ID, ev.Date, err)
			}
		}
	}
}
