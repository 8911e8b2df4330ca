/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package epicorder

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"sync"
)

//go:embed samples.json
var samplesJSON []byte

var samplePools = sync.OnceValue(func() map[Topic][]EventCard {
	var pools map[Topic][]EventCard
	if err := json.Unmarshal(samplesJSON, &pools); err != nil {
		panic("decoding built-in samples: " + err.Error())
	}
	return pools
})

// MockProvider generates games from the built-in per-topic event pools.
// It is safe for concurrent use.
type MockProvider struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewMockProvider(rng *rand.Rand) *MockProvider {
	if rng == nil {
		rng = NewRand(0)
	}
	return &MockProvider{rng: rng}
}

func (m *MockProvider) Fetch(_ context.Context, req Request) GameData {
	m.mu.Lock()
	defer m.mu.Unlock()

	return generate(m.rng, req)
}

// SamplePool returns a copy of the built-in events for topic, falling back
// to DefaultTopic for unknown topics.
func SamplePool(topic Topic) []EventCard {
	pools := samplePools()
	pool, ok := pools[topic]
	if !ok {
		pool = pools[DefaultTopic]
	}
	return slices.Clone(pool)
}

// generate picks the requested number of events, splits the year range they
// cover into equal segments, one per timeline, and assigns every event to
// the segment containing its year.
func generate(rng *rand.Rand, req Request) GameData {
	count := max(req.NumberOfTimelines, 1)
	total := count * max(req.NumberOfEventsPerTimeline, 0)

	pool := SamplePool(Topic(req.Topic))
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	picked := pool[:min(total, len(pool))]

	if len(picked) == 0 {
		return GameData{Timelines: segmentTimelines(0, 0, count), Events: []EventCard{}}
	}

	lo, hi := math.MaxInt, math.MinInt
	for _, e := range picked {
		y := e.When().Year
		lo = min(lo, y)
		hi = max(hi, y)
	}

	timelines := segmentTimelines(lo, hi, count)
	width := float64(hi-lo) / float64(count)

	for i := range picked {
		seg := 0
		if width > 0 {
			seg = int(float64(picked[i].When().Year-lo) / width)
		}
		picked[i].TimelineID = timelines[min(seg, count-1)].ID
	}

	rng.Shuffle(len(picked), func(i, j int) { picked[i], picked[j] = picked[j], picked[i] })

	return GameData{Timelines: timelines, Events: picked}
}

func segmentTimelines(lo, hi, count int) []Timeline {
	width := float64(hi-lo) / float64(count)

	timelines := make([]Timeline, count)
	for i := range timelines {
		start := lo + int(math.Floor(float64(i)*width))
		end := hi
		if i < count-1 {
			end = max(lo+int(math.Floor(float64(i+1)*width))-1, start)
		}

		timelines[i] = Timeline{
			ID:    fmt.Sprintf("tl-%d", i+1),
			Title: fmt.Sprintf("Timeline %d", i+1),
			Start: Date{Year: start}.YearString(),
			End:   Date{Year: end}.YearString(),
		}
	}
	return timelines
}
