/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package epicorder

import (
	"fmt"
	"slices"
)

type Topic string

const (
	TopicAmerican   Topic = "American History"
	TopicEuropean   Topic = "European History"
	TopicIndian     Topic = "Indian History"
	TopicMiddleEast Topic = "Middle Eastern History"
	TopicChinese    Topic = "Chinese History"
	TopicAfrican    Topic = "African History"
	TopicAncient    Topic = "Ancient History"

	DefaultTopic = TopicAmerican
)

const (
	MinPlayers         = 1
	MaxPlayers         = 8
	MinTurnSeconds     = 5
	MaxTurnSeconds     = 120
	DefaultTurnSeconds = 20
)

// Topics lists every topic in the order the setup screen offers them.
var Topics = []Topic{
	TopicAmerican,
	TopicEuropean,
	TopicIndian,
	TopicMiddleEast,
	TopicChinese,
	TopicAfrican,
	TopicAncient,
}

type PlayerAge string

const (
	AgeUnder13 PlayerAge = "Under 13"
	AgeTeen    PlayerAge = "13-17"
	AgeAdult   PlayerAge = "18 and older"
)

var PlayerAges = []PlayerAge{AgeUnder13, AgeTeen, AgeAdult}

var (
	TimelineCounts = []int{1, 2, 3}
	EventCounts    = []int{3, 5, 7}
)

// Settings is the per-session configuration chosen during setup.
type Settings struct {
	Players           int       `json:"numberOfPlayers"`
	YoungestPlayer    PlayerAge `json:"youngestPlayer"`
	Timelines         int       `json:"numberOfTimelines"`
	EventsPerTimeline int       `json:"numberOfEventsPerTimeline"`
	Topic             Topic     `json:"topic"`
	PerTurnSeconds    int       `json:"perTurnSeconds"`
}

func DefaultSettings() Settings {
	return Settings{
		Players:           1,
		YoungestPlayer:    AgeUnder13,
		Timelines:         1,
		EventsPerTimeline: 3,
		Topic:             DefaultTopic,
		PerTurnSeconds:    DefaultTurnSeconds,
	}
}

// TotalEvents is the number of cards dealt for these settings.
func (s Settings) TotalEvents() int {
	return s.Timelines * s.EventsPerTimeline
}

func (s Settings) Multiplayer() bool {
	return s.Players > 1
}

func (s Settings) Validate() error {
	if s.Players < MinPlayers || s.Players > MaxPlayers {
		return fmt.Errorf("invalid player count (must be between %d-%d inclusive): %d", MinPlayers, MaxPlayers, s.Players)
	}
	if !slices.Contains(PlayerAges, s.YoungestPlayer) {
		return fmt.Errorf("invalid youngest player bracket: %q", s.YoungestPlayer)
	}
	if !slices.Contains(TimelineCounts, s.Timelines) {
		return fmt.Errorf("invalid timeline count (must be 1, 2 or 3): %d", s.Timelines)
	}
	if !slices.Contains(EventCounts, s.EventsPerTimeline) {
		return fmt.Errorf("invalid events per timeline (must be 3, 5 or 7): %d", s.EventsPerTimeline)
	}
	if !slices.Contains(Topics, s.Topic) {
		return fmt.Errorf("unknown topic: %q", s.Topic)
	}
	if s.Multiplayer() && (s.PerTurnSeconds < MinTurnSeconds || s.PerTurnSeconds > MaxTurnSeconds) {
		return fmt.Errorf("invalid seconds per turn (must be between %d-%d inclusive): %d", MinTurnSeconds, MaxTurnSeconds, s.PerTurnSeconds)
	}
	return nil
}
