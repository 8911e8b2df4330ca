/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package epicorder

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math/rand/v2"
	"slices"
)

type Phase string

const (
	PhaseSetup   Phase = "setup"
	PhasePlaying Phase = "playing"
	PhaseResults Phase = "results"
)

// ReadyDelay is how many ticks the ready indicator shows before the clock
// starts.
const ReadyDelay = 1

const NoticeTimelineFull = "Timeline is full."

var (
	ErrNotPlaying      = errors.New("no game in progress")
	ErrNotSinglePlayer = errors.New("finish is only available in single-player games")
	ErrNotAllPlaced    = errors.New("every card must be placed before finishing")
	ErrSettingsLocked  = errors.New("settings cannot change while a game is in progress")
)

// Outcome is the result of a move request.
type Outcome string

const (
	OutcomeCommitted         Outcome = "committed"
	OutcomeRejectedCapacity  Outcome = "rejected:capacity"
	OutcomeRejectedIncorrect Outcome = "rejected:incorrect"
	OutcomeRevertedIncorrect Outcome = "reverted:incorrect"
	OutcomeIgnored           Outcome = "ignored"
)

// Move asks for Card to be taken out of From and placed at Index in To.
type Move struct {
	Card  string `json:"card"`
	From  string `json:"from"`
	To    string `json:"to"`
	Index int    `json:"index"`
}

type MoveResult struct {
	Outcome   Outcome `json:"outcome"`
	Move      Move    `json:"move"`
	Flash     Flash   `json:"flash,omitempty"`
	Notice    string  `json:"notice,omitempty"`
	Player    int     `json:"player,omitempty"`
	Scored    bool    `json:"scored,omitempty"`
	TurnEnded bool    `json:"turnEnded,omitempty"`
}

type TickResult struct {
	ClockStarted bool
	TurnExpired  bool
}

// Results is frozen when a game enters the results phase.
type Results struct {
	Score       int             `json:"score"`
	Perfect     int             `json:"perfect"`
	Percent     int             `json:"percent"`
	Verdict     Verdict         `json:"verdict"`
	Message     string          `json:"message"`
	Elapsed     int             `json:"elapsed"`
	ElapsedText string          `json:"elapsedText"`
	Marks       map[string]Mark `json:"marks"`
	Scores      []int           `json:"scores,omitempty"`
	Winners     []int           `json:"winners,omitempty"`
}

// State is a serialisable snapshot of a session.
type State struct {
	Phase         Phase            `json:"phase"`
	Settings      Settings         `json:"settings"`
	Timelines     []Timeline       `json:"timelines"`
	Events        []EventCard      `json:"events"`
	Board         Board            `json:"board"`
	Marks         map[string]Mark  `json:"marks"`
	Flash         map[string]Flash `json:"flash"`
	Ready         string           `json:"ready,omitempty"`
	CurrentPlayer int              `json:"currentPlayer"`
	Scores        []int            `json:"scores"`
	Elapsed       int              `json:"elapsed"`
	TurnRemaining int              `json:"turnRemaining"`
	Clock         string           `json:"clock"`
	Capacity      int              `json:"perTimelineLimit"`
	AllPlaced     bool             `json:"allPlaced"`
	Results       *Results         `json:"results,omitempty"`
}

// Engine runs one session: it owns the board, the clock and the scores, and
// is the only thing that changes them. It is not safe for concurrent use.
type Engine struct {
	settings Settings
	provider Provider
	rng      *rand.Rand

	phase     Phase
	timelines []Timeline
	events    []EventCard
	catalog   Catalog
	board     Board
	marks     map[string]Mark
	flash     map[string]Flash
	scores    []int
	current   int
	results   *Results

	clock         Clock
	elapsed       int
	turnRemaining int
	ready         string
	readyLeft     int
}

func NewEngine(settings Settings, provider Provider, rng *rand.Rand) (*Engine, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	if rng == nil {
		rng = NewRand(0)
	}

	e := &Engine{
		settings: settings,
		provider: provider,
		rng:      rng,
	}
	e.Reset()

	return e, nil
}

// NewRand returns a seeded source of randomness, or a randomly seeded one
// when seed is zero.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}

func (e *Engine) Settings() Settings {
	return e.settings
}

func (e *Engine) Phase() Phase {
	return e.phase
}

// Configure replaces the settings used by the next StartGame.
func (e *Engine) Configure(s Settings) error {
	if e.phase == PhasePlaying {
		return ErrSettingsLocked
	}
	if err := s.Validate(); err != nil {
		return err
	}

	e.settings = s
	e.turnRemaining = s.PerTurnSeconds

	return nil
}

// StartGame fetches content from the provider and deals it.
func (e *Engine) StartGame(ctx context.Context) State {
	e.Deal(e.provider.Fetch(ctx, RequestFor(e.settings)))
	return e.Snapshot()
}

// Deal starts a new game from data. The event list is truncated or padded
// to the expected total, shuffled into the stockpile, and every score,
// mark, flash and timer is reset. The clock starts once the ready
// indicator has shown for ReadyDelay ticks.
func (e *Engine) Deal(data GameData) {
	e.clock.Stop()

	picked := fitEvents(data.Events, e.settings.TotalEvents())
	e.rng.Shuffle(len(picked), func(i, j int) { picked[i], picked[j] = picked[j], picked[i] })

	ids := make([]string, len(picked))
	for i, ev := range picked {
		ids[i] = ev.ID
	}

	e.phase = PhasePlaying
	e.timelines = slices.Clone(data.Timelines)
	e.events = picked
	e.catalog = NewCatalog(picked)
	e.board = NewBoard(e.timelines, ids)
	e.marks = map[string]Mark{}
	e.flash = map[string]Flash{}
	e.scores = make([]int, e.settings.Players)
	e.current = 1
	e.results = nil
	e.elapsed = 0
	e.turnRemaining = e.settings.PerTurnSeconds

	if e.settings.Multiplayer() {
		e.showReady(fmt.Sprintf("READY Player %d", e.current))
	} else {
		e.showReady("READY")
	}
}

// fitEvents drops repeated IDs, then truncates events to total or pads it
// by repeating events from the front under new IDs. Every returned ID is
// unique.
func fitEvents(events []EventCard, total int) []EventCard {
	used := make(map[string]bool, len(events))

	var unique []EventCard
	for _, ev := range events {
		if used[ev.ID] {
			continue
		}
		used[ev.ID] = true
		unique = append(unique, ev)
	}

	if len(unique) >= total {
		return unique[:total]
	}

	out := slices.Clone(unique)
	if len(unique) == 0 {
		return out
	}

	n := 1
	for i := 0; len(out) < total; i++ {
		dup := unique[i%len(unique)]

		id := fmt.Sprintf("%s-x%d", dup.ID, n)
		for used[id] {
			n++
			id = fmt.Sprintf("%s-x%d", dup.ID, n)
		}
		n++

		used[id] = true
		dup.ID = id
		out = append(out, dup)
	}

	return out
}

func (e *Engine) showReady(text string) {
	e.ready = text
	e.readyLeft = ReadyDelay
}

// Tick advances time by one unit.
func (e *Engine) Tick() TickResult {
	var res TickResult

	if e.phase != PhasePlaying {
		return res
	}

	if e.ready != "" {
		e.readyLeft--
		if e.readyLeft > 0 {
			return res
		}

		e.ready = ""
		if e.settings.Multiplayer() {
			e.clock.StartCountdown(e.settings.PerTurnSeconds)
			e.turnRemaining = e.clock.Value()
		} else {
			e.clock.StartElapsed()
			e.elapsed = e.clock.Value()
		}
		res.ClockStarted = true

		return res
	}

	if !e.clock.Running() {
		return res
	}

	expired := e.clock.Tick()

	switch e.clock.Mode() {
	case ClockElapsed:
		e.elapsed = e.clock.Value()
	default:
		e.turnRemaining = e.clock.Value()
	}

	if expired {
		res.TurnExpired = true
		e.nextPlayer()
	}

	return res
}

// nextPlayer passes the turn on, wrapping after the last player.
func (e *Engine) nextPlayer() {
	e.clock.Stop()
	e.current = e.current%e.settings.Players + 1
	e.turnRemaining = e.settings.PerTurnSeconds
	e.showReady(fmt.Sprintf("READY Player %d", e.current))
}

// Drop resolves a drag of card active released over target, which is
// either a container ID or another card. Dropping on a container appends
// to it; dropping on a card inserts at that card's position.
func (e *Engine) Drop(active, target string) MoveResult {
	from, ok := e.board.Locate(active)
	if !ok || e.phase != PhasePlaying {
		return MoveResult{Outcome: OutcomeIgnored, Move: Move{Card: active}}
	}

	var to string
	var index int
	if e.board.Has(target) {
		to = target
		index = len(e.board[to])
	} else {
		to, ok = e.board.Locate(target)
		if !ok {
			return MoveResult{Outcome: OutcomeIgnored, Move: Move{Card: active, From: from}}
		}
		index = e.board.IndexOf(to, target)
	}

	return e.Submit(Move{Card: active, From: from, To: to, Index: index})
}

// Submit applies a move request. Single-player moves are committed freely.
// In multiplayer games a drop onto a timeline is graded: only a correct drop
// is committed and scores, and every timeline drop ends the turn.
func (e *Engine) Submit(m Move) MoveResult {
	res := MoveResult{Outcome: OutcomeIgnored, Move: m}

	if e.phase != PhasePlaying {
		return res
	}

	from, ok := e.board.Locate(m.Card)
	if !ok || (m.From != "" && m.From != from) || !e.board.Has(m.To) {
		return res
	}
	m.From = from

	if m.From == m.To {
		m.Index = min(max(m.Index, 0), len(e.board[m.To])-1)
		if e.board.IndexOf(m.From, m.Card) == m.Index {
			res.Move = m
			return res
		}
	} else {
		m.Index = min(max(m.Index, 0), len(e.board[m.To]))
	}
	res.Move = m

	if m.To != Stockpile && m.To != m.From && e.board.WouldOverflow(m.To, e.settings.EventsPerTimeline) {
		res.Outcome = OutcomeRejectedCapacity
		res.Notice = NoticeTimelineFull
		return res
	}

	if !e.settings.Multiplayer() || m.To == Stockpile {
		e.board.MoveCard(m.Card, m.From, m.To, m.Index)
		res.Outcome = OutcomeCommitted
		return res
	}

	sequence := slices.DeleteFunc(slices.Clone(e.board[m.To]), func(id string) bool { return id == m.Card })
	verdict := GradeDrop(e.catalog, m.To, sequence, m.Card, m.Index)

	res.Flash = verdict
	res.Player = e.current
	e.flash[m.Card] = verdict

	switch verdict {
	case FlashGreen:
		e.board.MoveCard(m.Card, m.From, m.To, m.Index)
		e.scores[e.current-1]++
		res.Outcome = OutcomeCommitted
		res.Scored = true
	case FlashRed:
		res.Outcome = OutcomeRejectedIncorrect
	default:
		res.Outcome = OutcomeRevertedIncorrect
	}

	res.TurnEnded = true

	if verdict == FlashGreen && len(e.board[Stockpile]) == 0 {
		e.finishMultiplayer()
		return res
	}

	e.nextPlayer()

	return res
}

// ExpireFlash returns a card's flash feedback to idle.
func (e *Engine) ExpireFlash(card string) {
	if _, ok := e.flash[card]; ok {
		e.flash[card] = FlashIdle
	}
}

func (e *Engine) AllPlaced() bool {
	return e.phase == PhasePlaying && e.board.AllPlaced(e.timelines)
}

// Finish ends a single-player game and grades the board.
func (e *Engine) Finish() (Results, error) {
	if e.phase != PhasePlaying {
		return Results{}, ErrNotPlaying
	}
	if e.settings.Multiplayer() {
		return Results{}, ErrNotSinglePlayer
	}
	if !e.board.AllPlaced(e.timelines) {
		return Results{}, ErrNotAllPlaced
	}

	e.clock.Stop()
	e.ready = ""

	g := Grade(e.board, e.timelines, e.catalog)
	e.marks = g.Marks
	e.phase = PhaseResults

	percent := g.Percent()
	verdict := VerdictFor(percent)
	e.results = &Results{
		Score:       g.Score,
		Perfect:     g.Perfect,
		Percent:     percent,
		Verdict:     verdict,
		Message:     verdict.Message(),
		Elapsed:     e.elapsed,
		ElapsedText: FormatClock(e.elapsed),
		Marks:       maps.Clone(g.Marks),
	}

	return *e.results, nil
}

func (e *Engine) finishMultiplayer() {
	e.clock.Stop()
	e.ready = ""

	g := Grade(e.board, e.timelines, e.catalog)
	e.marks = g.Marks
	e.phase = PhaseResults

	best := slices.Max(e.scores)
	var winners []int
	for i, s := range e.scores {
		if s == best {
			winners = append(winners, i+1)
		}
	}

	total := e.board.Count()
	percent := 0
	if total > 0 {
		percent = min(best*100/total, 100)
	}
	verdict := VerdictFor(percent)

	e.results = &Results{
		Score:       best,
		Perfect:     total,
		Percent:     percent,
		Verdict:     verdict,
		Message:     verdict.Message(),
		Elapsed:     e.elapsed,
		ElapsedText: FormatClock(e.elapsed),
		Marks:       maps.Clone(g.Marks),
		Scores:      slices.Clone(e.scores),
		Winners:     winners,
	}
}

// Results returns the frozen results once the game has ended.
func (e *Engine) Results() (Results, bool) {
	if e.results == nil {
		return Results{}, false
	}
	return *e.results, true
}

// Reset stops the clock and discards the game, keeping the settings.
func (e *Engine) Reset() {
	e.clock.Stop()

	e.phase = PhaseSetup
	e.timelines = nil
	e.events = nil
	e.catalog = Catalog{}
	e.board = NewBoard(nil, nil)
	e.marks = map[string]Mark{}
	e.flash = map[string]Flash{}
	e.scores = nil
	e.current = 1
	e.results = nil
	e.elapsed = 0
	e.turnRemaining = e.settings.PerTurnSeconds
	e.ready = ""
	e.readyLeft = 0
}

func (e *Engine) Snapshot() State {
	s := State{
		Phase:         e.phase,
		Settings:      e.settings,
		Timelines:     slices.Clone(e.timelines),
		Events:        slices.Clone(e.events),
		Board:         e.board.Clone(),
		Marks:         maps.Clone(e.marks),
		Flash:         maps.Clone(e.flash),
		Ready:         e.ready,
		CurrentPlayer: e.current,
		Scores:        slices.Clone(e.scores),
		Elapsed:       e.elapsed,
		TurnRemaining: e.turnRemaining,
		Clock:         e.clock.Mode().String(),
		Capacity:      e.settings.EventsPerTimeline,
		AllPlaced:     e.AllPlaced(),
	}
	if s.Timelines == nil {
		s.Timelines = []Timeline{}
	}
	if s.Events == nil {
		s.Events = []EventCard{}
	}
	if s.Scores == nil {
		s.Scores = []int{}
	}
	if e.results != nil {
		r := *e.results
		r.Marks = maps.Clone(r.Marks)
		r.Scores = slices.Clone(r.Scores)
		r.Winners = slices.Clone(r.Winners)
		s.Results = &r
	}
	return s
}
