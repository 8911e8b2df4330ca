/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Epic Order
//
// Players drag historical event cards out of a shared stockpile and onto
// the timeline each event belongs to, in chronological order.
//
// Features:
// - WebSockets per game ID: /timeline/:gameid and /timeline/:gameid/ws
// - One Hub per game owns the engine; every command, tick, data delivery
//   and flash expiry is applied on the hub's run loop
// - Single-player games run an elapsed clock and are graded on "finish"
// - Multiplayer games are pass-and-play: each timeline drop is graded
//   immediately, correct drops score, and every drop passes the turn
// - Game content comes from the configured data provider, falling back
//   to the built-in events
// - Players identified by cookie (playerID)
// - Games auto-reaped after configurable idle timeout
// - Random 8-char game IDs via crypto/rand, with server-side collision check
// - In-browser QR button to share the current session, backed by go-qrcode

package main

import (
	"context"
	"crypto/rand"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Seednode/epicorder/games/epicorder"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

const (
	tickInterval     = time.Second
	greenFlashDelay  = 600 * time.Millisecond
	otherFlashDelay  = 800 * time.Millisecond
	writeWait        = 10 * time.Second
	maxMessageSize   = 8 << 10
	maxGameIDLength  = 32
	playerCookieName = "epicorder_id"
)

// Messages coming from clients
type ClientMessage struct {
	Type     string              `json:"type"`               // "settings", "start", "drop", "move", "finish", "reset"
	Settings *epicorder.Settings `json:"settings,omitempty"` // settings
	Card     string              `json:"card,omitempty"`     // drop / move
	Over     string              `json:"over,omitempty"`     // drop: container or card under the pointer
	From     string              `json:"from,omitempty"`     // move
	To       string              `json:"to,omitempty"`       // move
	Index    int                 `json:"index,omitempty"`    // move
}

// StateMessage is broadcast after every change, and sent on connect.
type StateMessage struct {
	Type    string          `json:"type"` // "state"
	GameID  string          `json:"gameId"`
	Loading bool            `json:"loading"`
	State   epicorder.State `json:"state"`
}

// OutcomeMessage reports how a move request was resolved.
type OutcomeMessage struct {
	Type   string               `json:"type"` // "outcome"
	Result epicorder.MoveResult `json:"result"`
}

// SimpleMessage is for "notice" and "error" text shown to one client.
type SimpleMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type Client struct {
	conn     *websocket.Conn
	send     chan any
	playerID string
}

type command struct {
	client *Client
	msg    ClientMessage
}

type delivery struct {
	seq  uint64
	data epicorder.GameData
}

type flashExpiry struct {
	card string
	gen  uint64
}

type Hub struct {
	id       string
	engine   *epicorder.Engine
	provider epicorder.Provider
	clients  map[*Client]bool

	register   chan *Client
	unreg      chan *Client
	commands   chan command
	deliveries chan delivery
	flashes    chan flashExpiry
	done       chan struct{}
	stopOnce   sync.Once
	ticker     *time.Ticker

	mu sync.RWMutex

	createdAt  time.Time
	lastActive time.Time
	state      StateMessage

	fetchSeq    uint64
	cancelFetch context.CancelFunc // non-nil while game data is loading
	flashGen    map[string]uint64
}

func newHub(cfg *Config, gameID string, provider epicorder.Provider) (*Hub, error) {
	engine, err := epicorder.NewEngine(epicorder.DefaultSettings(), provider, epicorder.NewRand(cfg.seed))
	if err != nil {
		return nil, err
	}

	now := time.Now()
	h := &Hub{
		id:         gameID,
		engine:     engine,
		provider:   provider,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unreg:      make(chan *Client),
		commands:   make(chan command),
		deliveries: make(chan delivery),
		flashes:    make(chan flashExpiry),
		done:       make(chan struct{}),
		ticker:     time.NewTicker(tickInterval),
		createdAt:  now,
		lastActive: now,
		flashGen:   make(map[string]uint64),
	}
	h.refreshStateLocked()

	return h, nil
}

func (h *Hub) run(cfg *Config) {
	defer h.ticker.Stop()

	for {
		select {
		case <-h.done:
			return

		case c := <-h.register:
			h.mu.Lock()
			h.lastActive = time.Now()
			h.clients[c] = true
			h.sendLocked(c, h.state)
			h.mu.Unlock()

			logf(cfg, "GAMES: Player %s connected to %s", c.playerID, h.id)

		case c := <-h.unreg:
			h.mu.Lock()
			h.lastActive = time.Now()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()

			logf(cfg, "GAMES: Player %s disconnected from %s", c.playerID, h.id)

		case cmd := <-h.commands:
			h.handleCommand(cfg, cmd)

		case d := <-h.deliveries:
			h.handleDelivery(cfg, d)

		case f := <-h.flashes:
			h.mu.Lock()
			if h.flashGen[f.card] == f.gen {
				h.engine.ExpireFlash(f.card)
				h.broadcastStateLocked()
			}
			h.mu.Unlock()

		case <-h.ticker.C:
			h.handleTick(cfg)
		}
	}
}

// sendLocked drops clients that cannot keep up. Clients that were already
// dropped or unregistered are skipped, since their send channel is closed.
func (h *Hub) sendLocked(c *Client, msg any) {
	if !h.clients[c] {
		return
	}

	select {
	case c.send <- msg:
	default:
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) broadcastLocked(msg any) {
	for c := range h.clients {
		h.sendLocked(c, msg)
	}
}

func (h *Hub) refreshStateLocked() {
	h.state = StateMessage{
		Type:    "state",
		GameID:  h.id,
		Loading: h.cancelFetch != nil,
		State:   h.engine.Snapshot(),
	}
}

func (h *Hub) broadcastStateLocked() {
	h.refreshStateLocked()
	h.broadcastLocked(h.state)
}

// currentState is safe to call from any goroutine.
func (h *Hub) currentState() StateMessage {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.state
}

func errorMessage(err error) SimpleMessage {
	return SimpleMessage{Type: "error", Message: err.Error()}
}

func (h *Hub) handleCommand(cfg *Config, cmd command) {
	c := cmd.client
	msg := cmd.msg

	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.clients[c] {
		return
	}

	h.lastActive = time.Now()

	switch msg.Type {
	case "settings":
		if msg.Settings == nil {
			h.sendLocked(c, errorMessage(errors.New("missing settings")))
			return
		}
		if err := h.engine.Configure(*msg.Settings); err != nil {
			h.sendLocked(c, errorMessage(err))
			return
		}

		s := h.engine.Settings()
		logf(cfg, "GAMES: Settings for %s: %d players, %d timelines of %d events, %q",
			h.id, s.Players, s.Timelines, s.EventsPerTimeline, s.Topic)

		h.broadcastStateLocked()

	case "start":
		if h.engine.Phase() == epicorder.PhasePlaying || h.cancelFetch != nil {
			h.sendLocked(c, errorMessage(errors.New("a game is already in progress")))
			return
		}

		h.startFetchLocked(cfg)
		h.broadcastStateLocked()

	case "drop":
		h.applyMoveLocked(cfg, c, h.engine.Drop(msg.Card, msg.Over))

	case "move":
		h.applyMoveLocked(cfg, c, h.engine.Submit(epicorder.Move{
			Card:  msg.Card,
			From:  msg.From,
			To:    msg.To,
			Index: msg.Index,
		}))

	case "finish":
		res, err := h.engine.Finish()
		if err != nil {
			h.sendLocked(c, errorMessage(err))
			return
		}

		logf(cfg, "GAMES: Finished %s with %d/%d (%d%%) in %s", h.id, res.Score, res.Perfect, res.Percent, res.ElapsedText)

		h.broadcastStateLocked()

	case "reset":
		h.stopFetchLocked()
		h.engine.Reset()
		clear(h.flashGen)

		logf(cfg, "GAMES: Reset %s", h.id)

		h.broadcastStateLocked()

	default:
		// ignore unknown types
	}
}

func (h *Hub) applyMoveLocked(cfg *Config, c *Client, res epicorder.MoveResult) {
	outcome := OutcomeMessage{Type: "outcome", Result: res}

	switch res.Outcome {
	case epicorder.OutcomeIgnored:
		h.sendLocked(c, outcome)
		return
	case epicorder.OutcomeRejectedCapacity:
		h.sendLocked(c, SimpleMessage{Type: "notice", Message: res.Notice})
		h.sendLocked(c, outcome)
		return
	}

	if res.Flash != "" && res.Flash != epicorder.FlashIdle {
		h.scheduleFlashLocked(res.Move.Card, res.Flash)
	}

	if res.Player > 0 {
		logf(cfg, "GAMES: Player %d dropped %s on %s in %s: %s", res.Player, res.Move.Card, res.Move.To, h.id, res.Outcome)
	}

	if res.TurnEnded && h.engine.Phase() == epicorder.PhasePlaying {
		h.restartTickerLocked()
	}

	h.broadcastLocked(outcome)
	h.broadcastStateLocked()

	if h.engine.Phase() == epicorder.PhaseResults {
		if r, ok := h.engine.Results(); ok {
			logf(cfg, "GAMES: Finished %s, winners %v with %d points", h.id, r.Winners, r.Score)
		}
	}
}

// scheduleFlashLocked returns the card's feedback to idle after a short
// delay. A newer flash on the same card supersedes an older timer.
func (h *Hub) scheduleFlashLocked(card string, flash epicorder.Flash) {
	h.flashGen[card]++
	gen := h.flashGen[card]

	delay := otherFlashDelay
	if flash == epicorder.FlashGreen {
		delay = greenFlashDelay
	}

	time.AfterFunc(delay, func() {
		select {
		case h.flashes <- flashExpiry{card: card, gen: gen}:
		case <-h.done:
		}
	})
}

// startFetchLocked asks the provider for content on its own goroutine. The
// result is delivered back to the run loop tagged with a sequence number so
// a reset or a newer start can discard it.
func (h *Hub) startFetchLocked(cfg *Config) {
	h.stopFetchLocked()

	ctx, cancel := context.WithCancel(context.Background())
	h.cancelFetch = cancel
	h.fetchSeq++

	seq := h.fetchSeq
	req := epicorder.RequestFor(h.engine.Settings())

	logf(cfg, "GAMES: Loading %d timelines of %d events on %q for %s",
		req.NumberOfTimelines, req.NumberOfEventsPerTimeline, req.Topic, h.id)

	go func() {
		data := h.provider.Fetch(ctx, req)

		select {
		case h.deliveries <- delivery{seq: seq, data: data}:
		case <-h.done:
		}
	}()
}

func (h *Hub) stopFetchLocked() {
	if h.cancelFetch != nil {
		h.cancelFetch()
		h.cancelFetch = nil
	}
}

func (h *Hub) handleDelivery(cfg *Config, d delivery) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cancelFetch == nil || d.seq != h.fetchSeq {
		logf(cfg, "GAMES: Discarded stale game data for %s", h.id)
		return
	}

	h.stopFetchLocked()
	h.engine.Deal(d.data)
	clear(h.flashGen)
	h.restartTickerLocked()

	logf(cfg, "GAMES: Dealt %d events onto %d timelines in %s", len(d.data.Events), len(d.data.Timelines), h.id)

	h.broadcastStateLocked()
}

// restartTickerLocked lines the next tick up one full interval after a
// ready indicator is shown, so it stays up for a whole tick.
func (h *Hub) restartTickerLocked() {
	h.ticker.Reset(tickInterval)
}

func (h *Hub) handleTick(cfg *Config) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.engine.Phase() != epicorder.PhasePlaying {
		return
	}

	res := h.engine.Tick()

	h.broadcastStateLocked()

	if res.TurnExpired {
		logf(cfg, "GAMES: Turn expired in %s, player %d is up", h.id, h.state.State.CurrentPlayer)
	}
}

// stop ends the run loop, cancels any fetch and disconnects all clients.
func (h *Hub) stop() {
	h.stopOnce.Do(func() {
		close(h.done)

		h.mu.Lock()
		defer h.mu.Unlock()

		h.stopFetchLocked()

		for c := range h.clients {
			close(c.send)
			if c.conn != nil {
				_ = c.conn.Close()
			}
			delete(h.clients, c)
		}
	})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func getOrSetPlayerID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(playerCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	id := uuid.NewString()

	http.SetCookie(w, &http.Cookie{
		Name:     playerCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return id
}

// GameManager holds a set of hubs keyed by game ID, so each $path/$gameid
// is its own isolated session.
type GameManager struct {
	mu          sync.Mutex
	hubs        map[string]*Hub
	provider    epicorder.Provider
	idleTimeout time.Duration
}

func newGameManager(ctx context.Context, cfg *Config, provider epicorder.Provider) *GameManager {
	gm := &GameManager{
		hubs:        make(map[string]*Hub),
		provider:    provider,
		idleTimeout: cfg.sessionTimeout,
	}

	go gm.reaperLoop(ctx, cfg)

	return gm
}

func (gm *GameManager) getHub(cfg *Config, gameID string) (*Hub, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if hub, ok := gm.hubs[gameID]; ok {
		return hub, nil
	}

	hub, err := newHub(cfg, gameID, gm.provider)
	if err != nil {
		return nil, err
	}
	gm.hubs[gameID] = hub

	go hub.run(cfg)

	return hub, nil
}

func (gm *GameManager) lookup(gameID string) (*Hub, bool) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	hub, ok := gm.hubs[gameID]

	return hub, ok
}

// newGameID generates a crypto-random game ID and ensures it doesn't
// collide with existing games.
func (gm *GameManager) newGameID() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	for {
		buf := make([]byte, 8)
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}

		out := make([]byte, 8)
		for i := range out {
			out[i] = letters[int(buf[i])%len(letters)]
		}
		id := string(out)

		if _, exists := gm.lookup(id); !exists {
			return id
		}
	}
}

// reap stops and removes every hub idle since before cutoff.
func (gm *GameManager) reap(cfg *Config, cutoff time.Time) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	for id, hub := range gm.hubs {
		hub.mu.RLock()
		last := hub.lastActive
		hub.mu.RUnlock()

		if last.Before(cutoff) {
			delete(gm.hubs, id)
			go hub.stop()

			logf(cfg, "GAMES: Reaped idle game %s", id)
		}
	}
}

func (gm *GameManager) reaperLoop(ctx context.Context, cfg *Config) {
	var tick <-chan time.Time

	if gm.idleTimeout > 0 {
		ticker := time.NewTicker(gm.idleTimeout / 2)
		defer ticker.Stop()

		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			gm.mu.Lock()
			for id, hub := range gm.hubs {
				delete(gm.hubs, id)
				hub.stop()
			}
			gm.mu.Unlock()

			return
		case <-tick:
			gm.reap(cfg, time.Now().Add(-gm.idleTimeout))
		}
	}
}

func validGameID(id string) bool {
	if id == "" || len(id) > maxGameIDLength {
		return false
	}

	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}

	return true
}

// WebSocket handler that picks the hub based on :gameid
func serveTimelineWS(cfg *Config, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		gameID := ps.ByName("gameid")
		if !validGameID(gameID) {
			http.Error(w, "invalid game id", http.StatusBadRequest)
			return
		}

		playerID := getOrSetPlayerID(w, r)

		hub, err := gm.getHub(cfg, gameID)
		if err != nil {
			http.Error(w, "unable to create game", http.StatusInternalServerError)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logf(cfg, "ERROR: Websocket upgrade for %s failed: %v", gameID, err)
			return
		}

		client := &Client{
			conn:     conn,
			send:     make(chan any, 16),
			playerID: playerID,
		}

		select {
		case hub.register <- client:
		case <-hub.done:
			_ = conn.Close()
			return
		}

		go client.writePump()
		client.readPump(hub)
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unreg <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		select {
		case h.commands <- command{client: c, msg: msg}:
		case <-h.done:
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func writeJSON(cfg *Config, w http.ResponseWriter, status int, v any) (int, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	securityHeaders(cfg, w)
	w.WriteHeader(status)

	return w.Write(append(data, '\n'))
}

func serveTimelineState(cfg *Config, gm *GameManager, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		startTime := time.Now()

		gameID := ps.ByName("gameid")

		hub, ok := gm.lookup(gameID)
		if !ok {
			http.NotFound(w, r)
			return
		}

		written, err := writeJSON(cfg, w, http.StatusOK, hub.currentState())
		if err != nil {
			errs <- err

			return
		}

		logf(cfg, "SERVE: State of %s (%s) to %s in %s",
			gameID,
			humanReadableSize(written),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}

// Options offered by the setup screen.
type topicsResponse struct {
	Topics         []epicorder.Topic     `json:"topics"`
	PlayerAges     []epicorder.PlayerAge `json:"playerAges"`
	TimelineCounts []int                 `json:"timelineCounts"`
	EventCounts    []int                 `json:"eventCounts"`
	MinPlayers     int                   `json:"minPlayers"`
	MaxPlayers     int                   `json:"maxPlayers"`
	MinTurnSeconds int                   `json:"minTurnSeconds"`
	MaxTurnSeconds int                   `json:"maxTurnSeconds"`
	Defaults       epicorder.Settings    `json:"defaults"`
}

func serveTopics(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		_, err := writeJSON(cfg, w, http.StatusOK, topicsResponse{
			Topics:         epicorder.Topics,
			PlayerAges:     epicorder.PlayerAges,
			TimelineCounts: epicorder.TimelineCounts,
			EventCounts:    epicorder.EventCounts,
			MinPlayers:     epicorder.MinPlayers,
			MaxPlayers:     epicorder.MaxPlayers,
			MinTurnSeconds: epicorder.MinTurnSeconds,
			MaxTurnSeconds: epicorder.MaxTurnSeconds,
			Defaults:       epicorder.DefaultSettings(),
		})
		if err != nil {
			errs <- err

			return
		}
	}
}

// serveGenerateGame answers the game data provider contract from the
// built-in events, so one instance can act as another's --data-url.
func serveGenerateGame(cfg *Config, provider epicorder.Provider, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		var req epicorder.Request

		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMessageSize))
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if req.NumberOfTimelines < 1 || req.NumberOfEventsPerTimeline < 1 {
			http.Error(w, "numberOfTimelines and numberOfEventsPerTimeline must be positive", http.StatusBadRequest)
			return
		}

		written, err := writeJSON(cfg, w, http.StatusOK, provider.Fetch(r.Context(), req))
		if err != nil {
			errs <- err

			return
		}

		logf(cfg, "SERVE: Generated game on %q (%s) for %s in %s",
			req.Topic,
			humanReadableSize(written),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}

// QR handler: generates a PNG QR code for the current game URL using go-qrcode.
func serveTimelineQR(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if !validGameID(ps.ByName("gameid")) {
			http.Error(w, "invalid game id", http.StatusBadRequest)
			return
		}

		// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
			scheme = proto
		}

		url := scheme + "://" + r.Host + strings.TrimSuffix(r.URL.Path, "/qr")

		const qrSize = 320 // mobile-friendly size
		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		securityHeaders(cfg, w)

		written, err := w.Write(png)
		if err != nil {
			errs <- err

			return
		}

		logf(cfg, "SERVE: QR code for %s (%s) to %s", url, humanReadableSize(written), realIP(r))
	}
}

//go:embed assets/timeline/index.html
var indexHTML []byte

func serveTimelinePage(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if !validGameID(ps.ByName("gameid")) {
			http.NotFound(w, r)
			return
		}

		cacheHeaders(w, "index.html", len(indexHTML))
		securityHeaders(cfg, w)

		_ = getOrSetPlayerID(w, r)

		if _, err := w.Write(indexHTML); err != nil {
			errs <- err
		}
	}
}

// redirectNewGame handles GET /path by generating a new random game ID
// (with server-side collision detection) and redirecting to /path/:gameid.
func redirectNewGame(cfg *Config, path string, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gameID := gm.newGameID()
		logf(cfg, "GAMES: Created game %s/%s", path, gameID)
		http.Redirect(w, r, fmt.Sprintf("%s%s/%s", cfg.prefix, path, gameID), http.StatusTemporaryRedirect)
	}
}

// registerTimelineGame sets up routes so that:
//   - $path                  → redirects to new random game (8-char ID)
//   - $path/:gameid          → HTML client
//   - $path/:gameid/ws       → WebSocket for that game
//   - $path/:gameid/state    → JSON snapshot of that game
//   - $path/:gameid/qr       → PNG QR code for that game URL
func registerTimelineGame(ctx context.Context, cfg *Config, path string, mux *httprouter.Router, provider epicorder.Provider, errs chan<- error) *GameManager {
	gm := newGameManager(ctx, cfg, provider)

	mux.GET(cfg.prefix+path, redirectNewGame(cfg, path, gm))

	mux.GET(cfg.prefix+path+"/:gameid", serveTimelinePage(cfg, errs))

	mux.GET(cfg.prefix+path+"/:gameid/ws", serveTimelineWS(cfg, gm))

	mux.GET(cfg.prefix+path+"/:gameid/state", serveTimelineState(cfg, gm, errs))

	mux.GET(cfg.prefix+path+"/:gameid/qr", serveTimelineQR(cfg, errs))

	mux.GET(cfg.prefix+"/topics", serveTopics(cfg, errs))

	mux.POST(cfg.prefix+"/api/generate-game", serveGenerateGame(cfg, epicorder.NewMockProvider(epicorder.NewRand(cfg.seed)), errs))

	return gm
}
