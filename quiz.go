// Quizbox buzzer quiz
//
// One participant hosts a room and controls question progression; everyone
// else races to buzz in while the question text is revealed one character
// at a time.
//
// Features:
// - WebSockets per room ID: /quiz/:roomid and /quiz/:roomid/ws
// - Host-chosen room IDs, duplicates rejected at creation
// - Question banks uploaded as CSV (question,answer columns)
// - Players identified by a client-held token, stable across reloads
// - Reconnecting players keep their score; an offline player's seat
//   (including the host's) can be reclaimed by display name
// - First buzz wins; later buzzes are ignored until the host reopens play
// - +10 points per correct answer, stable ranking with join-order ties
// - Full display resync for late joiners and reloads
// - Empty rooms are reaped after a grace period
// - In-browser QR button to share the current room, backed by go-qrcode

package main

import (
	"context"
	_ "embed"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"
	"github.com/skip2/go-qrcode"
)

type roomState string

const (
	stateInit       roomState = "init"
	stateAsking     roomState = "asking"
	stateBuzzed     roomState = "buzzed"
	stateWrong      roomState = "wrong"
	stateTimeout    roomState = "timeout"
	stateShowAnswer roomState = "show_answer"
	stateAllDone    roomState = "all_done"
	stateFinished   roomState = "finished"
)

// inProgress reports whether a question is mid-flight, i.e. resyncing
// clients should see the partial text rather than the full question.
func (s roomState) inProgress() bool {
	switch s {
	case stateAsking, stateBuzzed, stateWrong, stateTimeout:
		return true
	}
	return false
}

const pointsPerAnswer = 10

// Error kinds surfaced to clients alongside a human-readable message.
const (
	errKindRoomInUse    = "room_id_in_use"
	errKindRoomNotFound = "room_not_found"
	errKindNameInUse    = "name_in_use"
	errKindBadSource    = "bad_question_source"
)

// Messages coming from clients
type ClientMessage struct {
	Type   string `json:"type"`             // "create_room", "join_room", "leave_room", "next_question", "buzz", "wrong", "resume", "timeout", "judge", "clear_display", "end_game", "resync", "close_room"
	Name   string `json:"name,omitempty"`   // create_room / join_room
	UserID string `json:"userId,omitempty"` // create_room / join_room
	Source string `json:"source,omitempty"` // create_room: CSV question bank
}

// Messages sent to clients
type JoinedMessage struct {
	Type string `json:"type"` // "joined"
}

type RoleMessage struct {
	Type   string `json:"type"` // "role"
	IsHost bool   `json:"isHost"`
}

type HostInfoMessage struct {
	Type string `json:"type"` // "host_info"
	Name string `json:"name"`
}

type PlayerInfo struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// PlayersMessage lists contestants (never the host) in join order.
type PlayersMessage struct {
	Type    string       `json:"type"` // "players"
	Players []PlayerInfo `json:"players"`
}

type CounterMessage struct {
	Type    string `json:"type"` // "counter"
	Current int    `json:"cur"`  // 1-based question number
}

type CharMessage struct {
	Type string `json:"type"` // "char"
	Char string `json:"char"` // next revealed character
}

type EnableBuzzMessage struct {
	Type    string `json:"type"` // "enable_buzz"
	Enabled bool   `json:"enabled"`
}

type BuzzedMessage struct {
	Type string `json:"type"` // "buzzed"
	Name string `json:"name"` // current buzz holder
}

type ClearBuzzedMessage struct {
	Type string `json:"type"` // "clear_buzzed"
}

type RevealMessage struct {
	Type     string `json:"type"` // "reveal"
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type SyncDisplayMessage struct {
	Type     string `json:"type"` // "sync_display"
	Question string `json:"question"`
	Answer   string `json:"answer,omitempty"`
}

// SyncStateMessage restores the host's controls after a reload; only the
// host ever receives the raw state token.
type SyncStateMessage struct {
	Type  string `json:"type"` // "sync_state"
	State string `json:"state"`
}

type ClearDisplayMessage struct {
	Type string `json:"type"` // "clear_display"
}

type FinalMessage struct {
	Type    string       `json:"type"` // "final"
	Ranking []PlayerInfo `json:"ranking"`
}

type RoomClosedMessage struct {
	Type string `json:"type"` // "room_closed"
}

type ErrorMessage struct {
	Type    string `json:"type"` // "error"
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type Client struct {
	conn *websocket.Conn
	send chan any
	id   string // transient connection handle, new on every connection

	closeOnce sync.Once
}

// shutdown closes the outbound channel exactly once, letting the write
// pump drain and hang up.
func (c *Client) shutdown() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// trySend is for messages sent outside any room lock (e.g. registry-level
// errors). Drops the message if the client's buffer is full.
func (c *Client) trySend(msg any) {
	select {
	case c.send <- msg:
	default:
	}
}

// Player is one persistent identity's record in a room. A player with an
// empty connID is offline; offline players are only removed by an explicit
// leave or by identity takeover, never by disconnection.
type Player struct {
	Name   string
	Score  int
	connID string
}

// activeQuestion is the question currently on display. index counts
// revealed runes and never exceeds len(runes); active means the buzzer is
// open and the reveal may advance.
type activeQuestion struct {
	text     string
	runes    []rune
	answer   string
	index    int
	active   bool
	buzzedBy string // persistent ID of the buzz holder, "" if none
}

// Room owns one quiz session: membership, the progression state machine,
// buzzer arbitration, scoring, and resync. All state is guarded by mu so
// every inbound event is atomic relative to the others.
type Room struct {
	id string

	mu         sync.Mutex
	hostID     string
	hostName   string
	players    map[string]*Player
	order      []string // join order; ranking tie-break
	questions  []Question
	current    int // -1 before the first question, then monotone
	quiz       *activeQuestion
	state      roomState
	emptySince time.Time // zero while any client is connected
	clients    map[*Client]bool
	revealGen  int
	closed     bool
	done       chan struct{}

	clock          clockwork.Clock
	revealInterval time.Duration
	log            zerolog.Logger
}

func (r *Room) sendLocked(c *Client, msg any) {
	select {
	case c.send <- msg:
	default:
		delete(r.clients, c)
		c.shutdown()
	}
}

func (r *Room) broadcastLocked(msg any) {
	for client := range r.clients {
		select {
		case client.send <- msg:
		default:
			delete(r.clients, client)
			client.shutdown()
		}
	}
}

// sendHostLocked delivers a message to the host's current connection, if
// the host is connected at all.
func (r *Room) sendHostLocked(msg any) {
	host := r.players[r.hostID]
	if host == nil || host.connID == "" {
		return
	}
	for client := range r.clients {
		if client.id == host.connID {
			r.sendLocked(client, msg)
			return
		}
	}
}

func (r *Room) playerByConnLocked(connID string) (string, *Player) {
	for id, p := range r.players {
		if p.connID == connID {
			return id, p
		}
	}
	return "", nil
}

func (r *Room) isHostConnLocked(c *Client) bool {
	uid, p := r.playerByConnLocked(c.id)
	return p != nil && uid == r.hostID
}

func (r *Room) playersMessageLocked() PlayersMessage {
	players := make([]PlayerInfo, 0, len(r.order))
	for _, id := range r.order {
		if id == r.hostID {
			continue
		}
		p := r.players[id]
		players = append(players, PlayerInfo{Name: p.Name, Score: p.Score})
	}
	return PlayersMessage{Type: "players", Players: players}
}

// rankingLocked sorts contestants by score, descending. The sort is
// stable so players tied on score keep their join order.
func (r *Room) rankingLocked() []PlayerInfo {
	ranking := r.playersMessageLocked().Players
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Score > ranking[j].Score
	})
	return ranking
}

// syncToLocked rebuilds one client's display from the room state alone:
// partial or full question text, the answer once revealed, the current
// buzz holder, and whether the buzz control is live.
func (r *Room) syncToLocked(c *Client, isHost bool) {
	if isHost {
		r.sendLocked(c, SyncStateMessage{Type: "sync_state", State: string(r.state)})
	}

	if r.current >= 0 {
		r.sendLocked(c, CounterMessage{Type: "counter", Current: r.current + 1})
	}

	q := r.quiz
	if q == nil {
		return
	}

	display := q.text
	if r.state.inProgress() {
		display = string(q.runes[:q.index])
	}

	answer := ""
	if r.state == stateShowAnswer || r.state == stateAllDone {
		answer = q.answer
	}

	r.sendLocked(c, SyncDisplayMessage{Type: "sync_display", Question: display, Answer: answer})

	if q.buzzedBy != "" {
		if holder := r.players[q.buzzedBy]; holder != nil {
			r.sendLocked(c, BuzzedMessage{Type: "buzzed", Name: holder.Name})
		}
		return
	}

	r.sendLocked(c, EnableBuzzMessage{Type: "enable_buzz", Enabled: q.active && r.state == stateAsking})
}

// handleJoin admits a connection under a persistent identity: a known ID
// reconnects, a known display name held by an offline player is taken
// over (score and role included), anything else becomes a new player.
func (r *Room) handleJoin(c *Client, msg ClientMessage) {
	if msg.Name == "" || msg.UserID == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}

	uid := msg.UserID

	if p, ok := r.players[uid]; ok {
		p.connID = c.id
		p.Name = msg.Name
		if uid == r.hostID {
			r.hostName = msg.Name
		}
	} else {
		oldID := ""
		for _, id := range r.order {
			if r.players[id].Name == msg.Name {
				oldID = id
				break
			}
		}

		switch {
		case oldID != "" && r.players[oldID].connID != "":
			r.sendLocked(c, ErrorMessage{
				Type:    "error",
				Kind:    errKindNameInUse,
				Message: "that name is already in use",
			})
			return

		case oldID != "":
			// Identity takeover: the offline player's record moves
			// under the new key, keeping score, role, and join order.
			old := r.players[oldID]
			delete(r.players, oldID)
			old.connID = c.id
			r.players[uid] = old
			for i, id := range r.order {
				if id == oldID {
					r.order[i] = uid
					break
				}
			}
			if r.hostID == oldID {
				r.hostID = uid
			}
			if r.quiz != nil && r.quiz.buzzedBy == oldID {
				r.quiz.buzzedBy = uid
			}
			r.log.Debug().Str("name", msg.Name).Msg("seat taken over")

		default:
			r.players[uid] = &Player{Name: msg.Name, connID: c.id}
			r.order = append(r.order, uid)
			r.log.Debug().Str("name", msg.Name).Msg("player joined")
		}
	}

	r.emptySince = time.Time{}
	r.clients[c] = true

	isHost := uid == r.hostID
	r.sendLocked(c, JoinedMessage{Type: "joined"})
	r.sendLocked(c, RoleMessage{Type: "role", IsHost: isHost})
	r.sendLocked(c, HostInfoMessage{Type: "host_info", Name: r.hostName})
	r.broadcastLocked(r.playersMessageLocked())
	r.syncToLocked(c, isHost)
}

// handleDisconnect marks the player behind a dropped connection offline.
// The record itself survives so the identity can reconnect; if the buzz
// holder vanished, play reopens for everyone else.
func (r *Room) handleDisconnect(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.clients[c] {
		return
	}
	delete(r.clients, c)
	c.shutdown()

	uid, p := r.playerByConnLocked(c.id)
	if p != nil {
		p.connID = ""
	}

	if uid != "" && uid != r.hostID && r.quiz != nil && r.quiz.buzzedBy == uid {
		r.reopenBuzzerLocked()
	}

	if len(r.clients) == 0 {
		r.emptySince = r.clock.Now()
	}
}

// handleLeave removes a contestant's record outright. Host leave requests
// are no-ops; the host seat is only ever reassigned by takeover.
func (r *Room) handleLeave(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	uid, p := r.playerByConnLocked(c.id)
	if p == nil || uid == r.hostID {
		return
	}

	if r.quiz != nil && r.quiz.buzzedBy == uid {
		r.reopenBuzzerLocked()
	}

	delete(r.players, uid)
	for i, id := range r.order {
		if id == uid {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	delete(r.clients, c)
	c.shutdown()

	r.broadcastLocked(r.playersMessageLocked())

	if len(r.clients) == 0 {
		r.emptySince = r.clock.Now()
	}

	r.log.Debug().Str("name", p.Name).Msg("player left")
}

// reopenBuzzerLocked recovers from a buzz holder leaving mid-question:
// clear the holder, reopen the buzzer, and tell the host directly so its
// controls match a transition it did not cause.
func (r *Room) reopenBuzzerLocked() {
	q := r.quiz
	q.buzzedBy = ""
	q.active = true
	r.state = stateAsking

	r.broadcastLocked(ClearBuzzedMessage{Type: "clear_buzzed"})
	r.broadcastLocked(EnableBuzzMessage{Type: "enable_buzz", Enabled: true})
	r.sendHostLocked(SyncStateMessage{Type: "sync_state", State: string(stateAsking)})
}

// handleNextQuestion advances to the next question and starts streaming
// its text. Only meaningful between questions; exhausting the bank simply
// halts progression.
func (r *Room) handleNextQuestion(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isHostConnLocked(c) {
		return
	}

	switch r.state {
	case stateInit, stateShowAnswer, stateAllDone, stateFinished:
	default:
		return
	}

	if r.current+1 >= len(r.questions) {
		return
	}
	r.current++

	next := r.questions[r.current]
	r.quiz = &activeQuestion{
		text:   next.Text,
		runes:  []rune(next.Text),
		answer: next.Answer,
		active: true,
	}
	r.state = stateAsking

	r.broadcastLocked(CounterMessage{Type: "counter", Current: r.current + 1})
	r.broadcastLocked(EnableBuzzMessage{Type: "enable_buzz", Enabled: true})
	r.startRevealLocked()
}

// startRevealLocked launches the reveal goroutine for the current
// question. Bumping the generation first guarantees at most one live
// reveal per question: stale goroutines notice and exit before touching
// the index again.
func (r *Room) startRevealLocked() {
	r.revealGen++
	go r.revealLoop(r.revealGen, r.quiz)
}

func (r *Room) revealLoop(gen int, q *activeQuestion) {
	for {
		r.mu.Lock()
		if r.closed || r.quiz != q || gen != r.revealGen || !q.active || q.index >= len(q.runes) {
			r.mu.Unlock()
			return
		}
		unit := string(q.runes[q.index])
		q.index++
		r.broadcastLocked(CharMessage{Type: "char", Char: unit})
		r.mu.Unlock()

		select {
		case <-r.clock.After(r.revealInterval):
		case <-r.done:
			return
		}
	}
}

// handleBuzz is the race arbiter: the first buzz while the buzzer is open
// wins, every later buzz is silently dropped. The check-and-set runs
// under the room lock, so two "simultaneous" buzzes cannot both land.
func (r *Room) handleBuzz(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	q := r.quiz
	if q == nil || !q.active || q.buzzedBy != "" {
		return
	}

	uid, p := r.playerByConnLocked(c.id)
	if p == nil {
		return
	}

	q.active = false
	q.buzzedBy = uid
	r.state = stateBuzzed

	r.broadcastLocked(BuzzedMessage{Type: "buzzed", Name: p.Name})
	r.broadcastLocked(EnableBuzzMessage{Type: "enable_buzz", Enabled: false})
}

// handleWrong clears an incorrect buzz. The buzzer stays closed until the
// host resumes play.
func (r *Room) handleWrong(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isHostConnLocked(c) || r.quiz == nil || r.state != stateBuzzed {
		return
	}

	r.quiz.buzzedBy = ""
	r.state = stateWrong

	r.broadcastLocked(ClearBuzzedMessage{Type: "clear_buzzed"})
}

// handleResume reopens the buzzer and restarts the reveal stream.
func (r *Room) handleResume(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isHostConnLocked(c) || r.quiz == nil || !r.state.inProgress() {
		return
	}

	r.quiz.active = true
	r.state = stateAsking

	r.broadcastLocked(EnableBuzzMessage{Type: "enable_buzz", Enabled: true})
	r.startRevealLocked()
}

// handleTimeout closes the buzz window without awarding anything.
func (r *Room) handleTimeout(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isHostConnLocked(c) || r.quiz == nil {
		return
	}

	switch r.state {
	case stateAsking, stateBuzzed:
	default:
		return
	}

	r.quiz.active = false
	r.quiz.buzzedBy = ""
	r.state = stateTimeout

	r.broadcastLocked(EnableBuzzMessage{Type: "enable_buzz", Enabled: false})
	r.broadcastLocked(ClearBuzzedMessage{Type: "clear_buzzed"})
}

// handleJudge accepts the current buzz as correct: the holder (if any)
// scores, and the full question and answer are revealed to the room.
func (r *Room) handleJudge(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isHostConnLocked(c) || r.quiz == nil || !r.state.inProgress() {
		return
	}

	q := r.quiz
	if q.buzzedBy != "" {
		if p := r.players[q.buzzedBy]; p != nil {
			p.Score += pointsPerAnswer
		}
	}

	q.active = false
	q.buzzedBy = ""

	if r.current == len(r.questions)-1 {
		r.state = stateAllDone
		r.sendHostLocked(SyncStateMessage{Type: "sync_state", State: string(stateAllDone)})
	} else {
		r.state = stateShowAnswer
	}

	r.broadcastLocked(RevealMessage{Type: "reveal", Question: q.text, Answer: q.answer})
	r.broadcastLocked(r.playersMessageLocked())
	r.broadcastLocked(EnableBuzzMessage{Type: "enable_buzz", Enabled: false})
	r.broadcastLocked(ClearBuzzedMessage{Type: "clear_buzzed"})
}

// handleClearDisplay discards the shown answer and returns to init, ready
// for the next question.
func (r *Room) handleClearDisplay(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isHostConnLocked(c) {
		return
	}

	switch r.state {
	case stateShowAnswer, stateAllDone, stateFinished:
	default:
		return
	}

	r.quiz = nil
	r.state = stateInit

	r.broadcastLocked(ClearDisplayMessage{Type: "clear_display"})
}

// handleEndGame computes and broadcasts the final ranking. Always
// recomputed, never cached.
func (r *Room) handleEndGame(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isHostConnLocked(c) {
		return
	}

	r.state = stateFinished

	r.broadcastLocked(FinalMessage{Type: "final", Ranking: r.rankingLocked()})
}

// handleResync replays the full display state to one client.
func (r *Room) handleResync(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	uid, p := r.playerByConnLocked(c.id)
	if p == nil {
		return
	}

	r.syncToLocked(c, uid == r.hostID)
}

// closeByHost notifies every connected member and marks the room dead.
// Reports whether the caller was actually the host.
func (r *Room) closeByHost(c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || !r.isHostConnLocked(c) {
		return false
	}

	r.broadcastLocked(RoomClosedMessage{Type: "room_closed"})

	r.closed = true
	close(r.done)

	for client := range r.clients {
		delete(r.clients, client)
		client.shutdown()
	}

	return true
}

// sweepExpired is called by the idle collector. An empty room gets its
// emptySince stamped on first observation and dies once the grace period
// has elapsed; any connected client resets the countdown.
func (r *Room) sweepExpired(now time.Time, grace time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return true
	}

	if len(r.clients) > 0 {
		r.emptySince = time.Time{}
		return false
	}

	if r.emptySince.IsZero() {
		r.emptySince = now
		return false
	}

	if now.Sub(r.emptySince) <= grace {
		return false
	}

	r.closed = true
	close(r.done)

	return true
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocket handler that binds each connection to the room in its URL.
func serveWSForRegistry(reg *Registry) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		roomID := ps.ByName("roomid")
		if roomID == "" {
			http.Error(w, "missing room id", http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			reg.log.Debug().Err(err).Msg("websocket upgrade failed")
			return
		}

		client := &Client{
			conn: conn,
			send: make(chan any, 16),
			id:   uuid.NewString(),
		}

		go client.writePump()
		client.readPump(reg, roomID)
	}
}

func (c *Client) readPump(reg *Registry, roomID string) {
	defer func() {
		reg.dropClient(roomID, c)
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		reg.dispatch(roomID, c, msg)
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// QR handler: generates a PNG QR code for the current room URL using go-qrcode.
func qrHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomID := ps.ByName("roomid")
	if roomID == "" {
		http.Error(w, "missing room id", http.StatusBadRequest)
		return
	}

	// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	// We are at /.../:roomid/qr; strip trailing "/qr" to get the room URL.
	path := strings.TrimSuffix(r.URL.Path, "/qr")

	url := scheme + "://" + r.Host + path

	const qrSize = 320 // mobile-friendly size
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

// ---- Static file paths ----

//go:embed quiz/index.html
var indexHTML []byte

//go:embed quiz/app.css
var quizboxCSS []byte

//go:embed quiz/app.js
var quizboxJS []byte

func getIndexHandler(cfg *Config) func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		securityHeaders(cfg, w)

		_, _ = w.Write(indexHTML)
	}
}

func getCssHandler(cfg *Config) func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		securityHeaders(cfg, w)

		_, _ = w.Write(quizboxCSS)
	}
}

func getJsHandler(cfg *Config) func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		securityHeaders(cfg, w)

		_, _ = w.Write(quizboxJS)
	}
}

// redirectNewRoom handles GET /path by suggesting a fresh random room ID
// and redirecting to /path/:roomid. Hosts are free to edit the URL to a
// key of their own; the room itself only exists once create_room succeeds.
func redirectNewRoom(path string, reg *Registry) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		roomID := reg.newRoomID()
		reg.log.Debug().Str("room", roomID).Msg("suggested new room")
		http.Redirect(w, r, path+"/"+roomID, http.StatusTemporaryRedirect)
	}
}

// registerQuizGame sets up routes so that:
//   - $path                  → redirects to a new random room ID
//   - $path/:roomid          → HTML client
//   - $path/:roomid/ws       → WebSocket for that room
//   - $path/:roomid/qr       → PNG QR code for that room URL
func registerQuizGame(ctx context.Context, cfg *Config, log zerolog.Logger, path string, mux *httprouter.Router) {
	reg := newRegistry(cfg, log, clockwork.NewRealClock())

	go reg.collectLoop(ctx)

	// Root path → redirect to a fresh room ID
	mux.GET(cfg.prefix+path, redirectNewRoom(cfg.prefix+path, reg))

	// Per-room client view (HTML)
	mux.GET(cfg.prefix+path+"/:roomid", getIndexHandler(cfg))

	// Shared assets (no roomid in route)
	mux.GET(cfg.prefix+"/assets/quiz/app.css", getCssHandler(cfg))
	mux.GET(cfg.prefix+"/assets/quiz/app.js", getJsHandler(cfg))

	// Per-room websocket
	mux.GET(cfg.prefix+path+"/:roomid/ws", serveWSForRegistry(reg))

	// Per-room QR code
	mux.GET(cfg.prefix+path+"/:roomid/qr", qrHandler)
}
