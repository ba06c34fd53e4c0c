package main

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// Registry holds every live room, keyed by the host-chosen room ID. It is
// created empty at startup and discarded at shutdown; rooms only ever
// enter through handleCreate and leave through close or idle collection.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*Room

	clock          clockwork.Clock
	revealInterval time.Duration
	sweepInterval  time.Duration
	idleGrace      time.Duration
	log            zerolog.Logger
}

func newRegistry(cfg *Config, log zerolog.Logger, clock clockwork.Clock) *Registry {
	return &Registry{
		rooms:          make(map[string]*Room),
		clock:          clock,
		revealInterval: cfg.revealInterval,
		sweepInterval:  cfg.sweepInterval,
		idleGrace:      cfg.idleGrace,
		log:            log,
	}
}

func (reg *Registry) get(roomID string) *Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	return reg.rooms[roomID]
}

// dispatch routes one inbound client event. Unknown types are ignored;
// events for rooms that do not exist are dropped, except joins, which get
// an explicit error so the client can tell a dead link from a slow one.
func (reg *Registry) dispatch(roomID string, c *Client, msg ClientMessage) {
	switch msg.Type {
	case "create_room":
		reg.handleCreate(roomID, c, msg)
		return
	case "close_room":
		reg.handleClose(roomID, c)
		return
	}

	r := reg.get(roomID)
	if r == nil {
		if msg.Type == "join_room" {
			c.trySend(ErrorMessage{
				Type:    "error",
				Kind:    errKindRoomNotFound,
				Message: "that room does not exist",
			})
		}
		return
	}

	switch msg.Type {
	case "join_room":
		r.handleJoin(c, msg)
	case "leave_room":
		r.handleLeave(c)
	case "next_question":
		r.handleNextQuestion(c)
	case "buzz":
		r.handleBuzz(c)
	case "wrong":
		r.handleWrong(c)
	case "resume":
		r.handleResume(c)
	case "timeout":
		r.handleTimeout(c)
	case "judge":
		r.handleJudge(c)
	case "clear_display":
		r.handleClearDisplay(c)
	case "end_game":
		r.handleEndGame(c)
	case "resync":
		r.handleResync(c)
	default:
		// ignore unknown types
	}
}

// handleCreate builds a room from an uploaded question bank, with the
// creator as host. Duplicate IDs and unusable question sources reject the
// room before it exists.
func (reg *Registry) handleCreate(roomID string, c *Client, msg ClientMessage) {
	if msg.Name == "" || msg.UserID == "" {
		return
	}

	questions, err := parseQuestionSource(msg.Source)
	if err != nil {
		c.trySend(ErrorMessage{
			Type:    "error",
			Kind:    errKindBadSource,
			Message: err.Error(),
		})
		return
	}

	r := &Room{
		id:       roomID,
		hostID:   msg.UserID,
		hostName: msg.Name,
		players: map[string]*Player{
			msg.UserID: {Name: msg.Name, connID: c.id},
		},
		order:          []string{msg.UserID},
		questions:      questions,
		current:        -1,
		state:          stateInit,
		clients:        map[*Client]bool{c: true},
		done:           make(chan struct{}),
		clock:          reg.clock,
		revealInterval: reg.revealInterval,
		log:            reg.log.With().Str("room", roomID).Logger(),
	}

	reg.mu.Lock()
	if _, exists := reg.rooms[roomID]; exists {
		reg.mu.Unlock()
		c.trySend(ErrorMessage{
			Type:    "error",
			Kind:    errKindRoomInUse,
			Message: "that room ID is already in use",
		})
		return
	}
	reg.rooms[roomID] = r
	reg.mu.Unlock()

	reg.log.Info().Str("room", roomID).Int("questions", len(questions)).Msg("room created")

	r.mu.Lock()
	r.sendLocked(c, JoinedMessage{Type: "joined"})
	r.sendLocked(c, RoleMessage{Type: "role", IsHost: true})
	r.broadcastLocked(HostInfoMessage{Type: "host_info", Name: r.hostName})
	r.broadcastLocked(r.playersMessageLocked())
	r.mu.Unlock()
}

// handleClose tears a room down on the host's request. Members have
// already been notified individually by the time the entry disappears.
func (reg *Registry) handleClose(roomID string, c *Client) {
	r := reg.get(roomID)
	if r == nil || !r.closeByHost(c) {
		return
	}

	reg.mu.Lock()
	delete(reg.rooms, roomID)
	reg.mu.Unlock()

	reg.log.Info().Str("room", roomID).Msg("room closed")
}

// dropClient handles a transport-level disconnect for a connection that
// may or may not have made it into a room.
func (reg *Registry) dropClient(roomID string, c *Client) {
	if r := reg.get(roomID); r != nil {
		r.handleDisconnect(c)
	}
	c.shutdown()
}

// newRoomID generates a crypto-random room ID and ensures it doesn't
// collide with existing rooms.
func (reg *Registry) newRoomID() string {
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

		reg.mu.Lock()
		_, exists := reg.rooms[id]
		reg.mu.Unlock()

		if !exists {
			return id
		}
	}
}

// collectLoop periodically reclaims rooms that have sat with no connected
// members for longer than the grace period.
func (reg *Registry) collectLoop(ctx context.Context) {
	ticker := reg.clock.NewTicker(reg.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			reg.sweep()
		}
	}
}

func (reg *Registry) sweep() {
	now := reg.clock.Now()

	reg.mu.Lock()
	defer reg.mu.Unlock()

	for id, r := range reg.rooms {
		if r.sweepExpired(now, reg.idleGrace) {
			delete(reg.rooms, id)
			reg.log.Info().Str("room", id).Msg("idle room collected")
		}
	}
}
