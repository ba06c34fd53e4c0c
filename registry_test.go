package main

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdleRoomCollectedAfterGrace(t *testing.T) {
	clock := clockwork.NewFakeClock()
	reg, _, host := newTestRoom(t, clock, twoQuestionCSV)

	reg.dropClient("R1", host)

	reg.sweep()
	assert.NotNil(t, reg.get("R1"), "grace period has not elapsed yet")

	clock.Advance(reg.idleGrace + time.Second)
	reg.sweep()
	assert.Nil(t, reg.get("R1"), "empty past the grace period")
}

func TestIdleRoomSparedByReconnect(t *testing.T) {
	clock := clockwork.NewFakeClock()
	reg, r, host := newTestRoom(t, clock, twoQuestionCSV)

	reg.dropClient("R1", host)
	clock.Advance(reg.idleGrace / 2)

	// A member returns before the grace period elapses.
	rejoined := joinPlayer(t, reg, "Host", "host-1")
	awaitMessage[JoinedMessage](t, rejoined)

	clock.Advance(reg.idleGrace * 2)
	reg.sweep()
	require.NotNil(t, reg.get("R1"), "a room that regained a member is never deleted")

	r.mu.Lock()
	assert.True(t, r.emptySince.IsZero(), "reconnect clears the empty timestamp")
	r.mu.Unlock()
}

func TestSweepStampsEmptySince(t *testing.T) {
	clock := clockwork.NewFakeClock()
	reg, r, host := newTestRoom(t, clock, twoQuestionCSV)

	reg.dropClient("R1", host)

	// Simulate a room the collector has not observed empty yet.
	r.mu.Lock()
	r.emptySince = time.Time{}
	r.mu.Unlock()

	reg.sweep()
	assert.NotNil(t, reg.get("R1"))

	r.mu.Lock()
	assert.False(t, r.emptySince.IsZero(), "first empty observation is stamped")
	r.mu.Unlock()
}

func TestConnectedRoomNeverCollected(t *testing.T) {
	clock := clockwork.NewFakeClock()
	reg, r, _ := newTestRoom(t, clock, twoQuestionCSV)

	clock.Advance(reg.idleGrace * 10)
	reg.sweep()

	require.NotNil(t, reg.get("R1"))
	r.mu.Lock()
	assert.True(t, r.emptySince.IsZero())
	r.mu.Unlock()
}

func TestNewRoomIDAvoidsCollisions(t *testing.T) {
	reg := testRegistry(clockwork.NewFakeClock())

	seen := make(map[string]bool)
	for i := 0; i < 32; i++ {
		id := reg.newRoomID()
		assert.Len(t, id, 8)
		assert.False(t, seen[id], "generated IDs should not repeat")
		seen[id] = true
	}
}
