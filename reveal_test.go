package main

import (
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collectChars empties the client buffer, keeping only revealed chars.
func collectChars(c *Client) []string {
	var chars []string
	for _, m := range drainMessages(c) {
		if ch, ok := m.(CharMessage); ok {
			chars = append(chars, ch.Char)
		}
	}
	return chars
}

func TestRevealStreamsWholeQuestion(t *testing.T) {
	clock := clockwork.NewFakeClock()
	reg, r, host := newTestRoom(t, clock, "question,answer\nABC,X\n")

	p1 := joinPlayer(t, reg, "Alice", "u1")
	drainMessages(p1)

	reg.dispatch("R1", host, ClientMessage{Type: "next_question"})

	// First char goes out immediately, then one per interval.
	clock.BlockUntil(1)
	clock.Advance(time.Second)
	clock.BlockUntil(1)
	clock.Advance(time.Second)
	clock.BlockUntil(1)

	// The text is exhausted; this tick only lets the goroutine notice
	// and stop.
	clock.Advance(time.Second)

	chars := []string{
		awaitMessage[CharMessage](t, p1).Char,
		awaitMessage[CharMessage](t, p1).Char,
		awaitMessage[CharMessage](t, p1).Char,
	}
	assert.Equal(t, "ABC", strings.Join(chars, ""), "streamed units reconstruct the text in order")

	_, _, _, index := roomSnapshot(r)
	assert.Equal(t, 3, index, "reveal index stops exactly at the text length")

	assert.Empty(t, collectChars(p1), "nothing streams past the end")
}

func TestRevealPausesOnBuzz(t *testing.T) {
	clock := clockwork.NewFakeClock()
	reg, r, host := newTestRoom(t, clock, "question,answer\nABC,X\n")

	p1 := joinPlayer(t, reg, "Alice", "u1")
	drainMessages(p1)

	reg.dispatch("R1", host, ClientMessage{Type: "next_question"})
	clock.BlockUntil(1)

	reg.dispatch("R1", p1, ClientMessage{Type: "buzz"})
	clock.Advance(time.Second)

	require.Equal(t, "A", strings.Join(collectCharsEventually(t, p1, 1), ""))

	_, _, _, index := roomSnapshot(r)
	assert.Equal(t, 1, index, "no chars advance while a buzz is held")
}

func TestRepeatedResumeKeepsSingleRevealProcess(t *testing.T) {
	clock := clockwork.NewFakeClock()
	reg, r, host := newTestRoom(t, clock, "question,answer\nABCDE,X\n")

	p1 := joinPlayer(t, reg, "Alice", "u1")
	drainMessages(p1)

	reg.dispatch("R1", host, ClientMessage{Type: "next_question"})
	clock.BlockUntil(1)

	// Pause, then resume twice in a row before the paused goroutine has
	// had any chance to notice. Each resume spawns a goroutine; all but
	// the newest must stand down.
	reg.dispatch("R1", host, ClientMessage{Type: "timeout"})
	reg.dispatch("R1", host, ClientMessage{Type: "resume"})
	clock.BlockUntil(2)
	reg.dispatch("R1", host, ClientMessage{Type: "resume"})
	clock.BlockUntil(3)

	// One tick: the two stale goroutines wake and exit, the live one
	// advances exactly one char.
	clock.Advance(time.Second)
	clock.BlockUntil(1)

	chars := collectCharsEventually(t, p1, 4)
	assert.Equal(t, "ABCD", strings.Join(chars, ""), "no unit is ever streamed twice")

	_, _, _, index := roomSnapshot(r)
	assert.Equal(t, 4, index)
}

// collectCharsEventually waits until n chars have arrived, failing on
// anything unexpected like duplicates beyond n.
func collectCharsEventually(t *testing.T, c *Client, n int) []string {
	t.Helper()

	chars := make([]string, 0, n)
	for len(chars) < n {
		chars = append(chars, awaitMessage[CharMessage](t, c).Char)
	}
	return chars
}
