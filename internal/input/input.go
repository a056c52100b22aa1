// Package input turns a raw terminal byte stream into per-frame key state.
//
// Terminals only report key presses, never releases, so a key counts as held
// for a short window after its last byte arrives. Auto-repeat keeps the key
// alive while the player holds it down.
package input

import (
	"bufio"
	"io"
	"time"
)

// DefaultHold is how long a key is considered held after its last press.
const DefaultHold = 30 * time.Millisecond

// escapeTimeout is how long a trailing ESC waits for the rest of an arrow
// sequence before it counts as the Escape key.
const escapeTimeout = 50 * time.Millisecond

// Input is the key state for one frame.
type Input struct {
	Quit   bool
	Left   bool
	Right  bool
	Fire   bool
	Enter  bool
	Escape bool
	Closed bool // The underlying reader is gone; the session should end
}

// keyState tracks the last time each key was pressed.
type keyState struct {
	quit   time.Time
	left   time.Time
	right  time.Time
	fire   time.Time
	enter  time.Time
	escape time.Time
}

// Stream delivers input bytes via a channel and tracks key state.
type Stream struct {
	ch     chan byte
	hold   time.Duration
	state  keyState
	closed bool

	pending   []byte // Unfinished escape sequence from an earlier drain
	pendingAt time.Time
}

// StartStream spawns a goroutine that reads from r and feeds the stream.
// A hold <= 0 uses DefaultHold.
func StartStream(r io.Reader, hold time.Duration) *Stream {
	if hold <= 0 {
		hold = DefaultHold
	}
	s := &Stream{
		ch:   make(chan byte, 128),
		hold: hold,
	}
	br := bufio.NewReader(r)
	go func() {
		defer close(s.ch)
		for {
			b, err := br.ReadByte()
			if err != nil {
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Read drains everything buffered so far without blocking and returns the
// resulting key state.
func (s *Stream) Read() Input {
	return s.readAt(time.Now())
}

func (s *Stream) readAt(now time.Time) Input {
	buf := s.pending
	carried := len(buf)

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	s.pending = nil
	rest := s.state.apply(buf, now)
	switch {
	case len(rest) == 0:
	case s.closed || (len(buf) == carried && now.Sub(s.pendingAt) >= escapeTimeout):
		s.state.flush(rest, now)
	default:
		if len(buf) > carried {
			s.pendingAt = now
		}
		s.pending = append([]byte(nil), rest...)
	}

	in := s.state.at(now, s.hold)
	in.Closed = s.closed
	return in
}

// Reset forgets every held key, so a key that changed the screen does not
// also act on the next one.
func (s *Stream) Reset() {
	s.state = keyState{}
	s.pending = nil
}

// apply records every key found in buf, including CSI and SS3 arrow
// sequences. A trailing ESC, ESC [ or ESC O that may still become an arrow
// key is left unconsumed and returned.
func (st *keyState) apply(buf []byte, now time.Time) (rest []byte) {
	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if b != '\x1b' {
			st.applyByte(b, now)
			continue
		}
		if i+1 == len(buf) {
			return buf[i:]
		}

		switch buf[i+1] {
		case '[':
			// ESC [ <params> <final>, e.g. ESC [ D or ESC [ 1 ; 5 D.
			j := i + 2
			for j < len(buf) && buf[j] >= 0x20 && buf[j] <= 0x3f {
				j++
			}
			if j == len(buf) {
				return buf[i:]
			}
			st.applyArrow(buf[j], now)
			i = j
		case 'O':
			// ESC O <final>, sent by terminals in application cursor mode.
			if i+2 == len(buf) {
				return buf[i:]
			}
			st.applyArrow(buf[i+2], now)
			i += 2
		default:
			st.escape = now
		}
	}
	return nil
}

// flush gives up waiting on an unfinished sequence. Its ESC is the Escape key.
func (st *keyState) flush(rest []byte, now time.Time) {
	if len(rest) > 0 && rest[0] == '\x1b' {
		st.escape = now
	}
}

func (st *keyState) applyArrow(final byte, now time.Time) {
	switch final {
	case 'A':
		st.fire = now
	case 'C':
		st.right = now
	case 'D':
		st.left = now
	}
}

func (st *keyState) applyByte(b byte, now time.Time) {
	switch b {
	case 'q', 'Q', '\x03':
		st.quit = now
	case 'a', 'A', 'j', 'J':
		st.left = now
	case 'd', 'D', 'l', 'L':
		st.right = now
	case ' ', 'w', 'W', 'k', 'K':
		st.fire = now
	case '\n', '\r':
		st.enter = now
	}
}

// at reports which keys were seen within hold of now.
func (st *keyState) at(now time.Time, hold time.Duration) Input {
	held := func(t time.Time) bool { return !t.IsZero() && now.Sub(t) < hold }
	return Input{
		Quit:   held(st.quit),
		Left:   held(st.left),
		Right:  held(st.right),
		Fire:   held(st.fire),
		Enter:  held(st.enter),
		Escape: held(st.escape),
	}
}
