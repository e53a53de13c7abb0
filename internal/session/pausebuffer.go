package session

import "sync"

// OutPausedBufferSize is the fixed capacity of the shared pause buffer
// (§3), matching the original C's OUT_PAUSED_BUFFER_SIZE.
const OutPausedBufferSize = 1 << 20 // 1 MiB

// PauseBuffer is the single shared staging area the poller writes to while
// painting is suspended (Command mode). It is drained to the screen the
// first time the poller observes paintOk==true with non-empty contents;
// Drain and Discard both reset it to empty.
//
// This is a single-producer/single-consumer bounded byte region, as §9
// calls for — a plain mutex-guarded slice rather than a channel, since the
// "producer" (the poller) and "consumer" (the poller itself, on a later
// iteration once paintOk flips) are the same goroutine; the mutex exists
// only so Len can be read from tests without a data race.
type PauseBuffer struct {
	mu  sync.Mutex
	buf []byte
}

// NewPauseBuffer returns an empty pause buffer with capacity
// OutPausedBufferSize.
func NewPauseBuffer() *PauseBuffer {
	return &PauseBuffer{buf: make([]byte, 0, OutPausedBufferSize)}
}

// Stage appends data to the buffer, dropping anything beyond capacity.
// spec.md leaves pause-buffer overflow policy unspecified (§9 only
// requires the drain-vs-discard contract); dropping silently on overflow
// mirrors the fixed-size scratch region the original C source uses with
// no bounds check of its own, and is documented as a DESIGN.md decision.
func (p *PauseBuffer) Stage(data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	room := cap(p.buf) - len(p.buf)
	if room <= 0 {
		return
	}
	if len(data) > room {
		data = data[:room]
	}
	p.buf = append(p.buf, data...)
}

// Len returns the number of staged bytes.
func (p *PauseBuffer) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.buf)
}

// Drain returns the staged bytes and resets the buffer to empty.
func (p *PauseBuffer) Drain() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]byte, len(p.buf))
	copy(out, p.buf)
	p.buf = p.buf[:0]
	return out
}

// Discard resets the buffer to empty without returning its contents.
func (p *PauseBuffer) Discard() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.buf = p.buf[:0]
}
