package session

import "testing"

func TestPauseBufferStageAndDrain(t *testing.T) {
	p := NewPauseBuffer()
	p.Stage([]byte("hello"))
	p.Stage([]byte(" world"))
	if p.Len() != len("hello world") {
		t.Fatalf("want len %d, got %d", len("hello world"), p.Len())
	}
	got := p.Drain()
	if string(got) != "hello world" {
		t.Fatalf("got %q", got)
	}
	if p.Len() != 0 {
		t.Fatal("drain should reset the buffer")
	}
}

func TestPauseBufferDiscard(t *testing.T) {
	p := NewPauseBuffer()
	p.Stage([]byte("stale output"))
	p.Discard()
	if p.Len() != 0 {
		t.Fatal("discard should reset the buffer")
	}
}

func TestPauseBufferOverflowTruncates(t *testing.T) {
	p := NewPauseBuffer()
	big := make([]byte, OutPausedBufferSize+100)
	for i := range big {
		big[i] = 'a'
	}
	p.Stage(big)
	if p.Len() != OutPausedBufferSize {
		t.Fatalf("want capped at %d, got %d", OutPausedBufferSize, p.Len())
	}
}
