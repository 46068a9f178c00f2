// Package audiotest provides an in-memory audio.Player for tests.
package audiotest

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/nadzzz/talkboard/internal/audio"
)

// ErrLoad is returned by Load when Player.FailLoad is set.
var ErrLoad = errors.New("audiotest: load failed")

// Player records every sound it loads. Sounds never finish on their own;
// tests call Finish to simulate the end of playback.
type Player struct {
	FailLoad atomic.Bool

	mu     sync.Mutex
	sounds []*Sound
}

func (p *Player) Load(wav []byte) (audio.Sound, error) {
	if p.FailLoad.Load() {
		return nil, ErrLoad
	}
	pcm, err := audio.DecodeWAV(wav)
	if err != nil {
		return nil, err
	}
	s := &Sound{PCM: pcm, done: make(chan struct{})}
	p.mu.Lock()
	p.sounds = append(p.sounds, s)
	p.mu.Unlock()
	return s, nil
}

func (p *Player) Close() error { return nil }

// Sounds returns every sound loaded so far.
func (p *Player) Sounds() []*Sound {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*Sound, len(p.sounds))
	copy(out, p.sounds)
	return out
}

// Playing counts sounds that are playing right now.
func (p *Player) Playing() int {
	n := 0
	for _, s := range p.Sounds() {
		if s.IsPlaying() {
			n++
		}
	}
	return n
}

// Sound is a fake clip.
type Sound struct {
	PCM audio.PCM

	mu       sync.Mutex
	playing  bool
	stopped  bool
	unloaded bool
	once     sync.Once
	done     chan struct{}
}

func (s *Sound) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unloaded {
		return errors.New("audiotest: play after unload")
	}
	s.playing = true
	return nil
}

func (s *Sound) Stop() error {
	s.mu.Lock()
	s.playing = false
	s.stopped = true
	s.mu.Unlock()
	s.once.Do(func() { close(s.done) })
	return nil
}

func (s *Sound) Unload() error {
	s.Stop()
	s.mu.Lock()
	s.unloaded = true
	s.mu.Unlock()
	return nil
}

func (s *Sound) Done() <-chan struct{} { return s.done }

// Finish ends playback as if the clip reached its end.
func (s *Sound) Finish() {
	s.mu.Lock()
	s.playing = false
	s.mu.Unlock()
	s.once.Do(func() { close(s.done) })
}

func (s *Sound) IsPlaying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

func (s *Sound) Unloaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unloaded
}
