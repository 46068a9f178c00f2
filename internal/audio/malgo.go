package audio

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gen2brain/malgo"
)

// MalgoPlayer plays sounds on the default output device through miniaudio.
// One malgo context is shared by every sound; each sound owns a device.
type MalgoPlayer struct {
	mu           sync.Mutex
	malgoContext *malgo.AllocatedContext
}

// NewMalgoPlayer initialises the audio backend.
func NewMalgoPlayer() (*MalgoPlayer, error) {
	malgoCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize malgo context: %w", err)
	}
	return &MalgoPlayer{malgoContext: malgoCtx}, nil
}

// Load decodes wav and prepares a playback device for it.
func (p *MalgoPlayer) Load(wav []byte) (Sound, error) {
	pcm, err := DecodeWAV(wav)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.malgoContext == nil {
		return nil, fmt.Errorf("malgo player closed")
	}

	s := &malgoSound{pcm: pcm.Data, done: make(chan struct{})}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = uint32(pcm.Channels)
	deviceConfig.SampleRate = uint32(pcm.SampleRate)

	var callbacks malgo.DeviceCallbacks
	callbacks.Data = s.fill

	device, err := malgo.InitDevice(p.malgoContext.Context, deviceConfig, callbacks)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize device: %w", err)
	}
	s.device = device
	return s, nil
}

// Close releases the malgo context. Sounds must be unloaded first.
func (p *MalgoPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.malgoContext == nil {
		return nil
	}
	err := p.malgoContext.Uninit()
	p.malgoContext.Free()
	p.malgoContext = nil
	return err
}

type malgoSound struct {
	device *malgo.Device

	mu       sync.Mutex
	pcm      []byte
	pos      int
	stopped  bool
	unloaded bool

	done     chan struct{}
	doneOnce sync.Once
}

// fill runs on the audio thread. The device must not be stopped from here,
// so reaching the end only signals Done.
func (s *malgoSound) fill(out, _ []byte, _ uint32) {
	s.mu.Lock()
	n := copy(out, s.pcm[s.pos:])
	s.pos += n
	finished := s.pos >= len(s.pcm)
	s.mu.Unlock()

	clear(out[n:])
	if finished {
		s.finish()
	}
}

func (s *malgoSound) finish() {
	s.doneOnce.Do(func() { close(s.done) })
}

// The audio thread takes s.mu in fill, so device calls happen unlocked.
func (s *malgoSound) Play() error {
	s.mu.Lock()
	unloaded := s.unloaded
	s.mu.Unlock()
	if unloaded {
		return fmt.Errorf("sound unloaded")
	}
	if err := s.device.Start(); err != nil {
		return fmt.Errorf("failed to start device: %w", err)
	}
	return nil
}

func (s *malgoSound) Stop() error {
	s.mu.Lock()
	if s.stopped || s.unloaded {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	s.mu.Unlock()

	defer s.finish()
	if err := s.device.Stop(); err != nil {
		return fmt.Errorf("failed to stop device: %w", err)
	}
	return nil
}

func (s *malgoSound) Unload() error {
	if err := s.Stop(); err != nil {
		slog.Warn("stopping sound before unload", "error", err)
	}
	s.mu.Lock()
	if s.unloaded {
		s.mu.Unlock()
		return nil
	}
	s.unloaded = true
	s.mu.Unlock()

	s.device.Uninit()
	return nil
}

func (s *malgoSound) Done() <-chan struct{} { return s.done }
