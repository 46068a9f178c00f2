// Package orchestrator decides which speech backend speaks, and tracks
// playback so that at most one utterance is ever audible.
//
// Every Speak first stops whatever is playing. Starts are serialised and
// numbered; when a newer Speak or a Stop arrives while a start is in flight,
// the older start is torn down as soon as its backend returns.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nadzzz/talkboard/internal/kv"
	"github.com/nadzzz/talkboard/internal/tts"
)

var (
	// ErrCouldNotSpeak is returned when neither backend could start playback.
	ErrCouldNotSpeak = errors.New("orchestrator: could not speak")
	// ErrSuperseded is returned when a newer Speak or a Stop arrived before
	// this utterance became audible. Nothing was played.
	ErrSuperseded = errors.New("orchestrator: superseded before playback")
)

// State is the playback state.
type State string

const (
	StateIdle     State = "idle"
	StateStarting State = "starting"
	StateSpeaking State = "speaking"
)

// stopTimeout bounds how long releasing a handle may take.
const stopTimeout = 5 * time.Second

// Config holds the orchestrator settings.
type Config struct {
	DefaultLanguage string
	// MaxUtterance stops playback that never signals completion. 0 disables it.
	MaxUtterance time.Duration
	// Volume applies when no volume has been persisted yet.
	Volume float64
}

// Orchestrator owns the speech backends and the playback state.
type Orchestrator struct {
	offline tts.Backend // may be nil
	native  tts.Backend // may be nil
	kv      kv.Store
	cfg     Config

	seq     atomic.Uint64
	startMu sync.Mutex // serialises stop-then-start and release

	mu         sync.Mutex
	state      State
	backend    tts.Kind
	current    tts.Handle
	currentGen uint64
	volume     float64
	voiceMap   map[string]string
	voices     []tts.Voice
	warned     map[string]bool

	events broadcaster
}

// New creates an orchestrator and restores persisted preferences from store.
// Either backend may be nil, but not both.
func New(ctx context.Context, store kv.Store, offline, native tts.Backend, cfg Config) *Orchestrator {
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = "fr"
	}
	o := &Orchestrator{
		offline:  offline,
		native:   native,
		kv:       store,
		cfg:      cfg,
		state:    StateIdle,
		volume:   clamp01(cfg.Volume),
		voiceMap: make(map[string]string),
		warned:   make(map[string]bool),
	}
	o.restore(ctx)
	return o
}

// Speak stops any current playback and speaks text in lang. Blank text is a
// no-op. It returns once playback has started; completion is observed
// through State and Subscribe. ErrSuperseded means a later Speak or Stop won
// before anything was heard.
func (o *Orchestrator) Speak(ctx context.Context, text, lang string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	lang = tts.NormalizeLang(lang)
	if lang == "" {
		lang = o.cfg.DefaultLanguage
	}

	gen := o.seq.Add(1)
	logger := slog.With("gen", gen, "lang", lang)

	o.startMu.Lock()
	defer o.startMu.Unlock()

	if gen != o.seq.Load() {
		logger.Debug("speak superseded before start")
		return ErrSuperseded
	}

	o.stopLocked(ctx)
	o.setState(StateStarting, "", lang)

	start := time.Now()
	h, used, err := o.start(ctx, logger, text, lang)
	if err != nil {
		logger.Error("speak failed", "error", err)
		o.emit(Event{Type: EventError, Lang: lang, Message: err.Error()})
		o.setState(StateIdle, "", lang)
		return err
	}

	if gen != o.seq.Load() {
		logger.Debug("speak superseded during start, releasing")
		o.stopHandle(ctx, logger, h)
		o.setState(StateIdle, "", lang)
		return ErrSuperseded
	}

	o.mu.Lock()
	o.current = h
	o.currentGen = gen
	o.mu.Unlock()
	o.setState(StateSpeaking, used, lang)
	logger.Info("speaking", "backend", used, "text_length", len(text), "start_latency", time.Since(start))

	go o.watch(gen, h)
	return nil
}

// Stop halts playback and releases the active resource. It also cancels a
// start that is in flight. Calling it while idle is a no-op.
func (o *Orchestrator) Stop(ctx context.Context) error {
	o.seq.Add(1)
	o.startMu.Lock()
	defer o.startMu.Unlock()
	o.stopLocked(ctx)
	return nil
}

// Speaking reports whether an utterance is playing.
func (o *Orchestrator) Speaking() bool {
	return o.State() == StateSpeaking
}

// State returns the current playback state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Status is a snapshot for transports.
type Status struct {
	State         State             `json:"state"`
	Speaking      bool              `json:"speaking"`
	Backend       tts.Kind          `json:"backend,omitempty"`
	Volume        float64           `json:"volume"`
	VoiceMap      map[string]string `json:"voiceMap"`
	OfflineReady  bool              `json:"offlineReady"`
	NativeReady   bool              `json:"nativeReady"`
	MaxUtterance  string            `json:"maxUtterance"`
	DefaultLocale string            `json:"defaultLanguage"`
}

// Status returns a snapshot of the playback state and preferences.
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	s := Status{
		State:         o.state,
		Speaking:      o.state == StateSpeaking,
		Volume:        o.volume,
		VoiceMap:      copyMap(o.voiceMap),
		OfflineReady:  o.offline != nil && o.offline.Ready(),
		NativeReady:   o.native != nil && o.native.Ready(),
		MaxUtterance:  o.cfg.MaxUtterance.String(),
		DefaultLocale: o.cfg.DefaultLanguage,
	}
	if s.Speaking {
		s.Backend = o.backend
	}
	return s
}

// BackendsReady reports readiness per backend kind, for health checks.
func (o *Orchestrator) BackendsReady() map[tts.Kind]bool {
	out := make(map[tts.Kind]bool, 2)
	for _, b := range []tts.Backend{o.offline, o.native} {
		if b != nil {
			out[b.Name()] = b.Ready()
		}
	}
	return out
}

// Close stops playback and closes both backends.
func (o *Orchestrator) Close() error {
	_ = o.Stop(context.Background())
	o.events.closeAll()
	var errs []error
	for _, b := range []tts.Backend{o.offline, o.native} {
		if b != nil {
			errs = append(errs, b.Close())
		}
	}
	return errors.Join(errs...)
}

// route picks the preferred and fallback backends for lang.
func (o *Orchestrator) route(lang string) (primary, fallback tts.Backend) {
	if o.offline != nil && o.offline.Ready() && o.offline.CanHandle(lang) {
		return o.offline, o.native
	}
	return o.native, o.offline
}

// start tries the preferred backend, then the fallback once.
func (o *Orchestrator) start(ctx context.Context, logger *slog.Logger, text, lang string) (tts.Handle, tts.Kind, error) {
	primary, fallback := o.route(lang)

	var errs []error
	for i, b := range []tts.Backend{primary, fallback} {
		if b == nil {
			continue
		}
		if !b.Ready() {
			errs = append(errs, fmt.Errorf("%s: %w", b.Name(), tts.ErrNotReady))
			continue
		}

		opts := o.speakOpts(ctx, lang, b)
		logger.Debug("starting backend", "backend", b.Name(), "voice", opts.Voice, "volume", opts.Volume)

		h, err := b.Speak(ctx, text, opts)
		if err == nil {
			if i > 0 {
				logger.Warn("spoke with fallback backend", "backend", b.Name())
				o.emit(Event{Type: EventFallback, Backend: b.Name(), Lang: lang})
			}
			return h, b.Name(), nil
		}
		logger.Warn("backend failed to start", "backend", b.Name(), "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", b.Name(), err))
	}

	if len(errs) == 0 {
		errs = append(errs, errors.New("no speech backend configured"))
	}
	return nil, "", fmt.Errorf("%w: %w", ErrCouldNotSpeak, errors.Join(errs...))
}

func (o *Orchestrator) speakOpts(ctx context.Context, lang string, b tts.Backend) tts.SpeakOpts {
	opts := tts.SpeakOpts{
		Language: lang,
		Volume:   o.Volume(),
		Rate:     tts.DefaultRate(lang),
		Pitch:    1,
	}
	if _, ok := b.(tts.VoiceLister); ok {
		opts.Voice = o.resolveVoice(ctx, lang)
	}
	return opts
}

// watch releases h once it finishes or overruns MaxUtterance.
func (o *Orchestrator) watch(gen uint64, h tts.Handle) {
	logger := slog.With("gen", gen)

	var timeout <-chan time.Time
	if o.cfg.MaxUtterance > 0 {
		t := time.NewTimer(o.cfg.MaxUtterance)
		defer t.Stop()
		timeout = t.C
	}

	select {
	case <-h.Done():
		if err := h.Err(); err != nil {
			logger.Warn("playback ended with error", "error", err)
			o.emit(Event{Type: EventError, Message: err.Error()})
		}
	case <-timeout:
		logger.Warn("utterance exceeded max duration, stopping", "max_utterance", o.cfg.MaxUtterance)
	}

	o.startMu.Lock()
	defer o.startMu.Unlock()

	o.mu.Lock()
	if o.current == nil || o.currentGen != gen {
		o.mu.Unlock()
		return
	}
	o.current = nil
	o.mu.Unlock()

	o.stopHandle(context.Background(), logger, h)
	o.setState(StateIdle, "", "")
}

// stopLocked releases the current handle. startMu must be held.
func (o *Orchestrator) stopLocked(ctx context.Context) {
	o.mu.Lock()
	h := o.current
	o.current = nil
	o.mu.Unlock()

	if h != nil {
		o.stopHandle(ctx, slog.Default(), h)
	}
	o.setState(StateIdle, "", "")
}

func (o *Orchestrator) stopHandle(ctx context.Context, logger *slog.Logger, h tts.Handle) {
	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), stopTimeout)
	defer cancel()
	if err := h.Stop(stopCtx); err != nil {
		logger.Warn("releasing playback failed", "error", err)
	}
}

// setState records the transition and emits it when the state changed.
func (o *Orchestrator) setState(s State, backend tts.Kind, lang string) {
	o.mu.Lock()
	changed := o.state != s
	o.state = s
	o.backend = backend
	o.mu.Unlock()

	if changed {
		o.emit(Event{Type: EventState, State: s, Backend: backend, Lang: lang})
	}
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
