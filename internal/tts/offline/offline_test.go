package offline

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/nadzzz/talkboard/internal/audio/audiotest"
	"github.com/nadzzz/talkboard/internal/tts"
)

func TestG2P(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Manao ahoana", "m a n a o | a h o a n a"},
		{"Misaotra", "m i s a o t r a"},
		{"nyanga", "ɲ a ŋ a"},
		{"Jaona", "ʒ a o n a"},
		{"n'ny trano", "n ɲ | t r a n o"},
		{"Tsara-be!", "ʦ a r a | b e"},
		{"Fàhàsoàvana", "f a h a s o a v a n a"},
		{"  123  ", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := G2P(tt.in); got != tt.want {
			t.Errorf("G2P(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestToneDuration(t *testing.T) {
	tests := []struct {
		text string
		want time.Duration
	}{
		{"a", 400 * time.Millisecond},
		{"salama tompoko", 14 * 60 * time.Millisecond},
		{string(make([]byte, 100)), 2 * time.Second},
	}
	for _, tt := range tests {
		if got := toneDuration(tt.text); got != tt.want {
			t.Errorf("toneDuration(%d chars) = %v, want %v", len(tt.text), got, tt.want)
		}
	}
}

func TestBaseFrequency(t *testing.T) {
	tests := map[string]float64{
		"m a n a":  190,
		"t e n y":  210,
		"m i s y":  230,
		"m o r o":  170,
		"t u":      160,
		"p s t | ": 200,
		"o u e":    210,
	}
	for phones, want := range tests {
		if got := baseFrequency(phones); got != want {
			t.Errorf("baseFrequency(%q) = %v, want %v", phones, got, want)
		}
	}
}

func TestSynthesizeVolume(t *testing.T) {
	loud := synthesize("salama", "s a l a m a", 8000, 1, 1)
	quiet := synthesize("salama", "s a l a m a", 8000, 0.5, 1)
	silent := synthesize("salama", "s a l a m a", 8000, 0, 1)

	if len(loud) != int(8000*0.4) {
		t.Fatalf("expected %d samples, got %d", int(8000*0.4), len(loud))
	}
	peak := func(s []int16) int {
		m := 0
		for _, v := range s {
			if int(v) > m {
				m = int(v)
			} else if -int(v) > m {
				m = -int(v)
			}
		}
		return m
	}
	if peak(loud) < 30000 {
		t.Errorf("full volume peak too low: %d", peak(loud))
	}
	if p := peak(quiet); p > 16384 || p < 15000 {
		t.Errorf("half volume peak out of range: %d", p)
	}
	if peak(silent) != 0 {
		t.Errorf("zero volume should be silent, peak %d", peak(silent))
	}
}

func TestBackendLifecycle(t *testing.T) {
	ctx := context.Background()
	player := &audiotest.Player{}
	b := New(player, Config{Languages: []string{"mg"}, SampleRate: 16000})

	if b.Name() != tts.KindOffline {
		t.Errorf("unexpected name %q", b.Name())
	}
	if !b.CanHandle("mg") || !b.CanHandle("MG-mg") || b.CanHandle("fr") {
		t.Error("CanHandle does not match configured languages")
	}

	if _, err := b.Speak(ctx, "salama", tts.SpeakOpts{Language: "mg", Volume: 1}); !errors.Is(err, tts.ErrNotReady) {
		t.Fatalf("expected ErrNotReady before Init, got %v", err)
	}

	if err := b.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	h, err := b.Speak(ctx, "salama", tts.SpeakOpts{Language: "mg", Volume: 1})
	if err != nil {
		t.Fatalf("speak: %v", err)
	}

	sounds := player.Sounds()
	if len(sounds) != 1 || !sounds[0].IsPlaying() {
		t.Fatalf("expected one playing sound, got %d", len(sounds))
	}
	if sounds[0].PCM.SampleRate != 16000 {
		t.Errorf("expected 16000 Hz, got %d", sounds[0].PCM.SampleRate)
	}
	if first := int16(binary.LittleEndian.Uint16(sounds[0].PCM.Data[0:])); first != 0 {
		t.Errorf("tone should start at zero crossing, got %d", first)
	}

	if err := h.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if err := h.Stop(ctx); err != nil {
		t.Fatalf("second stop: %v", err)
	}
	select {
	case <-h.Done():
	default:
		t.Error("Done not closed after Stop")
	}
	if !sounds[0].Unloaded() {
		t.Error("sound not unloaded after Stop")
	}
}

func TestSpeakLoadFailure(t *testing.T) {
	ctx := context.Background()
	player := &audiotest.Player{}
	player.FailLoad.Store(true)
	b := New(player, Config{})
	b.Init(ctx)

	if _, err := b.Speak(ctx, "salama", tts.SpeakOpts{Volume: 1}); !errors.Is(err, audiotest.ErrLoad) {
		t.Fatalf("expected wrapped load error, got %v", err)
	}
}
