package offline

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	minDuration = 400 * time.Millisecond
	maxDuration = 2 * time.Second
	perChar     = 60 * time.Millisecond
)

// toneDuration is 60ms per character of the input, clamped to [0.4s, 2s].
func toneDuration(text string) time.Duration {
	d := time.Duration(utf8.RuneCountInString(text)) * perChar
	return min(max(d, minDuration), maxDuration)
}

// baseFrequency picks the carrier from the vowels present, checked in
// a, e, i, o, u order.
func baseFrequency(phones string) float64 {
	for _, v := range []struct {
		vowel string
		hz    float64
	}{
		{"a", 190}, {"e", 210}, {"i", 230}, {"o", 170}, {"u", 160},
	} {
		if strings.Contains(phones, v.vowel) {
			return v.hz
		}
	}
	return 200
}

// synthesize renders the parametric voice: a decaying sine on the base
// frequency with a 5 Hz vibrato of ±8 Hz.
func synthesize(text, phones string, sampleRate int, volume, pitch float64) []int16 {
	volume = min(max(volume, 0), 1)
	if pitch <= 0 {
		pitch = 1
	}
	base := baseFrequency(phones) * pitch

	n := int(float64(sampleRate) * toneDuration(text).Seconds())
	pcm := make([]int16, n)
	for i := range pcm {
		t := float64(i) / float64(sampleRate)
		f := base + math.Sin(2*math.Pi*5*t)*8
		v := math.Sin(2*math.Pi*f*t) * math.Exp(-3*t)
		v = min(max(v, -1), 1)
		pcm[i] = int16(v * 32767 * volume)
	}
	return pcm
}
