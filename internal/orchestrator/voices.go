package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/nadzzz/talkboard/internal/tts"
)

// Persisted preference keys.
const (
	KeyVoiceMap       = "tts.voice_map"
	KeyVolume         = "tts.volume"
	KeyWarnedNoVoice  = "tts.warned_no_voice:"
	multilingualVoice = "mul"
)

// restore loads the voice map and volume. Failures keep the defaults.
func (o *Orchestrator) restore(ctx context.Context) {
	if raw, ok, err := o.kv.Get(ctx, KeyVoiceMap); err != nil {
		slog.Warn("voice map read failed, using auto-pick", "error", err)
	} else if ok && raw != "" {
		m := make(map[string]string)
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			slog.Warn("voice map corrupt, using auto-pick", "error", err)
		} else {
			o.voiceMap = m
		}
	}

	if raw, ok, err := o.kv.Get(ctx, KeyVolume); err != nil {
		slog.Warn("volume read failed, using default", "error", err)
	} else if ok {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			slog.Warn("volume corrupt, using default", "value", raw, "error", err)
		} else {
			o.volume = clamp01(v)
		}
	}
}

// Volume returns the current volume in [0, 1].
func (o *Orchestrator) Volume() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.volume
}

// SetVolume clamps v to [0, 1], applies it to subsequent speaks and
// persists it. The in-memory value is updated even if persisting fails.
func (o *Orchestrator) SetVolume(ctx context.Context, v float64) error {
	v = clamp01(v)
	o.mu.Lock()
	o.volume = v
	o.mu.Unlock()

	if err := o.kv.Set(ctx, KeyVolume, strconv.FormatFloat(v, 'f', -1, 64)); err != nil {
		return fmt.Errorf("saving volume: %w", err)
	}
	return nil
}

// VoiceMap returns a copy of the per-language voice preferences.
func (o *Orchestrator) VoiceMap() map[string]string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return copyMap(o.voiceMap)
}

// SetVoiceForLocale stores voiceID for the language of locale. An empty
// voiceID clears the override and restores auto-pick.
func (o *Orchestrator) SetVoiceForLocale(ctx context.Context, locale, voiceID string) error {
	lang := tts.NormalizeLang(locale)
	if lang == "" {
		lang = o.cfg.DefaultLanguage
	}
	voiceID = strings.TrimSpace(voiceID)

	o.mu.Lock()
	if voiceID == "" {
		delete(o.voiceMap, lang)
	} else {
		o.voiceMap[lang] = voiceID
	}
	snapshot := copyMap(o.voiceMap)
	o.mu.Unlock()

	return o.saveVoiceMap(ctx, snapshot)
}

func (o *Orchestrator) saveVoiceMap(ctx context.Context, m map[string]string) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshalling voice map: %w", err)
	}
	if err := o.kv.Set(ctx, KeyVoiceMap, string(data)); err != nil {
		return fmt.Errorf("saving voice map: %w", err)
	}
	return nil
}

// ListVoices returns the native voice catalog. The first successful load
// is cached for the life of the orchestrator.
func (o *Orchestrator) ListVoices(ctx context.Context) ([]tts.Voice, error) {
	o.mu.Lock()
	cached := o.voices
	o.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	lister, ok := o.native.(tts.VoiceLister)
	if !ok || o.native == nil {
		return []tts.Voice{}, nil
	}
	voices, err := lister.Voices(ctx)
	if err != nil {
		return nil, err
	}
	voices = dedupeVoices(voices)

	o.mu.Lock()
	o.voices = voices
	o.mu.Unlock()
	return voices, nil
}

func dedupeVoices(in []tts.Voice) []tts.Voice {
	seen := make(map[string]struct{}, len(in))
	out := make([]tts.Voice, 0, len(in))
	for _, v := range in {
		key := v.ID
		if key == "" {
			key = v.Name + "-" + v.Language
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}

// resolveVoice returns the voice to use for lang, or "" for the engine default.
func (o *Orchestrator) resolveVoice(ctx context.Context, lang string) string {
	o.mu.Lock()
	id := o.voiceMap[lang]
	o.mu.Unlock()
	if id != "" {
		return id
	}

	voices, err := o.ListVoices(ctx)
	if err != nil {
		// The advisory is permanent, so only a catalog we could read may trigger it.
		slog.Warn("voice catalog unavailable, using engine default", "lang", lang, "error", err)
		return ""
	}
	if v, ok := pickBestVoice(voices, lang); ok {
		o.mu.Lock()
		o.voiceMap[lang] = v.ID
		snapshot := copyMap(o.voiceMap)
		o.mu.Unlock()
		if err := o.saveVoiceMap(ctx, snapshot); err != nil {
			slog.Warn("persisting auto-picked voice failed", "lang", lang, "error", err)
		}
		slog.Info("auto-picked voice", "lang", lang, "voice", v.ID)
		return v.ID
	}

	o.warnNoVoice(ctx, lang)
	return ""
}

// pickBestVoice prefers a voice whose language starts with lang, then a
// multilingual voice (language "mul" or empty).
func pickBestVoice(voices []tts.Voice, lang string) (tts.Voice, bool) {
	if lang == "" {
		return tts.Voice{}, false
	}
	lang = strings.ToLower(lang)
	for _, v := range voices {
		if strings.HasPrefix(strings.ToLower(v.Language), lang) {
			return v, true
		}
	}
	for _, v := range voices {
		if v.Language == "" || v.Language == multilingualVoice {
			return v, true
		}
	}
	return tts.Voice{}, false
}

// warnNoVoice emits the missing-voice advisory once per language, ever.
func (o *Orchestrator) warnNoVoice(ctx context.Context, lang string) {
	o.mu.Lock()
	seen := o.warned[lang]
	o.warned[lang] = true
	o.mu.Unlock()
	if seen {
		return
	}

	key := KeyWarnedNoVoice + lang
	warned, _, err := o.kv.Get(ctx, key)
	if err != nil {
		slog.Warn("warned flag read failed", "lang", lang, "error", err)
	}
	if warned == "true" {
		return
	}
	if err := o.kv.Set(ctx, key, "true"); err != nil {
		slog.Warn("persisting warned flag failed", "lang", lang, "error", err)
	}

	slog.Warn("no voice installed for language, using engine default", "lang", lang)
	o.emit(Event{
		Type:    EventNoVoice,
		Lang:    lang,
		Message: fmt.Sprintf("no %s voice is installed; install one in the platform speech engine (e.g. espeak-ng)", lang),
	})
}
