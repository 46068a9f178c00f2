package native

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"math"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/nadzzz/talkboard/internal/tts"
)

const (
	EngineAuto   = "auto"
	EngineEspeak = "espeak-ng"
	EngineSay    = "say"

	// DefaultWPM is the engine rate at multiplier 1.0.
	DefaultWPM = 175
)

// Exec drives espeak-ng or macOS say as a child process. Text is written
// to stdin so it is never parsed as flags.
type Exec struct {
	kind   string
	binary string
	wpm    int
}

// NewExec resolves engine ("auto", "espeak-ng" or "say") and locates its
// binary. binary overrides the executable looked up on PATH.
func NewExec(engine, binary string, wpm int) (*Exec, error) {
	kind := engine
	if kind == "" || kind == EngineAuto {
		kind = EngineEspeak
		if runtime.GOOS == "darwin" {
			kind = EngineSay
		}
	}
	if kind != EngineEspeak && kind != EngineSay {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEngine, engine)
	}
	if binary == "" {
		binary = kind
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("locating %s: %w", kind, err)
	}
	if wpm <= 0 {
		wpm = DefaultWPM
	}
	return &Exec{kind: kind, binary: path, wpm: wpm}, nil
}

func (e *Exec) Name() string { return e.kind }

// Speak starts the engine. The process outlives ctx; it ends when speech
// finishes or the utterance is stopped.
func (e *Exec) Speak(ctx context.Context, text string, opts EngineOptions) (*Utterance, error) {
	procCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	cmd := exec.CommandContext(procCtx, e.binary, e.args(opts)...)
	cmd.Stdin = strings.NewReader(e.input(text, opts))
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("starting %s: %w", e.kind, err)
	}

	u := NewUtterance(cancel)
	go func() {
		err := cmd.Wait()
		cancel()
		if err != nil && stderr.Len() > 0 {
			err = fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
		}
		u.Finish(err)
	}()
	return u, nil
}

func (e *Exec) args(opts EngineOptions) []string {
	wpm := strconv.Itoa(max(int(math.Round(float64(e.wpm)*opts.Rate)), 1))

	switch e.kind {
	case EngineSay:
		args := []string{"-r", wpm}
		if opts.Voice != "" {
			args = append(args, "-v", opts.Voice)
		}
		return append(args, "-f", "-")
	default:
		voice := opts.Voice
		if voice == "" {
			voice = strings.ToLower(opts.Locale)
		}
		amp := int(min(max(opts.Volume, 0), 1) * 100)
		pitch := min(max(int(opts.Pitch*50), 0), 99)
		args := []string{"-s", wpm, "-a", strconv.Itoa(amp), "-p", strconv.Itoa(pitch)}
		if voice != "" {
			args = append(args, "-v", voice)
		}
		return append(args, "--stdin")
	}
}

// input applies volume for say, which has no volume flag.
func (e *Exec) input(text string, opts EngineOptions) string {
	if e.kind == EngineSay && opts.Volume < 1 {
		return fmt.Sprintf("[[volm %.2f]] %s", max(opts.Volume, 0), text)
	}
	return text
}

// Voices runs the engine's voice listing and parses it.
func (e *Exec) Voices(ctx context.Context) ([]tts.Voice, error) {
	var args []string
	if e.kind == EngineSay {
		args = []string{"-v", "?"}
	} else {
		args = []string{"--voices"}
	}
	out, err := exec.CommandContext(ctx, e.binary, args...).Output()
	if err != nil {
		return nil, fmt.Errorf("running %s %s: %w", e.kind, strings.Join(args, " "), err)
	}
	if e.kind == EngineSay {
		return parseSayVoices(out), nil
	}
	return parseEspeakVoices(out), nil
}

// parseEspeakVoices reads the table printed by "espeak-ng --voices":
//
//	Pty Language       Age/Gender VoiceName          File                 Other Languages
//	 5  fr-fr           --/M      French_(France)    roa/fr               (fr 5)
func parseEspeakVoices(out []byte) []tts.Voice {
	var voices []tts.Voice
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		f := strings.Fields(sc.Text())
		if len(f) < 4 || f[0] == "Pty" {
			continue
		}
		voices = append(voices, tts.Voice{
			ID:       f[1],
			Name:     strings.ReplaceAll(f[3], "_", " "),
			Language: f[1],
		})
	}
	return voices
}

// parseSayVoices reads the listing printed by "say -v ?":
//
//	Amélie              fr_CA    # Bonjour, je m’appelle Amélie.
//	Eddy (French (France)) fr_FR    # Bonjour !
func parseSayVoices(out []byte) []tts.Voice {
	var voices []tts.Voice
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line, _, _ := strings.Cut(sc.Text(), "#")
		f := strings.Fields(line)
		if len(f) < 2 {
			continue
		}
		locale := f[len(f)-1]
		name := strings.Join(f[:len(f)-1], " ")
		voices = append(voices, tts.Voice{
			ID:       name,
			Name:     name,
			Language: strings.ReplaceAll(locale, "_", "-"),
		})
	}
	return voices
}
