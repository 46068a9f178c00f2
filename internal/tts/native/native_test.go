package native

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/nadzzz/talkboard/internal/tts"
)

type fakeEngine struct {
	last  EngineOptions
	text  string
	err   error
	utter *Utterance
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Speak(_ context.Context, text string, opts EngineOptions) (*Utterance, error) {
	f.text, f.last = text, opts
	if f.err != nil {
		return nil, f.err
	}
	var u *Utterance
	u = NewUtterance(func() { u.Finish(nil) })
	f.utter = u
	return u, nil
}

func (f *fakeEngine) Voices(context.Context) ([]tts.Voice, error) {
	return []tts.Voice{{ID: "fr", Language: "fr-FR"}}, nil
}

func TestBackendMapsOptions(t *testing.T) {
	eng := &fakeEngine{}
	b := New(eng)

	if !b.Ready() || !b.CanHandle("anything") || b.Name() != tts.KindNative {
		t.Fatal("unexpected backend identity")
	}

	h, err := b.Speak(context.Background(), "bonjour", tts.SpeakOpts{Language: "fr", Volume: 2})
	if err != nil {
		t.Fatalf("speak: %v", err)
	}
	want := EngineOptions{Locale: "fr-FR", Volume: 1, Rate: 0.8, Pitch: 1}
	if eng.last != want {
		t.Errorf("got options %+v, want %+v", eng.last, want)
	}

	b.Speak(context.Background(), "salama", tts.SpeakOpts{Language: "mg", Voice: "v1", Volume: 0.5, Rate: 1.2})
	want = EngineOptions{Voice: "v1", Locale: "mg", Volume: 0.5, Rate: 1.2, Pitch: 1}
	if eng.last != want {
		t.Errorf("got options %+v, want %+v", eng.last, want)
	}

	if err := h.Stop(context.Background()); err != nil {
		t.Errorf("stop: %v", err)
	}
}

func TestBackendErrors(t *testing.T) {
	if _, err := New(nil).Speak(context.Background(), "x", tts.SpeakOpts{}); !errors.Is(err, tts.ErrNotReady) {
		t.Errorf("expected ErrNotReady, got %v", err)
	}
	boom := errors.New("boom")
	if _, err := New(&fakeEngine{err: boom}).Speak(context.Background(), "x", tts.SpeakOpts{}); !errors.Is(err, boom) {
		t.Errorf("expected wrapped engine error, got %v", err)
	}
}

func TestUtterance(t *testing.T) {
	cancels := 0
	u := NewUtterance(func() { cancels++ })

	if u.Err() != nil {
		t.Error("Err before finish must be nil")
	}
	fail := errors.New("exit status 1")
	u.Finish(fail)
	u.Finish(nil)
	if !errors.Is(u.Err(), fail) {
		t.Errorf("expected first Finish to win, got %v", u.Err())
	}

	stopped := NewUtterance(nil)
	stopped.cancel = func() { cancels++; stopped.Finish(errors.New("killed")) }
	for range 3 {
		if err := stopped.Stop(context.Background()); err != nil {
			t.Fatalf("stop: %v", err)
		}
	}
	if cancels != 1 {
		t.Errorf("expected a single cancel, got %d", cancels)
	}
	if stopped.Err() != nil {
		t.Errorf("stopped utterance should report nil, got %v", stopped.Err())
	}
}

func TestUtteranceStopHonoursContext(t *testing.T) {
	u := NewUtterance(func() {})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := u.Stop(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline error, got %v", err)
	}
}

func TestArgs(t *testing.T) {
	espeak := &Exec{kind: EngineEspeak, binary: "espeak-ng", wpm: 175}
	got := espeak.args(EngineOptions{Locale: "fr-FR", Volume: 0.5, Rate: 0.8, Pitch: 1})
	want := []string{"-s", "140", "-a", "50", "-p", "50", "-v", "fr-fr", "--stdin"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("espeak args: got %v, want %v", got, want)
	}

	got = espeak.args(EngineOptions{Voice: "mb-fr1", Volume: 1, Rate: 1, Pitch: 3})
	want = []string{"-s", "175", "-a", "100", "-p", "99", "-v", "mb-fr1", "--stdin"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("espeak args with voice: got %v, want %v", got, want)
	}

	say := &Exec{kind: EngineSay, binary: "say", wpm: 200}
	got = say.args(EngineOptions{Voice: "Amélie", Rate: 0.7})
	want = []string{"-r", "140", "-v", "Amélie", "-f", "-"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("say args: got %v, want %v", got, want)
	}
	if in := say.input("bonjour", EngineOptions{Volume: 0.25}); in != "[[volm 0.25]] bonjour" {
		t.Errorf("say input: %q", in)
	}
	if in := say.input("bonjour", EngineOptions{Volume: 1}); in != "bonjour" {
		t.Errorf("say input at full volume: %q", in)
	}
}

func TestParseEspeakVoices(t *testing.T) {
	out := []byte(`Pty Language       Age/Gender VoiceName          File                 Other Languages
 5  af              --/M      Afrikaans          gmw/af
 5  fr-fr           --/M      French_(France)    roa/fr               (fr 5)
 5  en-us           --/M      English_(America)  gmw/en-US            (en 3)
`)
	got := parseEspeakVoices(out)
	want := []tts.Voice{
		{ID: "af", Name: "Afrikaans", Language: "af"},
		{ID: "fr-fr", Name: "French (France)", Language: "fr-fr"},
		{ID: "en-us", Name: "English (America)", Language: "en-us"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v", got)
	}
}

func TestParseSayVoices(t *testing.T) {
	out := []byte(`Alex                en_US    # Most people recognize me by my voice.
Amélie              fr_CA    # Bonjour, je m’appelle Amélie.
Eddy (French (France)) fr_FR    # Bonjour ! Je m’appelle Eddy.

`)
	got := parseSayVoices(out)
	want := []tts.Voice{
		{ID: "Alex", Name: "Alex", Language: "en-US"},
		{ID: "Amélie", Name: "Amélie", Language: "fr-CA"},
		{ID: "Eddy (French (France))", Name: "Eddy (French (France))", Language: "fr-FR"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v", got)
	}
}

func TestNewExecUnsupported(t *testing.T) {
	if _, err := NewExec("festival", "", 0); !errors.Is(err, ErrUnsupportedEngine) {
		t.Errorf("expected ErrUnsupportedEngine, got %v", err)
	}
	if _, err := NewExec(EngineEspeak, filepath.Join(t.TempDir(), "missing"), 0); err == nil {
		t.Error("expected lookup failure for missing binary")
	}
}

// writeScript installs a fake engine binary.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported")
	}
	path := filepath.Join(t.TempDir(), "fake-espeak")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExecSpeakRunsProcess(t *testing.T) {
	out := filepath.Join(t.TempDir(), "spoken.txt")
	bin := writeScript(t, `echo "$@" > "`+out+`.args"
cat > "`+out+`"
`)
	e, err := NewExec(EngineEspeak, bin, 100)
	if err != nil {
		t.Fatalf("new exec: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	u, err := e.Speak(ctx, "-v pas un drapeau", EngineOptions{Locale: "fr-FR", Volume: 1, Rate: 1, Pitch: 1})
	cancel() // the request ending must not cut speech short
	if err != nil {
		t.Fatalf("speak: %v", err)
	}

	select {
	case <-u.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("utterance did not finish")
	}
	if u.Err() != nil {
		t.Fatalf("unexpected error: %v", u.Err())
	}

	spoken, _ := os.ReadFile(out)
	if string(spoken) != "-v pas un drapeau" {
		t.Errorf("stdin: got %q", spoken)
	}
	args, _ := os.ReadFile(out + ".args")
	if !strings.Contains(string(args), "-v fr-fr --stdin") {
		t.Errorf("args: got %q", args)
	}
}

func TestExecStopKillsProcess(t *testing.T) {
	bin := writeScript(t, "exec sleep 30\n")
	e, err := NewExec(EngineEspeak, bin, 0)
	if err != nil {
		t.Fatalf("new exec: %v", err)
	}

	u, err := e.Speak(context.Background(), "long", EngineOptions{Volume: 1, Rate: 1, Pitch: 1})
	if err != nil {
		t.Fatalf("speak: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	start := time.Now()
	if err := u.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if time.Since(start) > 4*time.Second {
		t.Error("stop waited for the process to finish on its own")
	}
	if u.Err() != nil {
		t.Errorf("stopped utterance reported %v", u.Err())
	}
}

func TestExecFailureSurfacesStderr(t *testing.T) {
	bin := writeScript(t, "echo 'voice not found' >&2\nexit 1\n")
	e, _ := NewExec(EngineEspeak, bin, 0)

	u, err := e.Speak(context.Background(), "x", EngineOptions{Volume: 1, Rate: 1, Pitch: 1})
	if err != nil {
		t.Fatalf("speak: %v", err)
	}
	<-u.Done()
	if u.Err() == nil || !strings.Contains(u.Err().Error(), "voice not found") {
		t.Errorf("expected stderr in error, got %v", u.Err())
	}
}
