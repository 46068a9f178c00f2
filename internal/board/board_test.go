package board

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/nadzzz/talkboard/internal/catalog"
	"github.com/nadzzz/talkboard/internal/history"
	"github.com/nadzzz/talkboard/internal/kv"
	"github.com/nadzzz/talkboard/internal/suggest"
)

type spoken struct{ text, lang string }

type fakeSpeaker struct {
	mu   sync.Mutex
	said []spoken
	err  error
}

func (f *fakeSpeaker) Speak(_ context.Context, text, lang string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.said = append(f.said, spoken{text, lang})
	return nil
}

func (f *fakeSpeaker) last() spoken {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.said) == 0 {
		return spoken{}
	}
	return f.said[len(f.said)-1]
}

type fakeTranslator struct{ calls int }

func (f *fakeTranslator) Translate(_ context.Context, text, src, dst string) string {
	f.calls++
	return "[" + src + "->" + dst + "] " + text
}

type fixture struct {
	b       *Board
	speaker *fakeSpeaker
	tr      *fakeTranslator
	model   *suggest.Model
	hist    *history.Store
}

func newTestBoard(t *testing.T) *fixture {
	t.Helper()
	store := kv.NewMemory()
	t.Cleanup(func() { store.Close() })

	f := &fixture{
		speaker: &fakeSpeaker{},
		tr:      &fakeTranslator{},
		model:   suggest.New(store),
		hist:    history.New(store, 0),
	}
	f.b = New(catalog.New(), f.speaker, f.hist, f.model, f.tr, Config{DefaultLanguage: "fr"})
	return f
}

func ids(ps []catalog.Pictogram) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func TestAddCapturesLabelInLanguage(t *testing.T) {
	f := newTestBoard(t)
	ctx := context.Background()

	if _, err := f.b.Add(ctx, "1", "mg"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := f.b.Add(ctx, "15", ""); err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := f.b.Text(); got != "Noana aho Je veux de l'eau" {
		t.Errorf("text %q", got)
	}

	if _, err := f.b.Add(ctx, "999", "fr"); !errors.Is(err, ErrUnknownPictogram) {
		t.Errorf("expected ErrUnknownPictogram, got %v", err)
	}
	if len(f.b.Phrase()) != 2 {
		t.Error("unknown pictogram changed the phrase")
	}
}

func TestListenRecordsAndLearns(t *testing.T) {
	f := newTestBoard(t)
	ctx := context.Background()

	f.b.Add(ctx, "2", "fr")
	f.b.Add(ctx, "15", "fr")
	entry, err := f.b.Listen(ctx, "fr-FR")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	if got := f.speaker.last(); got != (spoken{"J'ai soif Je veux de l'eau", "fr"}) {
		t.Errorf("spoke %+v", got)
	}
	if entry.ID == "" || entry.Text != "J'ai soif Je veux de l'eau" || entry.Locale != "fr" {
		t.Errorf("entry %+v", entry)
	}
	if h := f.b.History(ctx); len(h) != 1 || h[0].ID != entry.ID {
		t.Errorf("history %+v", h)
	}
	if got := f.model.Suggest(ctx, "2", 0); !reflect.DeepEqual(got, []string{"15"}) {
		t.Errorf("learned %v", got)
	}
	if len(f.b.Phrase()) != 2 {
		t.Error("listen must keep the phrase")
	}
}

func TestListenEmptyIsNoop(t *testing.T) {
	f := newTestBoard(t)
	entry, err := f.b.Listen(context.Background(), "fr")
	if err != nil || entry.ID != "" {
		t.Errorf("got %+v, %v", entry, err)
	}
	if len(f.speaker.said) != 0 {
		t.Error("empty phrase was spoken")
	}
}

func TestFailedSpeakRecordsNothing(t *testing.T) {
	f := newTestBoard(t)
	ctx := context.Background()
	boom := errors.New("no backend")
	f.speaker.err = boom

	f.b.Add(ctx, "1", "fr")
	f.b.Add(ctx, "10", "fr")
	if _, err := f.b.SpeakAndClear(ctx, "fr"); !errors.Is(err, boom) {
		t.Fatalf("expected speak error, got %v", err)
	}
	if len(f.b.History(ctx)) != 0 {
		t.Error("failed speak was recorded")
	}
	if got := f.model.Suggest(ctx, "1", 0); len(got) != 0 {
		t.Errorf("failed speak was learned: %v", got)
	}
	if len(f.b.Phrase()) != 2 {
		t.Error("phrase cleared after a failed speak")
	}
}

func TestSpeakAndClear(t *testing.T) {
	f := newTestBoard(t)
	ctx := context.Background()

	f.b.Add(ctx, "4", "en")
	if _, err := f.b.SpeakAndClear(ctx, "en"); err != nil {
		t.Fatalf("speak and clear: %v", err)
	}
	if len(f.b.Phrase()) != 0 || f.b.Suggestions(ctx) != nil {
		t.Error("phrase not cleared")
	}
}

func TestSuggestionsFollowUsage(t *testing.T) {
	f := newTestBoard(t)
	ctx := context.Background()

	for _, seq := range [][]string{{"1", "13"}, {"1", "13"}, {"1", "10"}, {"1", "gone"}} {
		if err := f.model.Learn(ctx, seq); err != nil {
			t.Fatalf("learn: %v", err)
		}
	}

	next, err := f.b.Add(ctx, "1", "fr")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := ids(next); !reflect.DeepEqual(got, []string{"13", "10"}) {
		t.Errorf("suggestions %v", got)
	}
	if got := ids(f.b.Suggestions(ctx)); !reflect.DeepEqual(got, []string{"13", "10"}) {
		t.Errorf("suggestions for last %v", got)
	}

	f.b.Add(ctx, "13", "fr")
	f.b.RemoveLast()
	if got := ids(f.b.Suggestions(ctx)); !reflect.DeepEqual(got, []string{"13", "10"}) {
		t.Errorf("suggestions after remove %v", got)
	}
}

func TestSayText(t *testing.T) {
	f := newTestBoard(t)
	ctx := context.Background()

	entry, err := f.b.SayText(ctx, "  I want water ", "en", "fr")
	if err != nil {
		t.Fatalf("say: %v", err)
	}
	want := "[en->fr] I want water"
	if got := f.speaker.last(); got != (spoken{want, "fr"}) {
		t.Errorf("spoke %+v", got)
	}
	if entry.Text != want || entry.Locale != "fr" {
		t.Errorf("entry %+v", entry)
	}

	f.b.SayText(ctx, "bonjour", "fr", "fr")
	if f.tr.calls != 1 {
		t.Errorf("same-language text was translated")
	}
	if entry, _ := f.b.SayText(ctx, "   ", "fr", "en"); entry.ID != "" {
		t.Error("blank text recorded")
	}
}

func TestReplay(t *testing.T) {
	f := newTestBoard(t)
	ctx := context.Background()

	entry, _ := f.hist.Record(ctx, "Misaotra", "mg")
	got, err := f.b.Replay(ctx, entry.ID)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if got.ID != entry.ID || f.speaker.last() != (spoken{"Misaotra", "mg"}) {
		t.Errorf("replayed %+v, spoke %+v", got, f.speaker.last())
	}
	if len(f.b.History(ctx)) != 1 {
		t.Error("replay must not add history")
	}
	if _, err := f.b.Replay(ctx, "missing"); !errors.Is(err, ErrUnknownEntry) {
		t.Errorf("expected ErrUnknownEntry, got %v", err)
	}

	if err := f.b.ClearHistory(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(f.b.History(ctx)) != 0 {
		t.Error("history not cleared")
	}
}

func TestNilTranslator(t *testing.T) {
	store := kv.NewMemory()
	b := New(catalog.New(), &fakeSpeaker{}, history.New(store, 0), suggest.New(store), nil, Config{})
	if got := b.Translate(context.Background(), "bonjour", "fr", "en"); got != "bonjour" {
		t.Errorf("got %q", got)
	}
}
