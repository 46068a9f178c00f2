package mcp

import (
	"context"
	"encoding/json"
	"testing"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nadzzz/talkboard/internal/catalog"
	"github.com/nadzzz/talkboard/internal/history"
	"github.com/nadzzz/talkboard/internal/message"
	"github.com/nadzzz/talkboard/internal/transport/transporttest"
)

func connect(t *testing.T) (*sdk.ClientSession, *transporttest.Env) {
	t.Helper()
	env := transporttest.New(t)
	ctx := context.Background()

	serverT, clientT := sdk.NewInMemoryTransports()
	ss, err := NewServer(env.Service).Connect(ctx, serverT, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	t.Cleanup(func() { ss.Close() })

	client := sdk.NewClient(&sdk.Implementation{Name: "test", Version: "v0"}, nil)
	cs, err := client.Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { cs.Close() })
	return cs, env
}

func call(t *testing.T, cs *sdk.ClientSession, name string, args map[string]any, out any) {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &sdk.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	if res.IsError {
		t.Fatalf("%s: tool error %+v", name, res.Content)
	}
	if len(res.Content) != 1 {
		t.Fatalf("%s: expected one content item, got %d", name, len(res.Content))
	}
	text, ok := res.Content[0].(*sdk.TextContent)
	if !ok {
		t.Fatalf("%s: unexpected content %T", name, res.Content[0])
	}
	if err := json.Unmarshal([]byte(text.Text), out); err != nil {
		t.Fatalf("%s: decoding %q: %v", name, text.Text, err)
	}
}

func TestToolsAreListed(t *testing.T) {
	cs, _ := connect(t)
	res, err := cs.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	got := map[string]bool{}
	for _, tool := range res.Tools {
		got[tool.Name] = true
	}
	for _, name := range []string{"speak", "stop", "suggest", "history", "translate"} {
		if !got[name] {
			t.Errorf("tool %q not registered", name)
		}
	}
}

func TestSpeakStopHistory(t *testing.T) {
	cs, env := connect(t)

	var res message.SpeakResult
	call(t, cs, "speak", map[string]any{"text": "Misaotra", "lang": "mg"}, &res)
	if !res.Spoken || res.Entry.Text != "Misaotra" {
		t.Fatalf("speak %+v", res)
	}
	if env.Player.Playing() != 1 {
		t.Errorf("expected playback, got %d sounds playing", env.Player.Playing())
	}

	var st message.Status
	call(t, cs, "stop", map[string]any{}, &st)
	if st.Speaking || env.Player.Playing() != 0 {
		t.Errorf("stop %+v", st)
	}

	call(t, cs, "speak", map[string]any{"text": "hello", "lang": "mg", "from": "en"}, &res)
	var entries []history.Entry
	call(t, cs, "history", map[string]any{"limit": 1}, &entries)
	if len(entries) != 1 || entries[0].Text != "mg:hello" {
		t.Errorf("history %+v", entries)
	}
}

func TestSuggestAndTranslate(t *testing.T) {
	cs, env := connect(t)
	ctx := context.Background()

	b := env.Service.Board
	b.Add(ctx, "1", "fr")
	b.Add(ctx, "13", "fr")
	if _, err := b.Listen(ctx, "fr"); err != nil {
		t.Fatalf("listen: %v", err)
	}

	var next []catalog.Pictogram
	call(t, cs, "suggest", map[string]any{"after": "1"}, &next)
	if len(next) != 1 || next[0].ID != "13" {
		t.Errorf("suggest %+v", next)
	}

	var tr message.TranslateResult
	call(t, cs, "translate", map[string]any{"text": "bonjour", "source": "fr", "target": "en"}, &tr)
	if tr.Text != "en:bonjour" {
		t.Errorf("translate %q", tr.Text)
	}
}
