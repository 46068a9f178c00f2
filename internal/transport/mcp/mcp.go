// Package mcp exposes the board as Model Context Protocol tools over stdio,
// so an assistant can speak for the user, read the history and suggest the
// next pictogram.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nadzzz/talkboard/internal/message"
	"github.com/nadzzz/talkboard/internal/transport"
)

// Transport implements transport.Transport over MCP stdio.
type Transport struct {
	cancel context.CancelFunc
}

// New creates the MCP transport.
func New() *Transport {
	return &Transport{}
}

// Name returns the transport identifier.
func (t *Transport) Name() string { return "mcp" }

// Listen serves tools on stdin/stdout until the context is cancelled or the
// client disconnects.
func (t *Transport) Listen(ctx context.Context, svc *transport.Service) error {
	ctx, t.cancel = context.WithCancel(ctx)
	slog.Info("mcp transport serving on stdio")
	if err := NewServer(svc).Run(ctx, &sdk.StdioTransport{}); err != nil && ctx.Err() == nil {
		return fmt.Errorf("mcp serve: %w", err)
	}
	return nil
}

// Close stops serving.
func (t *Transport) Close() error {
	if t.cancel != nil {
		t.cancel()
	}
	return nil
}

// NewServer builds an MCP server with the talkboard tools registered.
func NewServer(svc *transport.Service) *sdk.Server {
	server := sdk.NewServer(&sdk.Implementation{
		Name:    "talkboard",
		Version: svc.Version,
	}, nil)
	h := &tools{svc: svc}

	sdk.AddTool(server, &sdk.Tool{
		Name:        "speak",
		Description: "Speak text aloud on the board, stopping anything already playing. Set from to translate first.",
	}, h.speak)
	sdk.AddTool(server, &sdk.Tool{
		Name:        "stop",
		Description: "Stop speaking immediately.",
	}, h.stop)
	sdk.AddTool(server, &sdk.Tool{
		Name:        "suggest",
		Description: "List the pictograms the user most often taps after the given pictogram.",
	}, h.suggest)
	sdk.AddTool(server, &sdk.Tool{
		Name:        "history",
		Description: "List recently spoken phrases, newest first.",
	}, h.history)
	sdk.AddTool(server, &sdk.Tool{
		Name:        "translate",
		Description: "Translate text between fr, en, ar and mg. Returns the input when no translation is available.",
	}, h.translate)

	return server
}

// SpeakArgs are the arguments of the speak tool.
type SpeakArgs struct {
	Text string `json:"text" jsonschema:"the text to say"`
	Lang string `json:"lang,omitempty" jsonschema:"language to speak in, e.g. fr or mg"`
	From string `json:"from,omitempty" jsonschema:"language the text is written in, when it needs translating"`
}

// StopArgs are the arguments of the stop tool.
type StopArgs struct{}

// SuggestArgs are the arguments of the suggest tool.
type SuggestArgs struct {
	After string `json:"after" jsonschema:"pictogram id"`
}

// HistoryArgs are the arguments of the history tool.
type HistoryArgs struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of entries, 0 for all"`
}

// TranslateArgs are the arguments of the translate tool.
type TranslateArgs struct {
	Text   string `json:"text"`
	Source string `json:"source" jsonschema:"language of text"`
	Target string `json:"target" jsonschema:"language to translate into"`
}

type tools struct {
	svc *transport.Service
}

func jsonResult(v any) (*sdk.CallToolResult, any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding result: %w", err)
	}
	return &sdk.CallToolResult{
		Content: []sdk.Content{&sdk.TextContent{Text: string(data)}},
	}, nil, nil
}

func (h *tools) speak(ctx context.Context, req *sdk.CallToolRequest, args SpeakArgs) (*sdk.CallToolResult, any, error) {
	from := args.From
	if from == "" {
		from = args.Lang
	}
	entry, err := h.svc.Board.SayText(ctx, args.Text, from, args.Lang)
	if err != nil {
		return nil, nil, err
	}
	return jsonResult(message.NewSpeakResult(entry))
}

func (h *tools) stop(ctx context.Context, req *sdk.CallToolRequest, _ StopArgs) (*sdk.CallToolResult, any, error) {
	if err := h.svc.Speech.Stop(ctx); err != nil {
		return nil, nil, err
	}
	return jsonResult(h.svc.Speech.Status())
}

func (h *tools) suggest(ctx context.Context, req *sdk.CallToolRequest, args SuggestArgs) (*sdk.CallToolResult, any, error) {
	return jsonResult(h.svc.Board.SuggestAfter(ctx, args.After))
}

func (h *tools) history(ctx context.Context, req *sdk.CallToolRequest, args HistoryArgs) (*sdk.CallToolResult, any, error) {
	entries := h.svc.Board.History(ctx)
	if args.Limit > 0 && len(entries) > args.Limit {
		entries = entries[:args.Limit]
	}
	return jsonResult(entries)
}

func (h *tools) translate(ctx context.Context, req *sdk.CallToolRequest, args TranslateArgs) (*sdk.CallToolResult, any, error) {
	return jsonResult(message.TranslateResult{Text: h.svc.Board.Translate(ctx, args.Text, args.Source, args.Target)})
}
