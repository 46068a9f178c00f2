package cli

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nadzzz/talkboard/internal/history"
)

func init() {
	speak := &cobra.Command{
		Use:   "speak <text>...",
		Short: "Speak text aloud and wait until it has been said",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSpeak,
	}
	speak.Flags().StringP("lang", "l", "", "language to speak in (default: tts.default_language)")
	speak.Flags().String("from", "", "language the text is written in; translated when it differs from --lang")
	RootCmd.AddCommand(speak)

	say := &cobra.Command{
		Use:   "say <pictogram-id>...",
		Short: "Compose a phrase from pictograms, speak it and learn the sequence",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSay,
	}
	say.Flags().StringP("lang", "l", "", "language to speak in (default: tts.default_language)")
	RootCmd.AddCommand(say)
}

// speakAndWait runs one speaking operation on a freshly built app and
// blocks until playback ends. Ctrl-C stops the voice.
func speakAndWait(cmd *cobra.Command, do func(ctx context.Context, a *app) (history.Entry, error)) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	a.initOffline(ctx)

	events, unsubscribe := a.speech.Subscribe()
	defer unsubscribe()

	entry, err := do(ctx, a)
	if err != nil {
		return err
	}
	a.waitIdle(ctx, events)
	if entry.ID != "" {
		fmt.Fprintln(cmd.OutOrStdout(), entry.ID)
	}
	return nil
}

func runSpeak(cmd *cobra.Command, args []string) error {
	lang, _ := cmd.Flags().GetString("lang")
	from, _ := cmd.Flags().GetString("from")
	if from == "" {
		from = lang
	}
	text := strings.Join(args, " ")
	return speakAndWait(cmd, func(ctx context.Context, a *app) (history.Entry, error) {
		return a.board.SayText(ctx, text, from, lang)
	})
}

func runSay(cmd *cobra.Command, args []string) error {
	lang, _ := cmd.Flags().GetString("lang")
	return speakAndWait(cmd, func(ctx context.Context, a *app) (history.Entry, error) {
		for _, id := range args {
			if _, err := a.board.Add(ctx, id, lang); err != nil {
				return history.Entry{}, err
			}
		}
		return a.board.SpeakAndClear(ctx, lang)
	})
}
