package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nadzzz/talkboard/internal/catalog"
	"github.com/nadzzz/talkboard/internal/message"
)

func init() {
	suggestCmd := &cobra.Command{
		Use:   "suggest <pictogram-id>",
		Short: "List the pictograms most often chosen after a pictogram",
		Args:  cobra.ExactArgs(1),
		RunE:  runSuggest,
	}
	RootCmd.AddCommand(suggestCmd)

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List spoken phrases, newest first",
		Args:  cobra.NoArgs,
		RunE:  runHistory,
	}
	historyCmd.Flags().IntP("limit", "n", 0, "max entries (0 for all)")
	historyCmd.Flags().Bool("clear", false, "delete the history instead of listing it")
	RootCmd.AddCommand(historyCmd)

	voicesCmd := &cobra.Command{
		Use:   "voices [lang voice-id]",
		Short: "List installed voices, or set the preferred voice for a language",
		Long: `Without arguments, lists the voices of the platform engine and the
preferred voice per locale. With a language and voice id, stores that voice as
the preference for the language; an empty voice id clears it.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("expected no arguments or <lang> <voice-id>, got %d", len(args))
			}
			return nil
		},
		RunE: runVoices,
	}
	RootCmd.AddCommand(voicesCmd)

	translateCmd := &cobra.Command{
		Use:   "translate <text>...",
		Short: "Translate text through the cache and configured providers",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runTranslate,
	}
	translateCmd.Flags().String("from", "fr", "source language")
	translateCmd.Flags().String("to", "en", "target language")
	RootCmd.AddCommand(translateCmd)

	RootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "talkboard %s\n", Version)
		},
	})
}

// withApp runs fn against an app that is closed afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	a, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		if _, ok := a.board.Catalog().Get(args[0]); !ok {
			return fmt.Errorf("pictogram %q: %w", args[0], catalog.ErrNotFound)
		}
		next := a.board.SuggestAfter(ctx, args[0])
		if next == nil {
			next = []catalog.Pictogram{}
		}
		return printJSON(cmd.OutOrStdout(), next)
	})
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	wipe, _ := cmd.Flags().GetBool("clear")
	return withApp(cmd, func(ctx context.Context, a *app) error {
		if wipe {
			return a.board.ClearHistory(ctx)
		}
		entries := a.board.History(ctx)
		if limit > 0 && len(entries) > limit {
			entries = entries[:limit]
		}
		for _, e := range entries {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n",
				e.ID, e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Locale, e.Text)
		}
		return nil
	})
}

func runVoices(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		if len(args) == 2 {
			return a.speech.SetVoiceForLocale(ctx, args[0], args[1])
		}
		voices, err := a.speech.ListVoices(ctx)
		if err != nil {
			return fmt.Errorf("listing voices: %w", err)
		}
		return printJSON(cmd.OutOrStdout(), message.Voices{Voices: voices, VoiceMap: a.speech.VoiceMap()})
	})
}

func runTranslate(cmd *cobra.Command, args []string) error {
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	text := strings.Join(args, " ")
	return withApp(cmd, func(ctx context.Context, a *app) error {
		fmt.Fprintln(cmd.OutOrStdout(), a.board.Translate(ctx, text, from, to))
		return nil
	})
}
