package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/smith3v/trade-prompts/pkg/catalog"
	"github.com/smith3v/trade-prompts/pkg/clipboard"
	"github.com/smith3v/trade-prompts/pkg/instrument"
)

var (
	listCategory   string
	listSearch     string
	listInstrument string

	copySuggested  bool
	copyInstrument string
	copyPrint      bool

	favoriteSuggested bool

	createFields catalog.PromptFields
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List prompts of a category",
	Example: `  trade-prompts list
  trade-prompts list --category favorites
  trade-prompts list --category suggested --search strong --instrument XAU/USD`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		category, ok := catalog.ParseCategory(listCategory)
		if !ok {
			return fmt.Errorf("unknown category %q", listCategory)
		}
		symbol, err := parseInstrument(listInstrument)
		if err != nil {
			return err
		}
		view := catalog.View{Category: category, Search: listSearch, Instrument: symbol}
		entries := svc.Visible(view)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tFAV\tUSES\tCATEGORY\tTITLE")
		for _, e := range entries {
			fav := ""
			if e.IsFavorite() {
				fav = "*"
			}
			title := e.Title
			if e.Adopted != nil {
				title += fmt.Sprintf(" (mine: #%d)", e.Adopted.ID)
			}
			fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n", e.Ref.ID, fav, e.UsageCount(), e.Prompt.Category, title)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d prompts\n", len(entries), svc.Counts().For(category))
		return nil
	},
}

var copyCmd = &cobra.Command{
	Use:   "copy <id>",
	Short: "Render a prompt for an instrument and copy it to the clipboard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, err := parseRef(args[0], copySuggested)
		if err != nil {
			return err
		}
		symbol, err := parseInstrument(copyInstrument)
		if err != nil {
			return err
		}
		if symbol == "" {
			symbol = svc.DefaultInstrument()
		}

		var w clipboard.Writer = clipboard.System{}
		if copyPrint || !clipboard.Available() {
			w = clipboard.Discard{}
			copyPrint = true
		}
		result, err := svc.CopyPrompt(cmd.Context(), ref, symbol, w)
		if err != nil && !remoteOnly(cmd, err) {
			return err
		}
		if copyPrint {
			fmt.Fprintln(cmd.OutOrStdout(), result.Text)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Copied %q for %s.\n", instrument.RenderTitle(result.Prompt.Title, symbol), symbol)
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add <suggested-id>",
	Short: "Add a suggested prompt to my prompts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		prompt, err := svc.AddSuggested(cmd.Context(), id)
		if err != nil && !remoteOnly(cmd, err) {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %q as #%d.\n", prompt.Title, prompt.ID)
		return nil
	},
}

var favoriteCmd = &cobra.Command{
	Use:   "favorite <id>",
	Short: "Toggle the favorite flag of a prompt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, err := parseRef(args[0], favoriteSuggested)
		if err != nil {
			return err
		}
		prompt, err := svc.ToggleFavorite(cmd.Context(), ref)
		if err != nil && !remoteOnly(cmd, err) {
			return err
		}
		state := "no longer a favorite"
		if prompt.IsFavorite {
			state = "a favorite"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "#%d %q is %s.\n", prompt.ID, prompt.Title, state)
		return nil
	},
}

var createCmd = &cobra.Command{
	Use:     "create",
	Short:   "Create a prompt",
	Example: `  trade-prompts create --title "Breakout" --description "Find breakouts on [INSTRUMENT]" --tags "momentum, m15"`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt, err := svc.CreatePrompt(cmd.Context(), createFields)
		if err != nil && !remoteOnly(cmd, err) {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created #%d %q.\n", prompt.ID, prompt.Title)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one of my prompts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		deleted, err := svc.DeletePrompt(cmd.Context(), id)
		if err != nil && !remoteOnly(cmd, err) {
			return err
		}
		if !deleted {
			fmt.Fprintf(cmd.OutOrStdout(), "Prompt #%d not found.\n", id)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted #%d.\n", id)
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listCategory, "category", string(catalog.CategoryMine), "my-prompts, favorites, suggested or education")
	listCmd.Flags().StringVar(&listSearch, "search", "", "filter by title, description or tag")
	listCmd.Flags().StringVar(&listInstrument, "instrument", "", "instrument used to render titles (default from config)")

	copyCmd.Flags().BoolVar(&copySuggested, "suggested", false, "id refers to a suggested prompt")
	copyCmd.Flags().StringVar(&copyInstrument, "instrument", "", "instrument to render (default from config)")
	copyCmd.Flags().BoolVar(&copyPrint, "print", false, "print the rendered prompt instead of using the clipboard")

	favoriteCmd.Flags().BoolVar(&favoriteSuggested, "suggested", false, "id refers to a suggested prompt")

	createCmd.Flags().StringVar(&createFields.Title, "title", "", "prompt title")
	createCmd.Flags().StringVar(&createFields.Description, "description", "", "prompt text, use [INSTRUMENT] for the symbol")
	createCmd.Flags().StringVar(&createFields.Category, "category", "", "category (default Custom)")
	createCmd.Flags().StringVar(&createFields.Tags, "tags", "", "comma-separated tags")
	_ = createCmd.MarkFlagRequired("title")
	_ = createCmd.MarkFlagRequired("description")
}

func parseID(value string) (int, error) {
	id, err := strconv.Atoi(value)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid prompt id %q", value)
	}
	return id, nil
}

func parseRef(value string, suggested bool) (catalog.PromptRef, error) {
	id, err := parseID(value)
	if err != nil {
		return catalog.PromptRef{}, err
	}
	if suggested {
		return catalog.Suggested(id), nil
	}
	return catalog.Owned(id), nil
}

// parseInstrument accepts an empty value for the configured default.
func parseInstrument(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	symbol := instrument.Normalize(value)
	if !instrument.Known(symbol) {
		return "", fmt.Errorf("unknown instrument %q", value)
	}
	return symbol, nil
}
