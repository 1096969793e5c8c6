package main

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"cryptoscholar/internal/highlight"
	"cryptoscholar/internal/render"
	"cryptoscholar/internal/service"
)

func (c *cli) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List articles with progress and highlight counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			articles, err := c.app.Reader.ListArticles(cmd.Context())
			if err != nil {
				return err
			}
			tw := newTable(cmd)
			fmt.Fprintln(tw, "SLUG\tTITLE\tSECTION\tREAD\tHIGHLIGHTS")
			for _, a := range articles {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", a.Slug, a.Title, a.Source, yesNo(a.Completed), a.HighlightCount)
			}
			return tw.Flush()
		},
	}
}

func (c *cli) renderCmd() *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "render SLUG",
		Short: "Print an article's rendered HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if plain {
				_, out, err := c.app.Library.Rendered(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			}
			view, err := c.app.Reader.ViewArticle(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), view.HTML)
			for _, h := range view.Highlights {
				if h.Outcome != highlight.OutcomeApplied {
					fmt.Fprintf(cmd.ErrOrStderr(), "highlight %s not applied: %s\n", h.ID, h.Outcome)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "Render without stored highlights")
	return cmd
}

func (c *cli) highlightsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "highlights",
		Short: "Manage stored highlights",
	}

	var (
		text, before, after string
		start, end          int
	)
	add := &cobra.Command{
		Use:   "add SLUG",
		Short: "Add a highlight by text or by character offsets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := service.HighlightRequest{Text: text, ContextBefore: before, ContextAfter: after}
			if cmd.Flags().Changed("start") || cmd.Flags().Changed("end") {
				req.Start, req.End = &start, &end
			}
			res, err := c.app.Reader.AddHighlight(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}
			state := "created"
			if !res.Created {
				state = "exists"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s [%d,%d) %q\n", state, res.Anchor.ID, res.Range.Start, res.Range.End, res.Anchor.Text)
			if !res.Persisted {
				return fmt.Errorf("highlight %s was not saved", res.Anchor.ID)
			}
			return nil
		},
	}
	add.Flags().StringVar(&text, "text", "", "Text to highlight")
	add.Flags().StringVar(&before, "before", "", "Text preceding the highlight")
	add.Flags().StringVar(&after, "after", "", "Text following the highlight")
	add.Flags().IntVar(&start, "start", 0, "Start character offset in the article's text")
	add.Flags().IntVar(&end, "end", 0, "End character offset in the article's text")

	list := &cobra.Command{
		Use:   "list SLUG",
		Short: "List highlights and whether they still apply",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := c.app.Reader.ViewArticle(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			tw := newTable(cmd)
			fmt.Fprintln(tw, "ID\tOUTCOME\tTEXT")
			for _, h := range view.Highlights {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", h.ID, h.Outcome, strconv.Quote(h.Text))
			}
			return tw.Flush()
		},
	}

	remove := &cobra.Command{
		Use:   "remove SLUG ID",
		Short: "Remove one highlight",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			persisted, err := c.app.Reader.RemoveHighlight(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[1])
			return notSaved(persisted)
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear SLUG",
		Short: "Remove every highlight of an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			persisted, err := c.app.Reader.ClearHighlights(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", args[0])
			return notSaved(persisted)
		},
	}

	cmd.AddCommand(add, list, remove, clearCmd)
	return cmd
}

func (c *cli) resolveCmd() *cobra.Command {
	var before, after string
	var explain bool
	cmd := &cobra.Command{
		Use:   "resolve SLUG TEXT",
		Short: "Show where a highlight with this text and context would be placed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, out, err := c.app.Library.Rendered(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			root, err := render.ParseFragment(out)
			if err != nil {
				return err
			}
			idx := highlight.Extract(root)
			anchor := highlight.Anchor{Text: args[1], ContextBefore: before, ContextAfter: after}

			rng, ok := highlight.Resolve(idx, anchor)
			if !ok {
				return fmt.Errorf("%q does not occur in %s", args[1], args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "resolved [%d,%d)\n", idx.RuneOffset(rng.Start), idx.RuneOffset(rng.End))

			if !explain {
				return nil
			}
			tw := newTable(cmd)
			fmt.Fprintln(tw, "\tSTART\tEND\tSCORE\tCONTEXT")
			for _, cand := range highlight.Candidates(idx, anchor) {
				mark := ""
				if cand.Range == rng {
					mark = "*"
				}
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n", mark,
					idx.RuneOffset(cand.Range.Start), idx.RuneOffset(cand.Range.End), cand.Score,
					strconv.Quote(surrounding(idx.Text, cand.Range)))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&before, "before", "", "Text preceding the highlight")
	cmd.Flags().StringVar(&after, "after", "", "Text following the highlight")
	cmd.Flags().BoolVar(&explain, "explain", false, "List every occurrence with its context score")
	return cmd
}

func (c *cli) progressCmd() *cobra.Command {
	var toggle bool
	cmd := &cobra.Command{
		Use:   "progress SLUG",
		Short: "Show or toggle an article's read state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if toggle {
				res, err := c.app.Reader.ToggleCompleted(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s read: %s\n", args[0], yesNo(res.Completed))
				return notSaved(res.Persisted)
			}
			p, err := c.app.Reader.GetProgress(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s read: %s\n", args[0], yesNo(p.PageCompleted))
			if len(p.CompletedSections) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "sections: %s\n", strings.Join(p.CompletedSections, ", "))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&toggle, "toggle", false, "Toggle the read state")
	return cmd
}

// surrounding returns rng with a few characters of context on each side.
func surrounding(text string, rng highlight.Range) string {
	const pad = 12
	lo, hi := rng.Start, rng.End
	for n := 0; n < pad && lo > 0; n++ {
		lo--
		for lo > 0 && !utf8.RuneStart(text[lo]) {
			lo--
		}
	}
	for n := 0; n < pad && hi < len(text); n++ {
		hi++
		for hi < len(text) && !utf8.RuneStart(text[hi]) {
			hi++
		}
	}
	return text[lo:rng.Start] + "[" + text[rng.Start:rng.End] + "]" + text[rng.End:hi]
}

func notSaved(persisted bool) error {
	if persisted {
		return nil
	}
	return fmt.Errorf("change applied in memory but not saved")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
