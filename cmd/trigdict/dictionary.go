package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trigedasleng/trigdict/pkg/dictionary"
)

func (a *app) dictionaryCommand() *cobra.Command {
	var q, class string
	cmd := &cobra.Command{
		Use:   "dictionary [canon|slakkru|slakgedasleng|noncanon]",
		Short: "List dictionary words grouped by first letter",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireCore(); err != nil {
				return err
			}
			scope := ""
			if len(args) == 1 {
				scope = args[0]
			}
			entries, err := dictionary.Load(a.conn, scope)
			if err != nil {
				return err
			}
			sections := dictionary.Group(dictionary.Filter(entries, q, class))
			if len(sections) == 0 {
				fmt.Fprintln(a.out, "No words found.")
				return nil
			}
			for _, s := range sections {
				fmt.Fprintf(a.out, "\n%s\n", s.Letter)
				tbl := a.table("Word", "Translation", "Etymology", "Dictionary")
				for _, e := range s.Entries {
					tbl.AddRow(e.Word, e.Translation, e.Etymology, e.Dictionary)
				}
				tbl.Print()
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&q, "query", "q", "", "Search words and translations")
	cmd.Flags().StringVar(&class, "class", "all", "Word class filter: "+strings.Join(dictionary.WordClasses, ", "))
	cmd.AddCommand(a.dictionaryAddCommand())
	return cmd
}

func (a *app) wordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "word <value>",
		Short: "Show a word in every dictionary with example sentences",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireCore(); err != nil {
				return err
			}
			d, err := dictionary.Lookup(a.conn, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, d.Word)
			tbl := a.table("Dictionary", "Translation", "Etymology", "Noncanon")
			for _, e := range d.Entries {
				tbl.AddRow(e.Dictionary, e.Translation, e.Etymology, e.Noncanon())
			}
			tbl.Print()
			if len(d.Examples) > 0 {
				fmt.Fprintln(a.out, "\nExamples")
				ex := a.table("Trigedasleng", "English")
				for _, s := range d.Examples {
					ex.AddRow(s.Value, s.English)
				}
				ex.Print()
			}
			return nil
		},
	}
}

func (a *app) searchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search words and sentences",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireCore(); err != nil {
				return err
			}
			res, err := dictionary.Search(a.conn, args[0])
			if err != nil {
				return err
			}
			if len(res.Words) == 0 && len(res.Sentences) == 0 {
				fmt.Fprintf(a.out, "No results for %q.\n", res.Query)
				return nil
			}
			if len(res.Words) > 0 {
				fmt.Fprintln(a.out, "Words")
				tbl := a.table("Word", "Translation", "Dictionary")
				for _, e := range res.Words {
					tbl.AddRow(e.Word, e.Translation, e.Dictionary)
				}
				tbl.Print()
			}
			if len(res.Sentences) > 0 {
				fmt.Fprintln(a.out, "Translations")
				tbl := a.table("Trigedasleng", "English")
				for _, s := range res.Sentences {
					tbl.AddRow(s.Value, s.English)
				}
				tbl.Print()
			}
			return nil
		},
	}
}

func (a *app) learnCommand() *cobra.Command {
	var group string
	var reveal bool
	cmd := &cobra.Command{
		Use:   "learn",
		Short: "Draw a random flashcard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireCore(); err != nil {
				return err
			}
			entries, err := dictionary.Load(a.conn, "")
			if err != nil {
				return err
			}
			decks := dictionary.Decks(entries)
			for _, d := range decks {
				if d.Group != group {
					continue
				}
				card, err := d.Draw(nil)
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, card.Word)
				if reveal {
					fmt.Fprintf(a.out, "  %s\n", card.Translation)
				}
				return nil
			}
			groups := make([]string, 0, len(decks))
			for _, d := range decks {
				groups = append(groups, d.Group)
			}
			return fmt.Errorf("no %q deck; available: %s: %w", group, strings.Join(groups, ", "), dictionary.ErrEmptyDeck)
		},
	}
	cmd.Flags().StringVar(&group, "group", "all", "Word class deck to draw from")
	cmd.Flags().BoolVar(&reveal, "reveal", false, "Print the answer under the card")
	return cmd
}
