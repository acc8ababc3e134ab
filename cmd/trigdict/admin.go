package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trigedasleng/trigdict/pkg/admin"
	"github.com/trigedasleng/trigdict/pkg/sources"
	"github.com/trigedasleng/trigdict/pkg/translations"
)

func (a *app) dictionaryAddCommand() *cobra.Command {
	var w admin.Word
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a word with its English translation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireCore(); err != nil {
				return err
			}
			r, err := admin.New(a.conn).AddWord(cmd.Context(), w)
			if err != nil {
				return err
			}
			if !r.Created {
				fmt.Fprintf(a.out, "%s already in %s.\n", w.Trigedasleng, r.Dictionary)
				return nil
			}
			fmt.Fprintf(a.out, "Added %s to %s.\n", w.Trigedasleng, r.Dictionary)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&w.Trigedasleng, "word", "", "Trigedasleng word")
	f.StringVar(&w.Translation, "translation", "", "English translation")
	f.StringVar(&w.Classification, "class", "", "Word class, or none")
	f.StringVar(&w.Etymology, "etymology", "", "Etymology")
	f.StringVar(&w.DictionaryType, "dictionary-type", "canon", "canon, slakgedasleng or noncanon")
	f.StringVar(&w.SourceURL, "source", "", "Source url")
	return cmd
}

func (a *app) translationsAddCommand() *cobra.Command {
	var s admin.Sentence
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a translated sentence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireCore(); err != nil {
				return err
			}
			r, err := admin.New(a.conn).AddSentence(cmd.Context(), s)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, r.SentenceID)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&s.Trigedasleng, "trigedasleng", "", "Trigedasleng sentence")
	f.StringVar(&s.Translation, "translation", "", "English translation")
	f.StringVar(&s.Etymology, "etymology", "", "Etymology")
	f.StringVar(&s.Leipzig, "leipzig", "", "Leipzig glossing")
	f.StringVar(&s.Audio, "audio", "", "Audio url")
	f.StringVar(&s.Episode, "episode", admin.OtherEpisode, "Episode code (SSEE) or other")
	f.StringVar(&s.Speaker, "speaker", "", "Speaker, requires an episode")
	f.StringVar(&s.SourceURL, "source", "", "Source url")
	return cmd
}

func (a *app) translationCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "translation <id>",
		Short: "Show a translated sentence with its source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireCore(); err != nil {
				return err
			}
			d, err := translations.Get(a.conn, args[0])
			if err != nil {
				return err
			}
			tbl := a.table("Field", "Value")
			tbl.AddRow("Trigedasleng", d.Trigedasleng)
			tbl.AddRow("English", d.English)
			tbl.AddRow("Episode", d.Episode)
			if d.Etymology != "" {
				tbl.AddRow("Etymology", d.Etymology)
			}
			if d.Leipzig != "" {
				tbl.AddRow("Leipzig", d.Leipzig)
			}
			if d.Audio != "" {
				tbl.AddRow("Audio", d.Audio)
			}
			if d.Source != nil {
				src := sources.FromSource(*d.Source)
				tbl.AddRow("Source", src.Title)
				tbl.AddRow("Author", src.Author)
				tbl.AddRow("Date", src.Date)
				tbl.AddRow("URL", src.URL)
			}
			tbl.Print()
			return nil
		},
	}
}
