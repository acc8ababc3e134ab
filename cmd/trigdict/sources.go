package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trigedasleng/trigdict/pkg/sources"
)

func (a *app) sourcesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "List and enrich sources",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List sources, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireCore(); err != nil {
				return err
			}
			entries, err := sources.List(a.conn)
			if err != nil {
				return err
			}
			tbl := a.table("Date", "Author", "Title", "URL")
			for _, e := range entries {
				tbl.AddRow(e.Date, e.Author, e.Title, e.URL)
			}
			tbl.Print()
			return nil
		},
	}

	enrich := &cobra.Command{
		Use:   "enrich",
		Short: "Fill missing source titles and authors from their pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireCore(); err != nil {
				return err
			}
			e := sources.NewEnricher(a.conn, a.cfg.Sources.Timeout, a.cfg.Sources.UserAgent)
			rep, err := e.Enrich(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Checked %d sources: %d updated, %d failed.\n", rep.Checked, rep.Updated, rep.Failed)
			return nil
		},
	}

	cmd.AddCommand(list, enrich)
	return cmd
}
