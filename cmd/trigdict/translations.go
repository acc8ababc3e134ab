package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trigedasleng/trigdict/pkg/translations"
)

func (a *app) translationsCommand() *cobra.Command {
	var season, search string
	var pages int
	cmd := &cobra.Command{
		Use:   "translations",
		Short: "List translated sentences by episode",
		Long: "Shows the sentences of the first episodes of a season, two episodes per page.\n" +
			"--season other lists sentences heard in no known episode.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireCore(); err != nil {
				return err
			}
			items, err := translations.Load(a.conn)
			if err != nil {
				return err
			}
			catalog, err := translations.LoadCatalog(a.conn)
			if err != nil {
				return err
			}
			p := translations.NewPager(catalog)
			if err := p.Select(season); err != nil {
				return err
			}
			for i := 1; i < pages && p.HasMore(); i++ {
				p.LoadMore()
			}

			for _, g := range p.Render(items, search) {
				fmt.Fprintf(a.out, "\n%s\n", g.Label)
				tbl := a.table("Trigedasleng", "English", "Leipzig")
				for _, it := range g.Items {
					tbl.AddRow(it.Trigedasleng, it.English, it.Leipzig)
				}
				tbl.Print()
			}
			if p.HasMore() {
				fmt.Fprintf(a.out, "\nMore episodes available; use --pages %d.\n", pages+1)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&season, "season", "", "Season key (01, 02, ...) or \"other\"")
	cmd.Flags().StringVar(&search, "search", "", "Only sentences containing this text")
	cmd.Flags().IntVar(&pages, "pages", 1, "Pages of two episodes to show")
	cmd.AddCommand(a.translationsAddCommand())
	return cmd
}
