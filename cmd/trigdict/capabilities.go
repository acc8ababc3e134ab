package main

import (
	"github.com/spf13/cobra"

	"github.com/trigedasleng/trigdict/pkg/db"
)

func (a *app) capabilitiesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "capabilities",
		Short: "Show which collections the store provides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl := a.table("Collection", "Group", "Present")
			for _, c := range db.CoreCollections {
				tbl.AddRow(c, "core", a.caps.Has(c))
			}
			for _, c := range db.CommunityCollections {
				tbl.AddRow(c, "community", a.caps.Has(c))
			}
			tbl.Print()
			return nil
		},
	}
}
