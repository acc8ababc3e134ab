package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/trigedasleng/trigdict/pkg/logging"
	"github.com/trigedasleng/trigdict/pkg/migrate"
	"github.com/trigedasleng/trigdict/pkg/sqldump"
)

func (a *app) loadDump(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Dump.Timeout)
	defer cancel()
	a.log.Info("loading dump", "location", a.cfg.Dump.Location)
	return sqldump.Load(ctx, a.cfg.Dump.Location, &http.Client{})
}

func (a *app) migrator() *migrate.Migrator {
	return migrate.New(a.conn, migrate.Options{
		BatchSize:       a.cfg.Migrate.BatchSize,
		Workers:         a.cfg.Migrate.Workers,
		DedupeSentences: a.cfg.Migrate.DedupeSentences,
		Seasons:         a.cfg.Seed.Seasons,
		Speakers:        a.cfg.Seed.Speakers,
		Logger:          logging.ForService("migrate"),
	})
}

func (a *app) printSummaries(sums ...migrate.Summary) {
	tbl := a.table("Table", "Processed", "Added", "Skipped", "Linked", "Warnings")
	for _, s := range sums {
		tbl.AddRow(s.Table, s.Processed, s.Added, s.Skipped, s.Linked, s.Warnings)
	}
	tbl.Print()
}

func (a *app) migrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate a legacy SQL dump into the store",
		Long: "Seeds the fixed dictionaries, classifications, series, seasons and speakers, then\n" +
			"resolves dict_sources, dict_words and dict_translations in that order.\n" +
			"Rerunning is safe for every entity except sentences, which are appended\n" +
			"unless --dedupe-sentences is set.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireCore(); err != nil {
				return err
			}
			dump, err := a.loadDump(cmd.Context())
			if err != nil {
				return err
			}
			sums, err := a.migrator().Run(cmd.Context(), dump)
			if len(sums) > 0 {
				a.printSummaries(sums...)
			}
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.Int("batch-size", 0, "Rows committed per transaction")
	f.Int("workers", 0, "Tables tokenized concurrently")
	f.Bool("dedupe-sentences", false, "Reuse identical sentences instead of appending them")
	f.Int("seasons", 0, "Seasons seeded for the series")
	a.bind("migrate.batch_size", f.Lookup("batch-size"))
	a.bind("migrate.workers", f.Lookup("workers"))
	a.bind("migrate.dedupe_sentences", f.Lookup("dedupe-sentences"))
	a.bind("seed.seasons", f.Lookup("seasons"))
	return cmd
}

func (a *app) fixOtherCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix-other",
		Short: "Add missing sentences of legacy rows whose episode is \"other\"",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireCore(); err != nil {
				return err
			}
			dump, err := a.loadDump(cmd.Context())
			if err != nil {
				return err
			}
			sum, err := a.migrator().FixOther(cmd.Context(), dump)
			a.printSummaries(sum)
			return err
		},
	}
	return cmd
}
