package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"wordtap/dictionary"
	"wordtap/metrics"
	"wordtap/server"
	"wordtap/store"
	"wordtap/store/db"
)

func newServeCommand(cli *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the wordtap REST API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			st, err := cli.openStore(ctx, true)
			if err != nil {
				return err
			}
			defer st.Close()

			a, err := cli.newAnnotator(st, metrics.Default(), true)
			if err != nil {
				return err
			}
			srv := server.New(cli.profile, st, a,
				server.WithGatherer(prometheus.DefaultGatherer),
				server.WithLogger(cli.logger),
			)
			return srv.Start(ctx)
		},
	}
}

// openStore opens the configured driver. With seed set, the configured
// dictionary file is upserted into it.
func (c *CLI) openStore(ctx context.Context, seed bool) (*store.Store, error) {
	driver, err := db.NewDBDriver(c.profile)
	if err != nil {
		return nil, err
	}
	st := store.New(driver)
	if !seed || c.profile.DictionaryFile == "" {
		return st, nil
	}

	words, err := dictionary.Load(c.profile.DictionaryFile)
	if err != nil {
		st.Close()
		return nil, err
	}
	n, err := st.Seed(ctx, words)
	if err != nil {
		st.Close()
		return nil, errors.Wrap(err, "failed to seed store")
	}
	c.logger.Info("seeded vocabulary", slog.String("file", c.profile.DictionaryFile), slog.Int("words", n))
	return st, nil
}
