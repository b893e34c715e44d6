package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/wadjakorntonsri/linkbio/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/linkbio/pkg/config"
	"github.com/wadjakorntonsri/linkbio/pkg/logger"
)

// cli holds the store shared by every subcommand.
type cli struct {
	dbURL string
	repo  *sqlite.SQLiteRepository
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "linkbio",
		Short:         "Operator tooling for the link-in-bio store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			repo, err := sqlite.NewSQLiteRepository(c.dbURL)
			if err != nil {
				return err
			}
			c.repo = repo
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.repo == nil {
				return nil
			}
			return c.repo.Close()
		},
	}

	cfg := config.Load()
	root.PersistentFlags().StringVar(&c.dbURL, "db", cfg.DatabaseURL, "database URL (defaults to DATABASE_URL)")

	root.AddCommand(
		c.exportCmd(),
		c.importCmd(),
		c.linksCmd(),
	)
	return root
}

func main() {
	logger.Initialize(os.Getenv("LOG_LEVEL"), false)

	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
