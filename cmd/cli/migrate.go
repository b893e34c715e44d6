package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
)

// Dump is the export/import file format.
type Dump struct {
	Profiles []domain.Profile `json:"profiles"`
	Links    []domain.Link    `json:"links"`
}

func (c *cli) exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write every profile and link as JSON to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			profiles, err := c.repo.DumpProfiles(ctx)
			if err != nil {
				return fmt.Errorf("export profiles: %w", err)
			}
			links, err := c.repo.DumpLinks(ctx)
			if err != nil {
				return fmt.Errorf("export links: %w", err)
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(Dump{Profiles: profiles, Links: links})
		},
	}
}

func (c *cli) importCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Restore profiles and links from an export, skipping existing IDs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open %s: %w", file, err)
			}
			defer f.Close()

			var dump Dump
			if err := json.NewDecoder(f).Decode(&dump); err != nil {
				return fmt.Errorf("decode %s: %w", file, err)
			}

			var profiles, links int
			for i := range dump.Profiles {
				p := &dump.Profiles[i]
				existing, err := c.repo.GetProfile(ctx, p.ID)
				if err != nil {
					return err
				}
				if existing != nil {
					log.Info().Str("profile_id", p.ID).Msg("skipping existing profile")
					continue
				}
				if err := c.repo.CreateProfile(ctx, p); err != nil {
					log.Warn().Err(err).Str("profile_id", p.ID).Msg("failed to import profile")
					continue
				}
				profiles++
			}

			for i := range dump.Links {
				l := &dump.Links[i]
				existing, err := c.repo.GetLink(ctx, l.ID)
				if err != nil {
					return err
				}
				if existing != nil {
					log.Info().Str("link_id", l.ID).Msg("skipping existing link")
					continue
				}
				if err := c.repo.CreateLink(ctx, l); err != nil {
					log.Warn().Err(err).Str("link_id", l.ID).Msg("failed to import link")
					continue
				}
				links++
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d profiles and %d links\n", profiles, links)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "JSON file to import")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
