package main

import (
	"encoding/json"
	"fmt"

	"domainintel/internal/config"

	"github.com/spf13/cobra"
)

func creditsCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "credits",
		Short: "Reports the remaining quota of the contact providers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newComponents(cfg, nil)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(c.enricher.Credits(cmd.Context())); err != nil {
				return fmt.Errorf("could not write credits: %w", err)
			}

			return nil
		},
	}
}
