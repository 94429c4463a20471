package main

import (
	"encoding/json"
	"fmt"

	"domainintel/internal/config"

	"github.com/spf13/cobra"
)

func verifyCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <email>",
		Short: "Checks whether an email address is deliverable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newComponents(cfg, nil)
			if err != nil {
				return err
			}

			verdict, err := c.enricher.VerifyEmail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := json.NewEncoder(cmd.OutOrStdout()).Encode(verdict); err != nil {
				return fmt.Errorf("could not write verdict: %w", err)
			}

			return nil
		},
	}
}
