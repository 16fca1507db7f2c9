package main

import (
	"fmt"
	"time"

	"jobcoach/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an access token for local testing",
	RunE:  runToken,
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().String("user", "", "candidate user id")
	tokenCmd.Flags().Duration("ttl", time.Hour, "token lifetime")
	_ = tokenCmd.MarkFlagRequired("user")
}

func runToken(cmd *cobra.Command, _ []string) error {
	raw, _ := cmd.Flags().GetString("user")
	ttl, _ := cmd.Flags().GetDuration("ttl")

	id, err := uuid.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid --user: %w", err)
	}

	cfg, _, err := setup()
	if err != nil {
		return err
	}

	tok, err := jwt.NewHMACService(cfg.JWT.AccessSecret).GenerateAccessToken(id, ttl)
	if err != nil {
		return fmt.Errorf("issue token (is JWT_ACCESS_SECRET set?): %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
	return err
}
