package main

import (
	"encoding/json"
	"fmt"

	"jobcoach/internal/app"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Print the recommendation set for one candidate as JSON",
	RunE:  runRecommend,
}

func init() {
	rootCmd.AddCommand(recommendCmd)
	recommendCmd.Flags().String("user", "", "candidate user id (empty for an anonymous caller)")
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	raw, _ := cmd.Flags().GetString("user")

	var userID *uuid.UUID
	if raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid --user: %w", err)
		}
		userID = &id
	}

	cfg, l, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()

	c, err := app.NewContainer(cmd.Context(), cfg, l)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	pc, recs := c.Recommender.Recommend(cmd.Context(), userID)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(map[string]any{
		"skills":              pc.Skills,
		"preferred_locations": pc.PreferredLocations,
		"jobs":                recs.Jobs,
		"companies":           recs.Companies,
	})
}
