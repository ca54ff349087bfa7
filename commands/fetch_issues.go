package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"repominer/config"
	"repominer/export"
	"repominer/github"
)

func newFetchIssuesCmd() *cobra.Command {
	var (
		repo  string
		state string
		max   int
		out   string
	)

	cmd := &cobra.Command{
		Use:   "fetch-issues",
		Short: "Fetch issues (excluding pull requests) and save to CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewLoader(envPrefix).Load()
			if err != nil {
				return err
			}
			client, err := github.NewClient(cmd.Context(), &cfg)
			if err != nil {
				return withExitCode(err)
			}

			records, err := client.FetchIssues(cmd.Context(), repo, github.FetchOptions{
				Max:   maxOption(cmd, max),
				State: state,
			})
			if err != nil {
				return withExitCode(err)
			}
			if err := export.WriteIssues(out, records); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saved %d issues to %s\n", len(records), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&repo, "repo", "", "repository as owner/name")
	cmd.Flags().StringVar(&state, "state", "all", "issue state filter: all, open or closed")
	cmd.Flags().IntVar(&max, "max", 0, "maximum number of issues to fetch (default: all)")
	cmd.Flags().StringVar(&out, "out", "", "output CSV path")
	_ = cmd.MarkFlagRequired("repo")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}
