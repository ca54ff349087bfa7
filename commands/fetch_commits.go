package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"repominer/config"
	"repominer/export"
	"repominer/github"
)

func newFetchCommitsCmd() *cobra.Command {
	var (
		repo string
		max  int
		out  string
	)

	cmd := &cobra.Command{
		Use:   "fetch-commits",
		Short: "Fetch commits and save to CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewLoader(envPrefix).Load()
			if err != nil {
				return err
			}
			client, err := github.NewClient(cmd.Context(), &cfg)
			if err != nil {
				return withExitCode(err)
			}

			records, err := client.FetchCommits(cmd.Context(), repo, github.FetchOptions{
				Max: maxOption(cmd, max),
			})
			if err != nil {
				return withExitCode(err)
			}
			if err := export.WriteCommits(out, records); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saved %d commits to %s\n", len(records), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&repo, "repo", "", "repository as owner/name")
	cmd.Flags().IntVar(&max, "max", 0, "maximum number of commits to fetch (default: all)")
	cmd.Flags().StringVar(&out, "out", "", "output CSV path")
	_ = cmd.MarkFlagRequired("repo")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}
