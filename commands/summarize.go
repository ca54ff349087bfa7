package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"repominer/ai"
	"repominer/config"
	"repominer/export"
	"repominer/github"
	"repominer/ratelimit"
	"repominer/stats"
)

func newSummarizeCmd() *cobra.Command {
	var (
		commitsPath string
		issuesPath  string
		repo        string
		max         int
		useAI       bool
	)

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Summarize commit and issue activity",
		Long: `Summarize commit and issue activity, either from CSV files produced by
fetch-commits/fetch-issues or live from the API with --repo. With --ai
an additional narrative report is generated via OpenAI.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fromFiles := commitsPath != "" || issuesPath != ""
			if fromFiles == (repo != "") {
				return clierrInvalid("either --commits/--issues or --repo must be given")
			}
			if fromFiles && (commitsPath == "" || issuesPath == "") {
				return clierrInvalid("--commits and --issues must be given together")
			}

			var act github.Activity
			var err error
			if fromFiles {
				if act.Commits, err = export.ReadCommits(commitsPath); err != nil {
					return err
				}
				if act.Issues, err = export.ReadIssues(issuesPath); err != nil {
					return err
				}
			} else {
				cfg, err := config.NewLoader(envPrefix).Load()
				if err != nil {
					return err
				}
				client, err := github.NewClient(cmd.Context(), &cfg)
				if err != nil {
					return withExitCode(err)
				}
				act, err = client.FetchActivity(cmd.Context(), repo, github.FetchOptions{
					Max: maxOption(cmd, max),
				})
				if err != nil {
					return withExitCode(err)
				}
			}

			stats.Render(cmd.OutOrStdout(), stats.Summarize(act.Commits, act.Issues))

			if useAI {
				return renderAIReport(cmd, repo, act)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&commitsPath, "commits", "", "path to a commits CSV file")
	cmd.Flags().StringVar(&issuesPath, "issues", "", "path to an issues CSV file")
	cmd.Flags().StringVar(&repo, "repo", "", "summarize live from the API for this owner/name")
	cmd.Flags().IntVar(&max, "max", 0, "maximum records per stream in --repo mode (default: all)")
	cmd.Flags().BoolVar(&useAI, "ai", false, "also produce an AI narrative report")

	return cmd
}

func renderAIReport(cmd *cobra.Command, repo string, act github.Activity) error {
	cfg, err := config.NewLoader(envPrefix).Load()
	if err != nil {
		return err
	}
	if cfg.OpenaiApiKey == "" {
		return withExitCode(fmt.Errorf("%w: OPENAI_API_KEY is not set", github.ErrAuthentication))
	}

	limiter := ratelimit.New(cfg.GithubRateLimit, cfg.OpenaiRateLimit)
	report, err := ai.SummarizeActivity(cmd.Context(), cfg.OpenaiApiKey, limiter, ai.ReportJob{
		Repo:    repo,
		Commits: act.Commits,
		Issues:  act.Issues,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n%s\n", report.Headline)
	for _, h := range report.Highlights {
		fmt.Fprintf(out, "- %s\n", h)
	}
	for _, c := range report.Contributors {
		fmt.Fprintf(out, "  %s: %d commits\n", c.Name, c.Commits)
	}
	return nil
}

func clierrInvalid(msg string) error {
	return withExitCode(fmt.Errorf("%w: %s", github.ErrInvalidArgument, msg))
}
