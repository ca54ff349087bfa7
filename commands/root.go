// Package commands wires the repominer CLI surface.
package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"repominer/clierr"
	"repominer/github"
)

// envPrefix namespaces repominer's own environment variables;
// credentials like GITHUB_TOKEN and OPENAI_API_KEY are read unprefixed.
const envPrefix = "RM"

func NewRootCmd() *cobra.Command {
	version := os.Getenv("RM_VERSION")
	if version == "" {
		version = "0.0.0-dev"
	}

	cmd := &cobra.Command{
		Use:           "repominer",
		Short:         "repominer - fetch GitHub commits and issues, export CSV, summarize activity",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the repominer version",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "repominer version %s\n", version)
		},
	})

	cmd.AddCommand(newFetchCommitsCmd())
	cmd.AddCommand(newFetchIssuesCmd())
	cmd.AddCommand(newSummarizeCmd())

	return cmd
}

// withExitCode maps the fetch error taxonomy onto process exit codes.
func withExitCode(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, github.ErrInvalidArgument):
		return clierr.Code(2, err)
	case errors.Is(err, github.ErrAuthentication):
		return clierr.Code(3, err)
	case errors.Is(err, github.ErrNotFound):
		return clierr.Code(4, err)
	case errors.Is(err, github.ErrTransient):
		return clierr.Code(5, err)
	default:
		return err
	}
}

// maxOption turns the --max flag into the optional bound: unset means
// fetch everything.
func maxOption(cmd *cobra.Command, max int) *int {
	if !cmd.Flags().Changed("max") {
		return nil
	}
	return &max
}
