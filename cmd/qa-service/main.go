// Command qa-service runs the question and answer HTTP API.
//
//	qa-service serve     migrate, then serve until SIGINT/SIGTERM (default)
//	qa-service migrate   apply database migrations and exit
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	serve := newServeCmd()

	root := &cobra.Command{
		Use:           "qa-service",
		Short:         "Question and answer HTTP API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}

	root.AddCommand(serve, newMigrateCmd())
	return root
}
