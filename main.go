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
	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Storefront backend: catalog, carts and orders over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Server
	root.AddCommand(newServeCmd())
	root.AddCommand(newWorkerCmd())

	// Database
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newSeedCmd())
	root.AddCommand(newReindexCmd())

	// Operator tools
	root.AddCommand(newHashAdminKeyCmd())
	root.AddCommand(newDevTokenCmd())
	return root
}
