// Command reactivefont runs a headless world with the reactive font plugin and validates preset
// files.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "reactivefont",
		Short:        "Keep text styles in sync with named font presets",
		SilenceUsage: true,
	}

	root.AddCommand(newRunCmd())
	root.AddCommand(newPresetsCmd())
	return root
}
