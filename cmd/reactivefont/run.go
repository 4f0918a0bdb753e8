package main

import (
	"github.com/argus-labs/reactive-font/pkg/app"
	"github.com/argus-labs/reactive-font/pkg/log"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var opts app.Options

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the headless demo world",
		Long: `Run a world with the reactive font plugin and a set of demo texts. The default preset's
colour cycles through a palette while the world ticks.

Settings not given as flags are read from APP_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := app.New(opts)
			if err != nil {
				return err
			}
			if err := setupDemo(a.World(), a.Registry()); err != nil {
				return eris.Wrap(err, "failed to set up demo")
			}

			if err := a.Run(cmd.Context()); err != nil {
				return err
			}

			// Dump the final state of every text.
			logger := a.World().Logger()
			ws := a.World().State()
			for _, eid := range ws.Entities() {
				log.Entity(logger, zerolog.InfoLevel, ws, eid)
			}
			log.Presets(logger, a.Registry(), zerolog.InfoLevel)
			return nil
		},
	}

	cmd.Flags().Uint64Var(&opts.MaxTicks, "ticks", 0, "stop after this many ticks (0 runs until interrupted)")
	cmd.Flags().StringVar(&opts.PresetsFile, "presets", "", "TOML preset file (default: built-in demo presets)")
	cmd.Flags().Float64Var(&opts.TickRate, "tick-rate", 0, "ticks per second (default: APP_TICK_RATE)")
	cmd.Flags().StringVar(&opts.DebugAddress, "debug-address", "", "serve the debug HTTP API on this address")
	return cmd
}

