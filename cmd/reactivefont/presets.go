package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/argus-labs/reactive-font/pkg/font"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

func newPresetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "Preset file subcommands",
	}
	cmd.AddCommand(newPresetsValidateCmd())
	return cmd
}

func newPresetsValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "validate <file>",
		Short:   "Check a TOML preset file and print its presets",
		Example: "reactivefont presets validate fonts.toml",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := font.LoadPresetsFile(args[0])
			if err != nil {
				return err
			}
			registry := font.NewRegistry()
			if err := file.Apply(registry); err != nil {
				return eris.Wrap(err, "invalid presets")
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tREGULAR\tSIZE\tCOLOR\tDEFAULT")
			for _, preset := range registry.Presets() {
				isDefault := ""
				if preset.Key == registry.DefaultKey() {
					isDefault = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%g\t%s\t%s\n",
					preset.Key, preset.Regular, preset.Size, preset.Color.Hex(), isDefault)
			}
			if err := w.Flush(); err != nil {
				return eris.Wrap(err, "failed to write presets")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d presets OK\n", args[0], registry.Len())
			return nil
		},
	}
}
