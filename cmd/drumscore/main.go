// Command drumscore validates drum analyses and renders them to MusicXML
// or MIDI from the command line.
//
// Usage:
//
//	drumscore validate analysis.json
//	drumscore render analysis.json -o drums.musicxml [--strict]
//	drumscore midi analysis.json -o drums.mid
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var strict bool

	root := &cobra.Command{
		Use:           "drumscore",
		Short:         "Convert quantized drum analyses to notation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if !cmd.Flags().Changed("strict") && os.Getenv("NOTATION_STRICT_INSTRUMENTS") == "true" {
				strict = true
			}
		},
	}
	root.PersistentFlags().BoolVar(&strict, "strict", false, "reject events with unknown instruments")

	root.AddCommand(
		newValidateCmd(&strict),
		newRenderCmd(&strict),
		newMIDICmd(&strict),
	)

	root.SetErr(os.Stderr)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return err
	})
	return root
}
