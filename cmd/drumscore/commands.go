package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Conceptual-Machines/drumscore-api/internal/midiexport"
	"github.com/Conceptual-Machines/drumscore-api/internal/notation"
	"github.com/spf13/cobra"
)

// errInvalid marks a run that found validation defects; they are already printed
var errInvalid = errors.New("analysis document is invalid")

func newValidateCmd(strict *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check that an analysis document can be rendered",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return report(cmd, err)
			}

			result, _, err := notation.Inspect(data, notation.Options{StrictInstruments: *strict})
			if err != nil {
				return report(cmd, err)
			}
			if !result.OK {
				return report(cmd, &notation.InvalidInputError{Errors: result.Errors})
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✅ %s is valid\n", args[0])
			return nil
		},
	}
}

func newRenderCmd(strict *bool) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Render an analysis document to MusicXML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := notation.Options{StrictInstruments: *strict}
			doc, err := parseFile(args[0], opts)
			if err != nil {
				return report(cmd, err)
			}

			result, err := notation.RenderWithOptions(doc, opts)
			if err != nil {
				return report(cmd, err)
			}

			for _, s := range result.Skipped {
				fmt.Fprintf(cmd.ErrOrStderr(), "⚠️  event %d (bar %d, beat %d): unknown instrument %q dropped\n",
					s.Index, s.Bar, s.Beat, s.Instrument)
			}

			if err := writeOutput(cmd.OutOrStdout(), output, []byte(result.XML)); err != nil {
				return report(cmd, err)
			}
			if output != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "🎼 wrote %d measures, %d notes to %s\n", result.Measures, result.Notes, output)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newMIDICmd(strict *bool) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "midi FILE",
		Short: "Export an analysis document as a Standard MIDI File",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := notation.Options{StrictInstruments: *strict}
			doc, err := parseFile(args[0], opts)
			if err != nil {
				return report(cmd, err)
			}

			data, err := midiexport.Bytes(doc, opts)
			if err != nil {
				return report(cmd, err)
			}

			if err := writeOutput(cmd.OutOrStdout(), output, data); err != nil {
				return report(cmd, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "🎹 wrote %d bytes to %s\n", len(data), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output .mid file")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func parseFile(path string, opts notation.Options) (*notation.AnalysisDocument, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	return notation.Parse(data, opts)
}

// readInput reads path, or stdin when path is "-"
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// report prints err for the user and returns the error cobra exits with
func report(cmd *cobra.Command, err error) error {
	var invalid *notation.InvalidInputError
	if errors.As(err, &invalid) {
		for _, msg := range invalid.Errors {
			fmt.Fprintf(cmd.ErrOrStderr(), "❌ %s\n", msg)
		}
		return errInvalid
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "❌ %v\n", err)
	return err
}
