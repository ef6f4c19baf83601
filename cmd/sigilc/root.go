package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/sigil-lang/sigilc/internal/diag"
)

var (
	importDirs []string
	outputFormat string
	humanMode    bool
)

// noUsageError suppresses cobra's default usage dump for errors that
// already carry their own envelope.
type noUsageError struct{ error }

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sigilc",
		Short: "Compiler front end for the Sigil language",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringArrayVarP(&importDirs, "import-dir", "I", nil, "additional module search directories")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "json", "output format for debug dumps: json or yaml")
	cmd.PersistentFlags().BoolVar(&humanMode, "human", false, "render a failed command's diagnostic as colored text (without a source excerpt) instead of the JSON envelope")

	cmd.AddCommand(newLexCmd())
	cmd.AddCommand(newParseCmd())
	cmd.AddCommand(newCompileCmd())
	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newTestCmd())
	cmd.AddCommand(newFixCmd())
	return cmd
}

// writeEnvelope prints env to stdout as the single required JSON
// object (or, with --format=yaml, the supplemented debug form), and
// returns an error iff env.OK is false - the command's exit code is
// derived from this, not from any write failure. With --human, a
// failed envelope's diagnostic is printed as colored text instead.
func writeEnvelope(env Envelope) error {
	if humanMode && !env.OK && env.Error != nil {
		diag.RenderHuman(os.Stdout, &diag.Diagnostic{
			Code: env.Error.Code, Phase: diag.Phase(env.Error.Phase), Message: env.Error.Message,
			Span: env.Error.Location, Found: env.Error.Found, Expected: env.Error.Expected,
			Fixits: env.Error.Fixits, Suggestions: env.Error.Suggestions,
		}, "")
		return noUsageError{fmt.Errorf("%s", env.Error.Message)}
	}
	var out []byte
	var err error
	switch outputFormat {
	case "yaml":
		out, err = yaml.Marshal(env)
	default:
		out, err = json.MarshalIndent(env, "", "  ")
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(out))
	if !env.OK {
		return noUsageError{fmt.Errorf("%s", env.Error.Message)}
	}
	return nil
}
