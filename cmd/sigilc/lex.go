package main

import "github.com/spf13/cobra"

func newLexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lex <file>",
		Short: "emit the token stream for a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, d := readSource(args[0])
			if d != nil {
				return writeEnvelope(failed("lex", d))
			}
			toks, d := lexSource(src)
			if d != nil {
				return writeEnvelope(failed("lex", d))
			}
			return writeEnvelope(ok("lex", toks))
		},
	}
}
