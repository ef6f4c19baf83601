package main

import "github.com/spf13/cobra"

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>",
		Short: "emit the parsed AST for a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, d := readSource(args[0])
			if d != nil {
				return writeEnvelope(failed("parse", d))
			}
			file, d := parseSource(src)
			if d != nil {
				return writeEnvelope(failed("parse", d))
			}
			return writeEnvelope(ok("parse", file))
		},
	}
}
