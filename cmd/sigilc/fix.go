package main

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/sigil-lang/sigilc/internal/diag"
)

type fixData struct {
	Applied   int  `json:"applied"`
	Converged bool `json:"converged"`
}

// newFixCmd applies every Fixit carried by a single diagnostic to the
// source file in place, then re-validates. A diagnostic with no Fixits
// is reported unchanged; Fixits only ever reshape text (reordering,
// renaming, whitespace), never program semantics, so re-running the
// same stage after applying them is always safe.
func newFixCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fix <file>",
		Short: "apply a diagnostic's fixits to the source file and re-validate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			applied := 0

			for {
				src, d := readSource(path)
				if d != nil {
					return writeEnvelope(failed("fix", d))
				}

				if _, pd := parseSource(src); pd != nil {
					d = pd
				} else if _, cd := checkSource(src, false, nil, nil); cd != nil {
					d = cd
				} else {
					return writeEnvelope(ok("fix", fixData{Applied: applied, Converged: true}))
				}

				if len(d.Fixits) == 0 {
					return writeEnvelope(failed("fix", d))
				}
				fixed := applyFixits(src, d.Fixits)
				if fixed == src {
					return writeEnvelope(failed("fix", d))
				}
				if err := writeTextFile(path, fixed); err != nil {
					return writeEnvelope(failed("fix", diagFromErr("SIGIL-CODEGEN-WRITE-FAILED", err)))
				}
				applied++
			}
		},
	}
}

// applyFixits rewrites src by replacing each Fixit's byte span with its
// replacement text, applying spans in reverse offset order so earlier
// edits never invalidate later ones' offsets.
func applyFixits(src string, fixits []diag.Fixit) string {
	sorted := append([]diag.Fixit{}, fixits...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Span.Start.Offset > sorted[j].Span.Start.Offset
	})
	out := src
	for _, f := range sorted {
		start, end := f.Span.Start.Offset, f.Span.End.Offset
		if start < 0 || end > len(out) || start > end {
			continue
		}
		out = out[:start] + f.Replacement + out[end:]
	}
	return out
}
