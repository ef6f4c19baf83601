package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sigil-lang/sigilc/internal/diag"
)

// nodeTestResult is one __sigil_tests entry's outcome as the harness
// script below reports it; status and failure come from the emitted
// __sigil_test_*_result builders, durationMs is timed by the script.
type nodeTestResult struct {
	Name       string          `json:"name"`
	Status     string          `json:"status"`
	DurationMs int64           `json:"durationMs"`
	Failure    *TestFailure    `json:"failure,omitempty"`
	Assertion  *Assertion      `json:"assertion,omitempty"`
}

const testHarnessScript = `
import('./%s').then(async (m) => {
  const tests = m.__sigil_tests || [];
  const out = [];
  for (const t of tests) {
    const started = process.hrtime.bigint();
    try {
      const r = await t.run();
      const ended = process.hrtime.bigint();
      out.push({
        name: t.name,
        status: r.status,
        durationMs: Number(ended - started) / 1e6,
        failure: r.failure || undefined,
      });
    } catch (e) {
      const ended = process.hrtime.bigint();
      out.push({
        name: t.name,
        status: "error",
        durationMs: Number(ended - started) / 1e6,
        failure: { kind: "exception", message: String(e && e.message || e) },
      });
    }
  }
  console.log(JSON.stringify(out));
}).catch((e) => { console.error(String(e)); process.exit(1); });
`

func newTestCmd() *cobra.Command {
	var nodeBin string
	cmd := &cobra.Command{
		Use:   "test <file>",
		Short: "compile a file's tests and execute its __sigil_tests via a Node.js-compatible runtime",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := runCompile(args[0], "")
			if err != nil {
				return err
			}
			if !env.OK {
				return writeEnvelope(env)
			}
			data := env.Data.(compileData)

			var stdout, stderr bytes.Buffer
			script := fmt.Sprintf(testHarnessScript, filepath.Base(data.OutputFile))
			c := exec.Command(nodeBin, "--input-type=module", "-e", script)
			c.Stdout = &stdout
			c.Stderr = &stderr
			c.Dir = filepath.Dir(data.OutputFile)
			if runErr := c.Run(); runErr != nil {
				return writeEnvelope(failed("test", diagFromErr("SIGIL-RUN-FAILED", errWithStderr(runErr, stderr.String()))))
			}

			var nodeResults []nodeTestResult
			if err := json.Unmarshal(stdout.Bytes(), &nodeResults); err != nil {
				return writeEnvelope(failed("test", diag.New(diag.PhaseCodegen, "SIGIL-RUN-BAD-OUTPUT", err.Error())))
			}

			results := make([]TestResult, len(nodeResults))
			summary := Summary{Files: 1}
			for i, r := range nodeResults {
				results[i] = TestResult{
					ID:         args[0] + "#" + r.Name,
					File:       args[0],
					Name:       r.Name,
					Status:     r.Status,
					DurationMs: r.DurationMs,
					Failure:    r.Failure,
				}
				switch r.Status {
				case "pass":
					summary.Passed++
				case "fail":
					summary.Failed++
				default:
					summary.Errored++
				}
			}
			summary.Discovered = len(results)
			summary.Selected = len(results)

			return writeEnvelope(Envelope{
				FormatVersion: envelopeFormatVersion,
				Command:       "test",
				OK:            true,
				Summary:       &summary,
				Results:       results,
			})
		},
	}
	cmd.Flags().StringVar(&nodeBin, "node", "node", "path to the Node.js-compatible binary used to execute emitted tests")
	return cmd
}
