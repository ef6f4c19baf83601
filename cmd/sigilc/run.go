package main

import (
	"bytes"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"
)

type runData struct {
	Stdout string `json:"stdout"`
}

func newRunCmd() *cobra.Command {
	var nodeBin string
	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "compile then execute main() via a Node.js-compatible runtime",
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

			script := "import('./" + data.OutputFile + "').then(async (m) => {" +
				"if (typeof m.main === 'function') { const r = await m.main(); " +
				"if (r !== undefined) { console.log(JSON.stringify(r)); } } " +
				"}).catch((e) => { console.error(String(e)); process.exit(1); });"

			var stdout, stderr bytes.Buffer
			c := exec.Command(nodeBin, "--input-type=module", "-e", script)
			c.Stdout = &stdout
			c.Stderr = &stderr
			if err := c.Run(); err != nil {
				return writeEnvelope(failed("run", diagFromErr("SIGIL-RUN-FAILED", errWithStderr(err, stderr.String()))))
			}
			return writeEnvelope(ok("run", runData{Stdout: strings.TrimRight(stdout.String(), "\n")}))
		},
	}
	cmd.Flags().StringVar(&nodeBin, "node", "node", "path to the Node.js-compatible binary used to execute emitted code")
	return cmd
}

func errWithStderr(err error, stderr string) error {
	if stderr == "" {
		return err
	}
	return &execError{underlying: err, stderr: stderr}
}

type execError struct {
	underlying error
	stderr     string
}

func (e *execError) Error() string {
	return e.underlying.Error() + ": " + e.stderr
}
