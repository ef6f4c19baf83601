package main

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sigil-lang/sigilc/internal/config"
	"github.com/sigil-lang/sigilc/internal/emit"
	"github.com/sigil-lang/sigilc/internal/extern"
	"github.com/sigil-lang/sigilc/internal/graph"
	"github.com/sigil-lang/sigilc/internal/semmap"
)

type compileData struct {
	OutputFile string `json:"outputFile"`
	MapFile    string `json:"mapFile"`
}

func newCompileCmd() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "compile <file>",
		Short: "run the full pipeline and emit target code plus a semantic map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := runCompile(args[0], outPath)
			if err != nil {
				return err
			}
			return writeEnvelope(env)
		},
	}
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output file path (defaults to the input file with a .js extension)")
	return cmd
}

func runCompile(inputPath, outPath string) (Envelope, error) {
	src, d := readSource(inputPath)
	if d != nil {
		return failed("compile", d), nil
	}

	dir := filepath.Dir(inputPath)
	cfg, cfgErr := config.Load(dir)
	if cfgErr != nil {
		return failed("compile", diagFromErr("SIGIL-CONFIG-INVALID", cfgErr)), nil
	}

	stdlibDir := cfg.SrcDir()
	if len(importDirs) > 0 {
		stdlibDir = importDirs[0]
	}

	driver := &graph.Driver{Resolver: graph.Resolver{SrcDir: cfg.SrcDir(), StdlibDir: stdlibDir}}
	entryPath := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	g, dg := driver.Discover(entryPath, src)
	if dg != nil {
		return failed("compile", dg), nil
	}
	if _, dg := driver.Compile(g); dg != nil {
		return failed("compile", dg), nil
	}

	entryMod := g.Modules[g.Order[len(g.Order)-1]]

	loader := extern.FileLoader{SrcDir: cfg.SrcDir()}
	if dg := extern.NewValidator(loader).Validate(entryMod.File); dg != nil {
		return failed("compile", dg), nil
	}

	jsOut := emit.EmitFile(entryMod.File, emit.Options{})

	if outPath == "" {
		outPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".js"
	}
	mapPath := strings.TrimSuffix(outPath, filepath.Ext(outPath)) + ".mint.map"

	if err := writeTextFile(outPath, jsOut); err != nil {
		return failed("compile", diagFromErr("SIGIL-CODEGEN-WRITE-FAILED", err)), nil
	}

	sm := semmap.Build(entryMod.File, inputPath, "")
	if err := semmap.Write(mapPath, sm); err != nil {
		return failed("compile", diagFromErr("SIGIL-CODEGEN-WRITE-FAILED", err)), nil
	}

	return ok("compile", compileData{OutputFile: outPath, MapFile: mapPath}), nil
}
