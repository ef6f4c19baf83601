// Package config loads the project configuration:
// a `{ "layout": { "src", "tests", "out" } }` contract, conventionally
// stored as `sigil.json` or (optionally) `sigil.yaml`.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// Layout is the project's directory contract: where source modules,
// test fixtures, and emitted output live, all relative to the config
// file's own directory.
type Layout struct {
	Src   string `json:"src" yaml:"src"`
	Tests string `json:"tests" yaml:"tests"`
	Out   string `json:"out" yaml:"out"`
}

// Project is the top-level project configuration.
type Project struct {
	Layout Layout `json:"layout" yaml:"layout"`

	// dir is the directory the config file was loaded from; Layout
	// paths are resolved relative to it.
	dir string
}

func defaultLayout() Layout {
	return Layout{Src: "src", Tests: "tests", Out: "out"}
}

// Load reads `sigil.json` (preferred) or `sigil.yaml` from dir,
// falling back to Layout's defaults (src/tests/out) when neither file
// exists - a bare `sigilc compile` in a directory with no config file
// is not an error.
func Load(dir string) (*Project, error) {
	jsonPath := filepath.Join(dir, "sigil.json")
	if data, err := os.ReadFile(jsonPath); err == nil {
		var p Project
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", jsonPath, err)
		}
		p.dir = dir
		p.fillDefaults()
		return &p, nil
	}

	yamlPath := filepath.Join(dir, "sigil.yaml")
	if data, err := os.ReadFile(yamlPath); err == nil {
		var p Project
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", yamlPath, err)
		}
		p.dir = dir
		p.fillDefaults()
		return &p, nil
	}

	p := &Project{Layout: defaultLayout(), dir: dir}
	return p, nil
}

func (p *Project) fillDefaults() {
	def := defaultLayout()
	if p.Layout.Src == "" {
		p.Layout.Src = def.Src
	}
	if p.Layout.Tests == "" {
		p.Layout.Tests = def.Tests
	}
	if p.Layout.Out == "" {
		p.Layout.Out = def.Out
	}
}

// SrcDir, TestsDir, and OutDir resolve the project's layout directories
// as absolute paths rooted at the config file's own directory.
func (p *Project) SrcDir() string   { return filepath.Join(p.dir, p.Layout.Src) }
func (p *Project) TestsDir() string { return filepath.Join(p.dir, p.Layout.Tests) }
func (p *Project) OutDir() string   { return filepath.Join(p.dir, p.Layout.Out) }
