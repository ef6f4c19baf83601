// Package extern implements the link-time extern validator: for each
// ExternDecl it loads a structural stand-in for the host module it
// binds and verifies every namespace-member access the program makes
// against it.
//
// Dynamically loading the referenced host module isn't available from
// Go, so the host module is represented here by a JSON manifest file
// (conventionally `<extern-path>.extern.json`, resolved relative to
// the project's `layout.src`) declaring the host module's exported
// member names and arities - the structural stand-in for introspecting
// a live JS module.
package extern

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Member is one exported name a host module manifest declares.
type Member struct {
	Name  string `json:"name"`
	Arity int    `json:"arity"`
}

// Manifest is the decoded `<host-path>.extern.json` contents.
type Manifest struct {
	HostPath string   `json:"-"`
	Members  []Member `json:"members"`
}

// Has reports whether name is among the manifest's exported members.
func (m *Manifest) Has(name string) bool {
	if m == nil {
		return false
	}
	for _, mem := range m.Members {
		if mem.Name == name {
			return true
		}
	}
	return false
}

// Names returns every exported member name, in manifest order.
func (m *Manifest) Names() []string {
	if m == nil {
		return nil
	}
	names := make([]string, len(m.Members))
	for i, mem := range m.Members {
		names[i] = mem.Name
	}
	return names
}

// Loader loads the manifest for a given ExternDecl host path. The
// compiler's only production implementation is FileLoader; tests
// substitute the in-memory StaticLoader.
type Loader interface {
	Load(hostPath string) (*Manifest, error)
}

// FileLoader resolves `<hostPath>.extern.json` under SrcDir.
type FileLoader struct {
	SrcDir string
}

func (f FileLoader) Load(hostPath string) (*Manifest, error) {
	full := filepath.Join(f.SrcDir, hostPath+".extern.json")
	raw, err := os.ReadFile(full)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	m.HostPath = hostPath
	return &m, nil
}

// StaticLoader is a fixed in-memory Loader, used by tests that need no
// manifest files on disk.
type StaticLoader map[string]*Manifest

func (s StaticLoader) Load(hostPath string) (*Manifest, error) {
	m, ok := s[hostPath]
	if !ok {
		return nil, os.ErrNotExist
	}
	return m, nil
}
