package engine

import (
	"github.com/divimode/bundlegen/internal/manifest"
)

type buildMetadata struct {
	Outputs map[string]outputInfo `json:"outputs"`
}

type outputInfo struct {
	EntryPoint string       `json:"entryPoint"`
	CSSBundle  string       `json:"cssBundle"`
	Imports    []importInfo `json:"imports"`
}

type importInfo struct {
	Path string `json:"path"`
	Kind string `json:"kind"`
}

// Preprocessor compiles a stylesheet before urls are rewritten, e.g. scss to css.
type Preprocessor func(path string, src []byte) ([]byte, error)

// Result describes the files written for one descriptor.
type Result struct {
	// Name is the build unit name
	Name string
	// Files are the absolute paths written, in esbuild output order
	Files []string
	// Scripts is the entry script followed by the chunks it imports,
	// relative to the output directory
	Scripts      []string
	Manifest     *manifest.Manifest
	ManifestPath string
}
