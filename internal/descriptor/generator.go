package descriptor

import (
	"path/filepath"

	"github.com/divimode/bundlegen/internal/naming"
)

// Vendor prefixes unit names and library globals.
const Vendor = "divimode"

const (
	minChunkSize = 20000
	maxChunkSize = 50000
)

// DefaultSharedEntries are the entries built from the shared root.
var DefaultSharedEntries = []string{"lib", "dashboard", "rich-text-editor", "admin"}

// Generator produces descriptors relative to a fixed location on disk.
type Generator struct {
	// BaseDir is the absolute directory that root paths are resolved from,
	// two levels below the project root.
	BaseDir string
	// Env selects the optimization policy. When empty it is read from
	// EnvVar on every call.
	Env Environment
}

// New returns a generator rooted at baseDir.
func New(baseDir string, env Environment) *Generator {
	return &Generator{BaseDir: baseDir, Env: env}
}

type scriptOptions struct {
	asLibrary bool
	root      ModuleRoot
}

type ScriptOption func(*scriptOptions)

// AsLibrary exposes the bundle exports on the global object.
func AsLibrary() ScriptOption {
	return func(o *scriptOptions) {
		o.asLibrary = true
	}
}

// Shared builds the entry from the shared root rather than the local one.
func Shared() ScriptOption {
	return func(o *scriptOptions) {
		o.root = SharedRoot
	}
}

// WithRoot selects the module root explicitly.
func WithRoot(root ModuleRoot) ScriptOption {
	return func(o *scriptOptions) {
		o.root = root
	}
}

// Script builds the descriptor for a single entry. The name is not
// validated, see naming.ParseEntryName.
func (g *Generator) Script(name string, opts ...ScriptOption) Descriptor {
	o := scriptOptions{root: Local}
	for _, opt := range opts {
		opt(&o)
	}

	prefix := o.root.Prefix()
	rootDir := filepath.Join(g.BaseDir, "..", "..", filepath.FromSlash(prefix))
	entryDir := filepath.Join(rootDir, "sources", "scripts")

	output := Output{
		Filename:     "[name].min.js",
		GlobalObject: "window",
		Path:         filepath.Join(rootDir, "scripts"),
	}

	if o.asLibrary {
		output.Filename = "[name].bundle.min.js"
		output.Library = &LibraryExposure{
			Name: naming.PascalCase(Vendor) + naming.PascalCase(name),
			Type: ExposeWindow,
		}
	}

	return Descriptor{
		Name: naming.UnitName(Vendor, name),
		Entry: map[string]string{
			name: filepath.Join(entryDir, name+".js"),
		},
		Output: output,
		Resolve: Resolve{
			Extensions: []string{".ts", ".tsx", ".js", ".jsx", ".d.ts"},
			Modules:    []string{entryDir, "node_modules"},
		},
		Externals:    map[string]string{},
		Optimization: optimization(g.Env.resolve(), name),
		Module:       Module{Rules: rules()},
		Plugins: Plugins{
			Manifest: ManifestPlugin{
				Output:       name + ".json",
				SortManifest: false,
				PublicPath:   prefix + "scripts/",
				WriteToDisk:  true,
				StripPrefix:  prefix,
			},
			StyleExtract: StyleExtractPlugin{
				Filename: "../styles/[name].min.css",
			},
		},
		Root: o.root,
	}
}

// SharedScripts builds script descriptors from the shared root for names,
// or for DefaultSharedEntries when names is empty.
func (g *Generator) SharedScripts(names ...string) []Descriptor {
	if len(names) == 0 {
		names = DefaultSharedEntries
	}

	descriptors := make([]Descriptor, 0, len(names))
	for _, name := range names {
		descriptors = append(descriptors, g.Script(name, Shared()))
	}
	return descriptors
}

func optimization(env Environment, name string) Optimization {
	prod := env.IsProduction()

	return Optimization{
		Minimize:               prod,
		Minimizer:              "terser",
		ConcatenateModules:     true,
		ChunkIDs:               cond(prod, IDsDeterministic, IDsNamed),
		ModuleIDs:              cond(prod, IDsDeterministic, IDsNamed),
		FlagIncludedChunks:     prod,
		RemoveAvailableModules: prod,
		MangleExports:          cond(prod, MangleDeterministic, MangleOff),
		SplitChunks: SplitChunks{
			Chunks:  "all",
			MinSize: minChunkSize,
			MaxSize: maxChunkSize,
			Name:    "chunk/" + name,
		},
	}
}

func cond[T any](condition bool, trueVal, falseVal T) T {
	if condition {
		return trueVal
	}
	return falseVal
}
