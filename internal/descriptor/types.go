package descriptor

// Descriptor is the complete build configuration for one entry point.
// It is plain data, consumed once by a bundler engine.
type Descriptor struct {
	Name         string            `json:"name" yaml:"name"`
	Entry        map[string]string `json:"entry" yaml:"entry"`
	Output       Output            `json:"output" yaml:"output"`
	Resolve      Resolve           `json:"resolve" yaml:"resolve"`
	Externals    map[string]string `json:"externals" yaml:"externals"`
	Optimization Optimization      `json:"optimization" yaml:"optimization"`
	Module       Module            `json:"module" yaml:"module"`
	Plugins      Plugins           `json:"plugins" yaml:"plugins"`

	// Root is the module root the descriptor was generated for.
	Root ModuleRoot `json:"root" yaml:"root"`
}

// EntryName returns the single entry name of the descriptor.
func (d Descriptor) EntryName() string {
	for name := range d.Entry {
		return name
	}
	return ""
}

// EntryPath returns the absolute source path of the entry.
func (d Descriptor) EntryPath() string {
	return d.Entry[d.EntryName()]
}

type Output struct {
	// Filename pattern, [name] is replaced with the entry name
	Filename     string           `json:"filename" yaml:"filename"`
	Library      *LibraryExposure `json:"library,omitempty" yaml:"library,omitempty"`
	GlobalObject string           `json:"globalObject" yaml:"globalObject"`
	// Absolute output directory
	Path string `json:"path" yaml:"path"`
}

// LibraryExposure attaches the exported members of a bundle to a global object.
//
//	<script src="/path/to/lib.bundle.min.js"></script>
//	<script>window.DivimodeLib.exposedMethod();</script>
type LibraryExposure struct {
	Name string       `json:"name" yaml:"name"`
	Type ExposureType `json:"type" yaml:"type"`
}

type ExposureType string

const ExposeWindow ExposureType = "window"

type Resolve struct {
	Extensions []string `json:"extensions" yaml:"extensions"`
	Modules    []string `json:"modules" yaml:"modules"`
}

// IDMode controls how chunk and module ids are generated.
type IDMode string

const (
	// IDsDeterministic yields short ids that are stable between builds
	IDsDeterministic IDMode = "deterministic"
	// IDsNamed yields readable ids derived from paths
	IDsNamed IDMode = "named"
)

type MangleMode string

const (
	MangleDeterministic MangleMode = "deterministic"
	MangleOff           MangleMode = "off"
)

type Optimization struct {
	Minimize               bool        `json:"minimize" yaml:"minimize"`
	Minimizer              string      `json:"minimizer" yaml:"minimizer"`
	ConcatenateModules     bool        `json:"concatenateModules" yaml:"concatenateModules"`
	ChunkIDs               IDMode      `json:"chunkIds" yaml:"chunkIds"`
	ModuleIDs              IDMode      `json:"moduleIds" yaml:"moduleIds"`
	FlagIncludedChunks     bool        `json:"flagIncludedChunks" yaml:"flagIncludedChunks"`
	RemoveAvailableModules bool        `json:"removeAvailableModules" yaml:"removeAvailableModules"`
	MangleExports          MangleMode  `json:"mangleExports" yaml:"mangleExports"`
	SplitChunks            SplitChunks `json:"splitChunks" yaml:"splitChunks"`
}

type SplitChunks struct {
	Chunks string `json:"chunks" yaml:"chunks"`
	// Minimum size, in bytes, for a chunk to be generated
	MinSize int `json:"minSize" yaml:"minSize"`
	// Chunks above this size are split further
	MaxSize int `json:"maxSize" yaml:"maxSize"`
	// Prefix for chunk names, unique per entry
	Name string `json:"name" yaml:"name"`
}

type Module struct {
	Rules []Rule `json:"rules" yaml:"rules"`
}

// Rule wires files matching Test, and none of Exclude, to a handler chain.
// Handlers in Use run last-to-first, so Use[0] wraps the others.
type Rule struct {
	Test    string    `json:"test" yaml:"test"`
	Exclude []string  `json:"exclude,omitempty" yaml:"exclude,omitempty"`
	Use     []Handler `json:"use" yaml:"use"`
}

type Handler struct {
	Loader     string      `json:"loader" yaml:"loader"`
	Presets    []string    `json:"presets,omitempty" yaml:"presets,omitempty"`
	PublicPath string      `json:"publicPath,omitempty" yaml:"publicPath,omitempty"`
	URL        *bool       `json:"url,omitempty" yaml:"url,omitempty"`
	Rewrite    *URLRewrite `json:"rewrite,omitempty" yaml:"rewrite,omitempty"`
}

// URLRewrite replaces a leading From in asset urls with To.
type URLRewrite struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

type Plugins struct {
	Manifest     ManifestPlugin     `json:"manifest" yaml:"manifest"`
	StyleExtract StyleExtractPlugin `json:"styleExtract" yaml:"styleExtract"`
}

type ManifestPlugin struct {
	// File name of the manifest, relative to the output directory
	Output       string `json:"output" yaml:"output"`
	SortManifest bool   `json:"sortManifest" yaml:"sortManifest"`
	PublicPath   string `json:"publicPath" yaml:"publicPath"`
	WriteToDisk  bool   `json:"writeToDisk" yaml:"writeToDisk"`
	// Removed from the front of every public-path qualified value
	StripPrefix string `json:"stripPrefix" yaml:"stripPrefix"`
}

type StyleExtractPlugin struct {
	// Filename pattern relative to the output directory
	Filename string `json:"filename" yaml:"filename"`
}
