package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/divimode/bundlegen/internal/descriptor"
	"github.com/divimode/bundlegen/internal/manifest"
	"github.com/evanw/esbuild/pkg/api"
	"github.com/rs/zerolog"
)

// candidate source extensions checked against the descriptor rules
var sourceExtensions = []string{".js", ".mjs", ".ts", ".tsx", ".css", ".scss"}

var cssURLPattern = regexp.MustCompile(`url\(\s*(['"]?)([^'")]+)(['"]?)\s*\)`)

// Engine runs build descriptors through esbuild.
type Engine struct {
	preprocess Preprocessor
}

type Option func(*Engine)

// WithPreprocessor sets the stylesheet preprocessor used for rules with a
// sass-loader handler. Without one, stylesheets are loaded as plain css.
func WithPreprocessor(p Preprocessor) Option {
	return func(e *Engine) {
		e.preprocess = p
	}
}

func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Options translates a descriptor into esbuild build options.
//
// Library descriptors become an IIFE assigning the library global. All other
// descriptors are emitted as ES modules importing their split chunks, so
// pages must load them with <script type="module">.
func (e *Engine) Options(d descriptor.Descriptor) api.BuildOptions {
	name := d.EntryName()
	opt := d.Optimization

	opts := api.BuildOptions{
		EntryPointsAdvanced: []api.EntryPoint{{
			InputPath:  d.EntryPath(),
			OutputPath: strings.TrimSuffix(d.Output.OutputFile(name), ".js"),
		}},
		AbsWorkingDir:     d.Output.Path,
		Outdir:            d.Output.Path,
		Bundle:            true,
		Write:             false,
		Metafile:          true,
		Platform:          api.PlatformBrowser,
		LogLevel:          api.LogLevelSilent,
		MinifyWhitespace:  opt.Minimize,
		MinifyIdentifiers: opt.Minimize && opt.MangleExports == descriptor.MangleDeterministic,
		MinifySyntax:      opt.Minimize,
		KeepNames:         opt.ModuleIDs == descriptor.IDsNamed,
		TreeShaking:       cond(opt.RemoveAvailableModules, api.TreeShakingTrue, api.TreeShakingFalse),
		ResolveExtensions: d.Resolve.Extensions,
		NodePaths:         searchRoots(d.Resolve.Modules),
		Loader:            loaders(d),
		External:          slices.Sorted(maps.Keys(d.Externals)),
		Target:            api.ESNext,
	}

	if hasLoader(d, descriptor.LoaderBabel) {
		opts.Target = api.ES2020
	}

	if lib := d.Output.Library; lib != nil {
		// a top level var in a classic script is a property of the global object
		opts.Format = api.FormatIIFE
		opts.GlobalName = lib.Name
	} else {
		opts.Format = api.FormatESModule
		opts.Splitting = opt.SplitChunks.Chunks == "all"
		opts.ChunkNames = opt.SplitChunks.Name + "-[hash]"
	}

	return opts
}

// Build bundles a single descriptor and writes its outputs and manifest.
func (e *Engine) Build(ctx context.Context, d descriptor.Descriptor) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	log := zerolog.Ctx(ctx).With().Str("unit", d.Name).Logger()
	log.Info().Str("entry", d.EntryPath()).Str("outdir", d.Output.Path).Msg("Building unit")

	if err := os.MkdirAll(d.Output.Path, 0o755); err != nil {
		return Result{}, fmt.Errorf("failed to create output directory: %w", err)
	}

	opts := e.Options(d)
	opts.Plugins = []api.Plugin{e.stylePlugin(d)}

	result := api.Build(opts)

	if len(result.Errors) > 0 {
		for _, msg := range result.Errors {
			log.Error().Str("error", msg.Text).Msg("Build error")
		}
		return Result{}, fmt.Errorf("%w: %s: %s", ErrBuildFailed, d.Name, result.Errors[0].Text)
	}

	for _, msg := range result.Warnings {
		log.Warn().Str("warning", msg.Text).Msg("Build warning")
	}

	var metadata buildMetadata
	if err := json.Unmarshal([]byte(result.Metafile), &metadata); err != nil {
		return Result{}, fmt.Errorf("failed to parse metafile for %s: %w", d.Name, err)
	}

	return e.emit(d, result.OutputFiles, &metadata, log)
}

// BuildAll builds descriptors in order, stopping at the first failure.
func (e *Engine) BuildAll(ctx context.Context, descriptors []descriptor.Descriptor) ([]Result, error) {
	results := make([]Result, 0, len(descriptors))
	for _, d := range descriptors {
		res, err := e.Build(ctx, d)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (e *Engine) emit(d descriptor.Descriptor, files []api.OutputFile, metadata *buildMetadata, log zerolog.Logger) (Result, error) {
	name := d.EntryName()
	outdir := d.Output.Path

	res := Result{
		Name:     d.Name,
		Manifest: manifest.New(d.Plugins.Manifest.SortManifest),
	}

	entryOutput := d.Output.OutputFile(name)
	entryInfo, built := metadata.Outputs[entryOutput]

	for _, file := range files {
		rel, err := filepath.Rel(outdir, file.Path)
		if err != nil {
			return res, err
		}
		rel = filepath.ToSlash(rel)

		target := file.Path
		key := rel

		switch {
		case rel == entryOutput:
			key = name + ".js"
		case rel == entryInfo.CSSBundle && rel != "":
			key = name + ".css"
			rel = d.Plugins.StyleExtract.StylePath(name)
			target = filepath.Join(outdir, filepath.FromSlash(rel))
		case strings.HasSuffix(rel, ".map"):
			continue
		}

		if err := writeFile(target, file.Contents); err != nil {
			return res, fmt.Errorf("failed to write %s: %w", target, err)
		}
		log.Info().Str("file", target).Msg("Built file")

		res.Files = append(res.Files, target)
		res.Manifest.Set(d.Plugins.Manifest.Customize(key, rel))
	}

	if built {
		res.Scripts = []string{entryOutput}
		addDependencies(metadata, entryInfo, &res.Scripts, map[string]bool{entryOutput: true})
	}

	if d.Plugins.Manifest.WriteToDisk {
		res.ManifestPath = filepath.Join(outdir, d.Plugins.Manifest.Output)
		if err := res.Manifest.WriteFile(res.ManifestPath); err != nil {
			return res, fmt.Errorf("failed to write manifest %s: %w", res.ManifestPath, err)
		}
		log.Info().Str("file", res.ManifestPath).Int("entries", res.Manifest.Len()).Msg("Wrote manifest")
	}

	return res, nil
}

func addDependencies(metadata *buildMetadata, output outputInfo, scripts *[]string, visited map[string]bool) {
	for _, imp := range output.Imports {
		if imp.Kind != "import-statement" || visited[imp.Path] {
			continue
		}
		visited[imp.Path] = true
		*scripts = append(*scripts, imp.Path)

		if chunkInfo, exists := metadata.Outputs[imp.Path]; exists {
			addDependencies(metadata, chunkInfo, scripts, visited)
		}
	}
}

// stylePlugin runs the stylesheet part of the rule chain inside esbuild:
// preprocessing, url rewriting and keeping url() references untouched.
func (e *Engine) stylePlugin(d descriptor.Descriptor) api.Plugin {
	return api.Plugin{
		Name: "style-extract",
		Setup: func(build api.PluginBuild) {
			build.OnResolve(api.OnResolveOptions{Filter: `.*`}, func(args api.OnResolveArgs) (api.OnResolveResult, error) {
				if args.Kind != api.ResolveCSSURLToken {
					return api.OnResolveResult{}, nil
				}
				rule, ok, err := d.RuleFor(args.Importer)
				if err != nil || !ok {
					return api.OnResolveResult{}, err
				}
				if css, ok := rule.Handler(descriptor.LoaderCSS); ok && css.URL != nil && !*css.URL {
					return api.OnResolveResult{Path: args.Path, External: true}, nil
				}
				return api.OnResolveResult{}, nil
			})

			build.OnLoad(api.OnLoadOptions{Filter: `\.s?css$`}, func(args api.OnLoadArgs) (api.OnLoadResult, error) {
				rule, ok, err := d.RuleFor(args.Path)
				if err != nil || !ok {
					return api.OnLoadResult{}, err
				}

				src, err := os.ReadFile(args.Path)
				if err != nil {
					return api.OnLoadResult{}, err
				}

				contents, err := e.transformStyle(rule, args.Path, src)
				if err != nil {
					return api.OnLoadResult{}, err
				}

				return api.OnLoadResult{
					Contents:   &contents,
					Loader:     api.LoaderCSS,
					ResolveDir: filepath.Dir(args.Path),
				}, nil
			})
		},
	}
}

// transformStyle applies the rule handlers innermost first.
func (e *Engine) transformStyle(rule descriptor.Rule, path string, src []byte) (string, error) {
	for i := len(rule.Use) - 1; i >= 0; i-- {
		h := rule.Use[i]
		switch {
		case h.Loader == descriptor.LoaderSass && e.preprocess != nil:
			out, err := e.preprocess(path, src)
			if err != nil {
				return "", fmt.Errorf("failed to preprocess %s: %w", path, err)
			}
			src = out
		case h.Rewrite != nil:
			src = rewriteURLs(src, *h.Rewrite)
		}
	}
	return string(src), nil
}

func rewriteURLs(src []byte, rw descriptor.URLRewrite) []byte {
	return cssURLPattern.ReplaceAllFunc(src, func(m []byte) []byte {
		parts := cssURLPattern.FindSubmatch(m)
		return []byte("url(" + string(parts[1]) + rw.Apply(string(parts[2])) + string(parts[3]) + ")")
	})
}

func loaders(d descriptor.Descriptor) map[string]api.Loader {
	out := map[string]api.Loader{}
	for _, ext := range sourceExtensions {
		rule, ok, err := d.RuleFor("source" + ext)
		if err != nil || !ok || len(rule.Use) == 0 {
			continue
		}
		switch rule.Use[0].Loader {
		case descriptor.LoaderBabel:
			out[ext] = api.LoaderJS
		case descriptor.LoaderTypeScript:
			out[ext] = cond(ext == ".tsx", api.LoaderTSX, api.LoaderTS)
		case descriptor.LoaderStyleExtract:
			out[ext] = api.LoaderCSS
		}
	}
	return out
}

func hasLoader(d descriptor.Descriptor, loader string) bool {
	for _, r := range d.Module.Rules {
		if _, ok := r.Handler(loader); ok {
			return true
		}
	}
	return false
}

// searchRoots keeps absolute module roots, esbuild walks node_modules on its own.
func searchRoots(modules []string) []string {
	var roots []string
	for _, m := range modules {
		if filepath.IsAbs(m) {
			roots = append(roots, m)
		}
	}
	return roots
}

func writeFile(path string, contents []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, contents, 0o644) //nolint:gosec // built assets are served publicly
}

func cond[T any](condition bool, trueVal, falseVal T) T {
	if condition {
		return trueVal
	}
	return falseVal
}
