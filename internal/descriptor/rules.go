package descriptor

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gobwas/glob"
)

// Loader names used in rule handler chains.
const (
	LoaderBabel        = "babel-loader"
	LoaderTypeScript   = "ts-loader"
	LoaderStyleExtract = "mini-css-extract"
	LoaderCSS          = "css-loader"
	LoaderPostCSS      = "postcss-loader"
	LoaderSass         = "sass-loader"
)

func excludeDependencies(extra ...string) []string {
	return append([]string{"node_modules/**", "**/node_modules/**"}, extra...)
}

func rules() []Rule {
	return []Rule{
		{
			Test:    "**.{js,mjs}",
			Exclude: excludeDependencies(),
			Use: []Handler{
				{Loader: LoaderBabel, Presets: []string{"@babel/preset-env"}},
			},
		},
		{
			Test:    "**.{ts,tsx}",
			Exclude: excludeDependencies("**.d.ts"),
			Use: []Handler{
				{Loader: LoaderTypeScript},
			},
		},
		{
			// extraction stays outermost so the url rewrite below still sees
			// paths relative to the source stylesheet
			Test: "**.{css,scss}",
			Use: []Handler{
				{Loader: LoaderStyleExtract, PublicPath: "../"},
				{Loader: LoaderCSS, URL: ptr(false)},
				{Loader: LoaderPostCSS, Rewrite: &URLRewrite{From: "../../", To: "../"}},
				{Loader: LoaderSass},
			},
		},
	}
}

// compiled globs keyed by pattern, shared by all descriptors
var globs sync.Map

func compileGlob(pattern string) (glob.Glob, error) {
	if g, ok := globs.Load(pattern); ok {
		return g.(glob.Glob), nil
	}

	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, err
	}

	actual, _ := globs.LoadOrStore(pattern, g)
	return actual.(glob.Glob), nil
}

// Matches reports whether path is handled by the rule.
func (r Rule) Matches(path string) (bool, error) {
	path = filepath.ToSlash(path)

	test, err := compileGlob(r.Test)
	if err != nil {
		return false, fmt.Errorf("failed to compile rule test %q: %w", r.Test, err)
	}
	if !test.Match(path) {
		return false, nil
	}

	for _, pattern := range r.Exclude {
		g, err := compileGlob(pattern)
		if err != nil {
			return false, fmt.Errorf("failed to compile rule exclude %q: %w", pattern, err)
		}
		if g.Match(path) {
			return false, nil
		}
	}

	return true, nil
}

// Handler returns the first handler in the chain using loader.
func (r Rule) Handler(loader string) (Handler, bool) {
	for _, h := range r.Use {
		if h.Loader == loader {
			return h, true
		}
	}
	return Handler{}, false
}

// RuleFor returns the first rule of d matching path.
func (d Descriptor) RuleFor(path string) (Rule, bool, error) {
	for _, r := range d.Module.Rules {
		ok, err := r.Matches(path)
		if err != nil {
			return Rule{}, false, err
		}
		if ok {
			return r, true, nil
		}
	}
	return Rule{}, false, nil
}

// Apply replaces the first occurrence of From in url with To.
func (u URLRewrite) Apply(url string) string {
	if u.From == "" {
		return url
	}
	return strings.Replace(url, u.From, u.To, 1)
}

func ptr[T any](v T) *T {
	return &v
}
