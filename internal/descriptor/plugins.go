package descriptor

import "strings"

// Qualify prefixes an output path, relative to the output directory, with the public path.
func (m ManifestPlugin) Qualify(file string) string {
	return m.PublicPath + strings.TrimPrefix(file, "/")
}

// Strip removes the root prefix from the front of a qualified path, leaving
// it relative to the module root.
func (m ManifestPlugin) Strip(qualified string) string {
	return strings.TrimPrefix(qualified, m.StripPrefix)
}

// Restore is the inverse of Strip.
func (m ManifestPlugin) Restore(stripped string) string {
	return m.StripPrefix + stripped
}

// Customize returns the manifest entry for an asset. The key is kept and the
// value is the root-relative output path, e.g. scripts/admin.min.js.
func (m ManifestPlugin) Customize(key, file string) (string, string) {
	return key, m.Strip(m.Qualify(file))
}

// StylePath expands the style filename pattern for entry name.
func (s StyleExtractPlugin) StylePath(name string) string {
	return strings.ReplaceAll(s.Filename, "[name]", name)
}

// OutputFile expands the output filename pattern for entry name.
func (o Output) OutputFile(name string) string {
	return strings.ReplaceAll(o.Filename, "[name]", name)
}
