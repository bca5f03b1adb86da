package descriptor

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseDir = "/srv/plugin/automation/bin"

func TestScriptLibraryShared(t *testing.T) {
	g := New(baseDir, Development)

	d := g.Script("lib", AsLibrary(), Shared())

	require.NotNil(t, d.Output.Library)
	assert.Equal(t, "DivimodeLib", d.Output.Library.Name)
	assert.Equal(t, ExposeWindow, d.Output.Library.Type)
	assert.Equal(t, "[name].bundle.min.js", d.Output.Filename)
	assert.Equal(t, "divimode_lib", d.Name)
	assert.Equal(t, SharedRoot, d.Root)
	assert.Equal(t, "/srv/plugin/shared/scripts", d.Output.Path)
	assert.Equal(t, map[string]string{"lib": "/srv/plugin/shared/sources/scripts/lib.js"}, d.Entry)
	assert.Equal(t, "/shared/scripts/", d.Plugins.Manifest.PublicPath)
	assert.Equal(t, "/shared/", d.Plugins.Manifest.StripPrefix)
}

func TestScriptLocal(t *testing.T) {
	g := New(baseDir, Development)

	d := g.Script("post-editor")

	assert.Equal(t, "divimode_post_editor", d.Name)
	assert.Nil(t, d.Output.Library)
	assert.Equal(t, "[name].min.js", d.Output.Filename)
	assert.Equal(t, "window", d.Output.GlobalObject)
	assert.Equal(t, Local, d.Root)
	assert.Equal(t, "/srv/plugin/scripts", d.Output.Path)
	assert.Equal(t, "post-editor", d.EntryName())
	assert.Equal(t, "/srv/plugin/sources/scripts/post-editor.js", d.EntryPath())
	assert.Equal(t, []string{".ts", ".tsx", ".js", ".jsx", ".d.ts"}, d.Resolve.Extensions)
	assert.Equal(t, []string{"/srv/plugin/sources/scripts", "node_modules"}, d.Resolve.Modules)
	assert.Empty(t, d.Externals)

	assert.Equal(t, ManifestPlugin{
		Output:       "post-editor.json",
		SortManifest: false,
		PublicPath:   "/scripts/",
		WriteToDisk:  true,
		StripPrefix:  "/",
	}, d.Plugins.Manifest)
	assert.Equal(t, "../styles/[name].min.css", d.Plugins.StyleExtract.Filename)
	assert.Equal(t, "../styles/post-editor.min.css", d.Plugins.StyleExtract.StylePath("post-editor"))
	assert.Equal(t, "post-editor.min.js", d.Output.OutputFile("post-editor"))
}

func TestScriptLocalLibrary(t *testing.T) {
	d := New(baseDir, Development).Script("visual-builder", AsLibrary())

	require.NotNil(t, d.Output.Library)
	assert.Equal(t, "DivimodeVisualBuilder", d.Output.Library.Name)
	assert.Equal(t, "/srv/plugin/scripts", d.Output.Path)
}

func TestScriptWithRoot(t *testing.T) {
	g := New(baseDir, Development)

	require.Equal(t, g.Script("admin", Shared()), g.Script("admin", WithRoot(SharedRoot)))
	require.Equal(t, g.Script("admin"), g.Script("admin", WithRoot(Local)))
}

func TestOptimizationPolicy(t *testing.T) {
	prod := New(baseDir, Production).Script("front")
	dev := New(baseDir, Development).Script("front")

	assert.True(t, prod.Optimization.Minimize)
	assert.Equal(t, IDsDeterministic, prod.Optimization.ChunkIDs)
	assert.Equal(t, IDsDeterministic, prod.Optimization.ModuleIDs)
	assert.True(t, prod.Optimization.FlagIncludedChunks)
	assert.True(t, prod.Optimization.RemoveAvailableModules)
	assert.Equal(t, MangleDeterministic, prod.Optimization.MangleExports)

	assert.False(t, dev.Optimization.Minimize)
	assert.Equal(t, IDsNamed, dev.Optimization.ChunkIDs)
	assert.Equal(t, IDsNamed, dev.Optimization.ModuleIDs)
	assert.False(t, dev.Optimization.FlagIncludedChunks)
	assert.False(t, dev.Optimization.RemoveAvailableModules)
	assert.Equal(t, MangleOff, dev.Optimization.MangleExports)

	for _, d := range []Descriptor{prod, dev} {
		assert.True(t, d.Optimization.ConcatenateModules)
		assert.Equal(t, SplitChunks{Chunks: "all", MinSize: 20000, MaxSize: 50000, Name: "chunk/front"}, d.Optimization.SplitChunks)
	}

	// nothing but the optimization policy depends on the environment
	prod.Optimization = Optimization{}
	dev.Optimization = Optimization{}
	if diff := cmp.Diff(prod, dev); diff != "" {
		t.Errorf("descriptors differ outside optimization (-prod +dev):\n%s", diff)
	}
}

func TestEnvironmentFromProcess(t *testing.T) {
	g := New(baseDir, "")

	t.Setenv(EnvVar, "production")
	prod := g.Script("front")

	t.Setenv(EnvVar, "")
	dev := g.Script("front")

	t.Setenv(EnvVar, "staging")
	staging := g.Script("front")

	assert.True(t, prod.Optimization.Minimize)
	assert.Equal(t, IDsDeterministic, prod.Optimization.ChunkIDs)
	assert.False(t, dev.Optimization.Minimize)
	assert.Equal(t, IDsNamed, dev.Optimization.ModuleIDs)
	assert.Equal(t, dev, staging)
}

func TestParseEnvironment(t *testing.T) {
	assert.Equal(t, Production, ParseEnvironment("production"))
	assert.Equal(t, Development, ParseEnvironment("development"))
	assert.Equal(t, Development, ParseEnvironment(""))
	assert.Equal(t, Development, ParseEnvironment("Production"))
}

func TestScriptDeterministic(t *testing.T) {
	g := New(baseDir, Production)

	a := g.Script("rich-text-editor", Shared())
	b := g.Script("rich-text-editor", Shared())
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("descriptors differ (-first +second):\n%s", diff)
	}

	// descriptors share no slices
	a.Resolve.Extensions[0] = ".mutated"
	a.Module.Rules[0].Exclude[0] = "mutated"
	c := g.Script("rich-text-editor", Shared())
	assert.Equal(t, ".ts", c.Resolve.Extensions[0])
	assert.Equal(t, "node_modules/**", c.Module.Rules[0].Exclude[0])
}

func TestSharedScripts(t *testing.T) {
	g := New(baseDir, Development)

	ds := g.SharedScripts()
	require.Len(t, ds, 4)

	names := make([]string, 0, len(ds))
	for _, d := range ds {
		names = append(names, d.EntryName())
		assert.Equal(t, SharedRoot, d.Root)
		assert.Nil(t, d.Output.Library)
		assert.Equal(t, "[name].min.js", d.Output.Filename)
		assert.Equal(t, "/srv/plugin/shared/scripts", d.Output.Path)
	}
	assert.Equal(t, []string{"lib", "dashboard", "rich-text-editor", "admin"}, names)
	assert.Equal(t, "divimode_rich_text_editor", ds[2].Name)

	if diff := cmp.Diff(ds, g.SharedScripts()); diff != "" {
		t.Errorf("shared set is not stable:\n%s", diff)
	}
}

func TestSharedScriptsInjected(t *testing.T) {
	ds := New(baseDir, Development).SharedScripts("a", "b-c")

	require.Len(t, ds, 2)
	assert.Equal(t, "divimode_a", ds[0].Name)
	assert.Equal(t, "divimode_b_c", ds[1].Name)
	assert.Equal(t, "/srv/plugin/shared/sources/scripts/b-c.js", ds[1].EntryPath())
}

func TestMalformedNamePropagates(t *testing.T) {
	d := New(baseDir, Development).Script("")

	assert.Equal(t, "divimode_", d.Name)
	assert.Equal(t, "/srv/plugin/sources/scripts/.js", d.EntryPath())
	assert.Equal(t, "chunk/", d.Optimization.SplitChunks.Name)
}

func TestDescriptorJSON(t *testing.T) {
	d := New(baseDir, Development).Script("lib", AsLibrary())

	raw, err := json.Marshal(d)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))

	output := doc["output"].(map[string]any)
	assert.Equal(t, "[name].bundle.min.js", output["filename"])
	assert.Equal(t, map[string]any{"name": "DivimodeLib", "type": "window"}, output["library"])

	optimization := doc["optimization"].(map[string]any)
	assert.Equal(t, "named", optimization["chunkIds"])
	assert.Equal(t, "chunk/lib", optimization["splitChunks"].(map[string]any)["name"])

	var back Descriptor
	require.NoError(t, json.Unmarshal(raw, &back))
	if diff := cmp.Diff(d, back); diff != "" {
		t.Errorf("json round trip changed descriptor:\n%s", diff)
	}
}
