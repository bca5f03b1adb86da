package plan

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/divimode/bundlegen/internal/descriptor"
	"github.com/divimode/bundlegen/internal/naming"
	"gopkg.in/yaml.v3"
)

// Entry is a local entry point listed in a plan file.
type Entry struct {
	Name    string `yaml:"name"`
	Library bool   `yaml:"library"`
}

// Plan lists the entries of one project. The local entries are built first,
// followed by the shared set.
//
//	base_dir: automation/bin
//	entries:
//	  - name: loader
//	  - name: post-editor
//	  - name: builder
//	    library: true
//	shared: [lib, dashboard, rich-text-editor, admin]
type Plan struct {
	// BaseDir is the generator location, two levels below the project root
	BaseDir string  `yaml:"base_dir"`
	Entries []Entry `yaml:"entries"`
	// Shared overrides descriptor.DefaultSharedEntries when set
	Shared []string `yaml:"shared"`
}

// Load decodes and validates a plan.
func Load(r io.Reader) (Plan, error) {
	var p Plan

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return Plan{}, fmt.Errorf("%w: %w", ErrInvalidPlan, err)
	}

	if err := p.Validate(); err != nil {
		return Plan{}, err
	}

	return p, nil
}

// LoadFile loads a plan from path. A relative base_dir is resolved against
// the directory of the file, or the file's directory is used when it is empty.
func LoadFile(path string) (Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return Plan{}, err
	}
	defer f.Close()

	p, err := Load(f)
	if err != nil {
		return Plan{}, fmt.Errorf("failed to load plan %s: %w", path, err)
	}

	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return Plan{}, err
	}

	if !filepath.IsAbs(p.BaseDir) {
		p.BaseDir = filepath.Join(dir, p.BaseDir)
	}

	return p, nil
}

// Validate checks every entry name and rejects plans where two entries
// would produce the same build unit.
func (p Plan) Validate() error {
	units := make(map[string]string)

	check := func(name, root string) error {
		if _, err := naming.ParseEntryName(name); err != nil {
			return fmt.Errorf("%s entry: %w", root, err)
		}
		unit := naming.UnitName(descriptor.Vendor, name)
		current := fmt.Sprintf("%s entry %q", root, name)
		if prev, ok := units[unit]; ok {
			return fmt.Errorf("%w: %s from %s and %s", ErrDuplicateUnit, unit, prev, current)
		}
		units[unit] = current
		return nil
	}

	for _, e := range p.Entries {
		if err := check(e.Name, string(descriptor.Local)); err != nil {
			return err
		}
	}

	for _, name := range p.SharedEntries() {
		if err := check(name, string(descriptor.SharedRoot)); err != nil {
			return err
		}
	}

	return nil
}

// SharedEntries returns the shared entry names of the plan.
func (p Plan) SharedEntries() []string {
	if len(p.Shared) == 0 {
		return descriptor.DefaultSharedEntries
	}
	return p.Shared
}

// Descriptors generates the full build plan for env.
func (p Plan) Descriptors(env descriptor.Environment) []descriptor.Descriptor {
	g := descriptor.New(p.BaseDir, env)

	descriptors := make([]descriptor.Descriptor, 0, len(p.Entries)+len(p.SharedEntries()))
	for _, e := range p.Entries {
		var opts []descriptor.ScriptOption
		if e.Library {
			opts = append(opts, descriptor.AsLibrary())
		}
		descriptors = append(descriptors, g.Script(e.Name, opts...))
	}

	return append(descriptors, g.SharedScripts(p.SharedEntries()...)...)
}
