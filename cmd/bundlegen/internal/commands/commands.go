package commands

import (
	"fmt"

	"github.com/divimode/bundlegen/internal/descriptor"
	"github.com/divimode/bundlegen/internal/plan"
)

type Globals struct {
	Debug   bool
	Version string
}

// PlanFlags are shared by the commands that read a plan file.
type PlanFlags struct {
	Plan string `help:"path to the plan file" default:"bundlegen.yaml" type:"existingfile" env:"BUNDLEGEN_PLAN"`
	Env  string `help:"build environment, production enables minification and stable ids" default:"" env:"NODE_ENV"`
}

func (f *PlanFlags) descriptors() ([]descriptor.Descriptor, descriptor.Environment, error) {
	p, err := plan.LoadFile(f.Plan)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load plan: %w", err)
	}

	env := descriptor.ParseEnvironment(f.Env)
	return p.Descriptors(env), env, nil
}
