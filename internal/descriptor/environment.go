package descriptor

import "os"

// EnvVar selects the build environment when a Generator has none set.
const EnvVar = "NODE_ENV"

// Environment selects the optimization policy.
type Environment string

const (
	Production  Environment = "production"
	Development Environment = "development"
)

// ParseEnvironment maps "production" to Production and anything else,
// including the empty string, to Development.
func ParseEnvironment(s string) Environment {
	if s == string(Production) {
		return Production
	}
	return Development
}

// EnvironmentFromProcess reads EnvVar from the process environment.
func EnvironmentFromProcess() Environment {
	return ParseEnvironment(os.Getenv(EnvVar))
}

func (e Environment) IsProduction() bool {
	return e == Production
}

// resolve returns e, or the process environment when e is unset.
func (e Environment) resolve() Environment {
	if e == "" {
		return EnvironmentFromProcess()
	}
	return ParseEnvironment(string(e))
}

// ModuleRoot is the source tree an entry belongs to.
type ModuleRoot string

const (
	// Local is the project's own source tree
	Local ModuleRoot = "local"
	// SharedRoot is the sibling shared library tree
	SharedRoot ModuleRoot = "shared"
)

// Prefix returns the root-qualified path prefix, "/" or "/shared/".
func (r ModuleRoot) Prefix() string {
	if r == SharedRoot {
		return "/shared/"
	}
	return "/"
}
