package core

// Environment is the deployment environment the service runs in. It controls
// logging verbosity and output format.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

// IsProduction reports whether e is the production environment.
func (e Environment) IsProduction() bool {
	return e == Production
}

// ParseEnvironment maps a raw ENVIRONMENT value to a known environment.
// Anything unrecognised falls back to Development so a bad value never takes
// the service down.
func ParseEnvironment(v string) Environment {
	switch e := Environment(v); e {
	case Production, Staging, Testing:
		return e
	default:
		return Development
	}
}
