package internal

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	stdio  bool
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithStdioBridge makes Run serve the command bridge over stdio (MCP)
// instead of the local HTTP bridge.
func WithStdioBridge() Option {
	return func(a *application) {
		a.stdio = true
	}
}
