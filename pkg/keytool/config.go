package keytool

// Config is read from the file given by --config (YAML, or TOML for .toml paths).
// Only Aliases is live-reloaded, and only for `resolve --stdin --watch`.
type Config struct {
	LogLevel     string            `json:"logLevel" toml:"logLevel"`
	Output       string            `json:"output" toml:"output"`
	WarnUnmapped bool              `json:"warnUnmapped" toml:"warnUnmapped"`
	Aliases      map[string]string `json:"aliases,omitempty" toml:"aliases,omitempty"`
}

// Aliases is nil in the default so that decoding never writes into a shared map.
func DefaultConfig() Config {
	return Config{
		LogLevel:     "info",
		Output:       "text",
		WarnUnmapped: true,
	}
}

// Overrides carries command-line flags; empty fields leave the file value in place.
type Overrides struct {
	LogLevel string
	Output   string
}

func (c Config) apply(o Overrides) Config {
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if o.Output != "" {
		c.Output = o.Output
	}
	return c
}
