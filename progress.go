package collinear

import "github.com/rs/zerolog"

var nopLogger = zerolog.Nop()

// logger returns the configured progress logger, or a no-op logger when none
// was set. Progress reporting is purely observational: it records which
// variable was removed or rejected and why, and never affects selection.
func (cfg *Config) logger() *zerolog.Logger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	return &nopLogger
}
