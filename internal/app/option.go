package app

import (
	"io"

	"github.com/reoring/skema/config"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *config.Config
	logOut io.Writer
}

// WithConfig sets the application configuration.
func WithConfig(cfg *config.Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithLogOutput redirects the JSON log stream (stderr by default).
func WithLogOutput(w io.Writer) Option {
	return func(a *application) {
		a.logOut = w
	}
}
