package config

import (
	"errors"
	"fmt"

	"go.uber.org/zap/zapcore"

	"github.com/syssam/naming"
	"github.com/syssam/naming/plan"
	"github.com/syssam/naming/rewrite"
)

var (
	// ErrInvalidStyle indicates an unknown naming style.
	ErrInvalidStyle = errors.New("invalid naming style")

	// ErrInvalidCulture indicates a culture that is not a BCP 47 tag.
	ErrInvalidCulture = errors.New("invalid culture")

	// ErrInvalidFormat indicates an unsupported plan format.
	ErrInvalidFormat = errors.New("invalid output format")

	// ErrInvalidPackage indicates an empty generated package name.
	ErrInvalidPackage = errors.New("invalid package name")

	// ErrInvalidLogLevel indicates an unknown log level.
	ErrInvalidLogLevel = errors.New("invalid log level")

	// ErrInvalidWorkers indicates a non-positive worker count.
	ErrInvalidWorkers = errors.New("invalid worker count")
)

// Validate checks that the configuration is valid and complete. Every
// invalid field is reported.
func Validate(cfg *Config) error {
	var errs []error
	if style, err := naming.ParseStyle(cfg.Naming.Style); err != nil || style == naming.Custom {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidStyle, cfg.Naming.Style))
	}
	if _, err := rewrite.ParseCulture(cfg.Naming.Culture); err != nil {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidCulture, cfg.Naming.Culture))
	}
	for _, s := range cfg.Naming.StripSuffixes {
		if s == "" {
			errs = append(errs, fmt.Errorf("%w: empty strip suffix", ErrInvalidStyle))
			break
		}
	}
	if _, err := plan.ParseFormat(cfg.Output.Format); err != nil {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidFormat, cfg.Output.Format))
	}
	if cfg.Output.Package == "" {
		errs = append(errs, ErrInvalidPackage)
	}
	if _, err := zapcore.ParseLevel(cfg.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidLogLevel, cfg.Log.Level))
	}
	if cfg.Workers <= 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidWorkers, cfg.Workers))
	}
	return errors.Join(errs...)
}
