// Package config defines the typeorder configuration file and its defaults.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dhamidi/typeorder/order"
)

type Config struct {
	Check CheckConfig `yaml:"check"`
	Files FilesConfig `yaml:"files"`
	Run   RunConfig   `yaml:"run"`
}

// CheckConfig names the check and the annotations it recognises. Names are
// matched exactly against annotation simple names.
type CheckConfig struct {
	Name                  string `yaml:"name"`
	SuppressionAnnotation string `yaml:"suppression_annotation"`
	LifecycleAnnotation   string `yaml:"lifecycle_annotation"`
}

// FilesConfig controls which files a directory walk picks up.
type FilesConfig struct {
	Extensions  []string `yaml:"extensions"`
	ExcludeDirs []string `yaml:"exclude_dirs"`
}

type RunConfig struct {
	// Jobs is the number of files analysed in parallel; 0 means GOMAXPROCS.
	Jobs int `yaml:"jobs"`
	// MaxPasses bounds the fix rounds needed when nested types overlap.
	MaxPasses int `yaml:"max_passes"`
}

func DefaultConfig() *Config {
	return &Config{
		Check: CheckConfig{
			Name:                  order.DefaultCheckName,
			SuppressionAnnotation: order.DefaultSuppressionAnnotation,
			LifecycleAnnotation:   order.DefaultLifecycleAnnotation,
		},
		Files: FilesConfig{
			Extensions:  []string{".java"},
			ExcludeDirs: []string{"build", "target", ".git", "node_modules"},
		},
		Run: RunConfig{
			Jobs:      0,
			MaxPasses: 8,
		},
	}
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Check.Name) == "" {
		errs = append(errs, errors.New("check.name must not be empty"))
	}
	if strings.TrimSpace(c.Check.SuppressionAnnotation) == "" {
		errs = append(errs, errors.New("check.suppression_annotation must not be empty"))
	}
	if strings.Contains(c.Check.SuppressionAnnotation, ".") || strings.Contains(c.Check.LifecycleAnnotation, ".") {
		errs = append(errs, errors.New("annotations are matched by simple name; drop the package qualifier"))
	}
	if len(c.Files.Extensions) == 0 {
		errs = append(errs, errors.New("files.extensions must list at least one suffix"))
	}
	if c.Run.Jobs < 0 {
		errs = append(errs, fmt.Errorf("run.jobs must not be negative, got %d", c.Run.Jobs))
	}
	if c.Run.MaxPasses < 1 {
		errs = append(errs, fmt.Errorf("run.max_passes must be at least 1, got %d", c.Run.MaxPasses))
	}
	return errors.Join(errs...)
}

// Order returns the engine configuration.
func (c *Config) Order() order.Config {
	return order.Config{
		CheckName:             c.Check.Name,
		SuppressionAnnotation: c.Check.SuppressionAnnotation,
		LifecycleAnnotation:   c.Check.LifecycleAnnotation,
	}
}
