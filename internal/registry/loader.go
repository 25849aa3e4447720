package registry

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/docpack/docpack/internal/domain"
)

// Sentinel errors for source definition files
var (
	// ErrNoSources indicates the definition file has no sources
	ErrNoSources = errors.New("definition file must contain at least one source")
	// ErrInvalidFormat indicates the definition file is not valid YAML
	ErrInvalidFormat = errors.New("definition file must be valid YAML")
)

// definitionFile is the on-disk shape of a source definitions file
type definitionFile struct {
	Sources []domain.Source `yaml:"sources"`
}

// LoadFile registers extra sources defined in a YAML file. Loaded
// sources use the empty filter chain; chains for scraping are bound in
// code. This exists so deployments can download and mirror docsets
// that the builtin table does not know about.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read definition file: %w", err)
	}

	var def definitionFile
	if err := yaml.Unmarshal(data, &def); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if len(def.Sources) == 0 {
		return ErrNoSources
	}

	for i := range def.Sources {
		src := def.Sources[i]
		if err := r.Register(&src, nil); err != nil {
			return err
		}
	}
	return nil
}
