package template

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/orionvision/orion/internal/domain"
	orionerrors "github.com/orionvision/orion/internal/errors"
)

// fileTemplate is the YAML shape of an on-disk template. Durations are
// strings ("30s", "2m") so template files stay human-editable.
type fileTemplate struct {
	Name               string             `yaml:"name"`
	Description        string             `yaml:"description,omitempty"`
	Mode               string             `yaml:"mode,omitempty"`
	Timeout            string             `yaml:"timeout,omitempty"`
	Steps              []fileStepTemplate `yaml:"steps"`
	ValidationCriteria []string           `yaml:"validation_criteria,omitempty"`
}

type fileStepTemplate struct {
	ID         string         `yaml:"id"`
	Type       string         `yaml:"type"`
	Action     string         `yaml:"action"`
	Parameters map[string]any `yaml:"parameters,omitempty"`
	Timeout    string         `yaml:"timeout,omitempty"`
	RetryCount int            `yaml:"retry_count,omitempty"`
	OnError    string         `yaml:"on_error,omitempty"`
}

// LoadFromFile parses one YAML template file.
func LoadFromFile(path string) (*Template, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the user's template directory
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", orionerrors.ErrTemplateNotFound, path)
		}
		return nil, orionerrors.Wrapf(err, "reading template %s", path)
	}

	var ft fileTemplate
	if err := yaml.Unmarshal(data, &ft); err != nil {
		return nil, orionerrors.Wrapf(err, "parsing template %s", path)
	}
	return toTemplate(&ft)
}

// LoadDir loads every *.yaml and *.yml template in dir into the registry.
// A missing directory is not an error; a malformed file is.
func LoadDir(registry *Registry, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return orionerrors.Wrapf(err, "reading template directory %s", dir)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		t, err := LoadFromFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return err
		}
		if err := registry.Register(t); err != nil {
			return err
		}
	}
	return nil
}

func toTemplate(ft *fileTemplate) (*Template, error) {
	if strings.TrimSpace(ft.Name) == "" {
		return nil, fmt.Errorf("%w: template name", orionerrors.ErrEmptyValue)
	}
	if len(ft.Steps) == 0 {
		return nil, fmt.Errorf("%w: template %q has no steps", orionerrors.ErrEmptyValue, ft.Name)
	}

	timeout, err := parseOptionalDuration(ft.Timeout)
	if err != nil {
		return nil, orionerrors.Wrapf(err, "template %q timeout", ft.Name)
	}

	t := &Template{
		Name:               ft.Name,
		Description:        ft.Description,
		Mode:               domain.ExecutionMode(ft.Mode),
		Timeout:            timeout,
		ValidationCriteria: ft.ValidationCriteria,
	}
	if t.Mode == "" {
		t.Mode = domain.ModeStepByStep
	}

	seen := make(map[string]bool, len(ft.Steps))
	for _, fs := range ft.Steps {
		if strings.TrimSpace(fs.ID) == "" {
			return nil, fmt.Errorf("%w: step id in template %q", orionerrors.ErrEmptyValue, ft.Name)
		}
		if seen[fs.ID] {
			return nil, fmt.Errorf("%w: duplicate step id %q in template %q", orionerrors.ErrScenarioInvalid, fs.ID, ft.Name)
		}
		seen[fs.ID] = true

		stepTimeout, err := parseOptionalDuration(fs.Timeout)
		if err != nil {
			return nil, orionerrors.Wrapf(err, "step %q timeout in template %q", fs.ID, ft.Name)
		}

		t.Steps = append(t.Steps, StepTemplate{
			ID:         fs.ID,
			Type:       domain.StepType(fs.Type),
			Action:     fs.Action,
			Parameters: fs.Parameters,
			Timeout:    stepTimeout,
			RetryCount: fs.RetryCount,
			OnError:    domain.ErrorStrategy(fs.OnError),
		})
	}
	return t, nil
}

func parseOptionalDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}
