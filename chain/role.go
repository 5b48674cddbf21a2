package chain

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tmc/langchaingo/prompts"
	"gopkg.in/yaml.v3"
)

// Role is one step of a sequence: a prompt template and the key its output is stored under.
type Role struct {
	Name           string   `yaml:"name" validate:"required"`
	Template       string   `yaml:"template" validate:"required"`
	InputVariables []string `yaml:"input_variables" validate:"required,min=1,dive,required"`
	OutputKey      string   `yaml:"output_key" validate:"required,alphanum"`
	// Image roles run on the image model; their completion is an image URL.
	Image bool `yaml:"image,omitempty"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks required fields and that the template renders with exactly
// the declared input variables.
func (r Role) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidRole, r.Name, err)
	}
	values := make(map[string]any, len(r.InputVariables))
	for _, v := range r.InputVariables {
		values[v] = ""
	}
	if _, err := r.prompt().Format(values); err != nil {
		return fmt.Errorf("%w %q: template: %w", ErrInvalidRole, r.Name, err)
	}
	return nil
}

// Render fills the template from vars.
func (r Role) Render(vars map[string]string) (string, error) {
	values, err := r.inputs(vars)
	if err != nil {
		return "", err
	}
	return r.prompt().Format(values)
}

func (r Role) prompt() prompts.PromptTemplate {
	return prompts.PromptTemplate{
		Template:       r.Template,
		InputVariables: r.InputVariables,
		TemplateFormat: prompts.TemplateFormatFString,
	}
}

// inputs picks the role's input variables out of vars.
func (r Role) inputs(vars map[string]string) (map[string]any, error) {
	values := make(map[string]any, len(r.InputVariables))
	for _, name := range r.InputVariables {
		v, ok := vars[name]
		if !ok {
			return nil, fmt.Errorf("%w %q for role %q", ErrMissingVariable, name, r.Name)
		}
		values[name] = v
	}
	return values, nil
}

type roleFile struct {
	Roles []Role `yaml:"roles"`
}

// LoadRoles reads roles from a YAML file with a top-level "roles" list and
// validates each one.
func LoadRoles(path string) ([]Role, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roles: %w", err)
	}
	return ParseRoles(data)
}

// ParseRoles decodes and validates YAML role definitions.
func ParseRoles(data []byte) ([]Role, error) {
	var file roleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse roles: %w", err)
	}
	if len(file.Roles) == 0 {
		return nil, ErrNoRoles
	}
	for i := range file.Roles {
		file.Roles[i].Template = strings.TrimLeft(file.Roles[i].Template, "\n")
		if err := file.Roles[i].Validate(); err != nil {
			return nil, err
		}
	}
	return file.Roles, nil
}

// MarshalRoles encodes roles in the format LoadRoles reads.
func MarshalRoles(roles []Role) ([]byte, error) {
	return yaml.Marshal(roleFile{Roles: roles})
}
