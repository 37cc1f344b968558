package wizard

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed steps.yaml
var defaultSteps []byte

// QuestionType is the input control of a question.
type QuestionType string

const (
	TypeText        QuestionType = "text"
	TypeTextArea    QuestionType = "textarea"
	TypeSelect      QuestionType = "select"
	TypeNumber      QuestionType = "number"
	TypeMultiSelect QuestionType = "multi-select"
)

// ErrInvalidSteps is returned for a malformed step definition file.
var ErrInvalidSteps = errors.New("wizard: invalid step definitions")

// Question is one prompt of a step.
type Question struct {
	ID          string       `yaml:"id" json:"id"`
	Label       string       `yaml:"label" json:"label"`
	Placeholder string       `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
	HelperText  string       `yaml:"helperText,omitempty" json:"helperText,omitempty"`
	Type        QuestionType `yaml:"type" json:"type"`
	Required    bool         `yaml:"required,omitempty" json:"required,omitempty"`
	Options     []string     `yaml:"options,omitempty" json:"options,omitempty"`
	AllowOther  bool         `yaml:"allowOther,omitempty" json:"allowOther,omitempty"`
}

// Step groups the questions shown together.
type Step struct {
	ID          string     `yaml:"id" json:"id"`
	Title       string     `yaml:"title" json:"title"`
	Description string     `yaml:"description,omitempty" json:"description,omitempty"`
	Questions   []Question `yaml:"questions" json:"questions"`
}

type stepsDocument struct {
	Steps []Step `yaml:"steps"`
}

// DefaultSteps returns the built-in business plan questionnaire.
func DefaultSteps() []Step {
	steps, err := ParseSteps(defaultSteps)
	if err != nil {
		panic(err)
	}
	return steps
}

// LoadStepsFile reads step definitions from a YAML file.
func LoadStepsFile(path string) ([]Step, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("wizard: read steps %s: %w", path, err)
	}
	return ParseSteps(raw)
}

// ParseSteps decodes and checks YAML step definitions.
func ParseSteps(raw []byte) ([]Step, error) {
	var doc stepsDocument
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSteps, err)
	}
	if err := checkSteps(doc.Steps); err != nil {
		return nil, err
	}
	return doc.Steps, nil
}

func checkSteps(steps []Step) error {
	if len(steps) == 0 {
		return fmt.Errorf("%w: no steps", ErrInvalidSteps)
	}
	seen := make(map[string]bool)
	for _, step := range steps {
		if step.ID == "" {
			return fmt.Errorf("%w: step without id", ErrInvalidSteps)
		}
		if len(step.Questions) == 0 {
			return fmt.Errorf("%w: step %q has no questions", ErrInvalidSteps, step.ID)
		}
		for _, q := range step.Questions {
			if q.ID == "" {
				return fmt.Errorf("%w: question without id in step %q", ErrInvalidSteps, step.ID)
			}
			if seen[q.ID] {
				return fmt.Errorf("%w: duplicate question %q", ErrInvalidSteps, q.ID)
			}
			seen[q.ID] = true
			switch q.Type {
			case TypeText, TypeTextArea, TypeNumber:
			case TypeSelect, TypeMultiSelect:
				if len(q.Options) == 0 {
					return fmt.Errorf("%w: question %q needs options", ErrInvalidSteps, q.ID)
				}
			default:
				return fmt.Errorf("%w: question %q has unknown type %q", ErrInvalidSteps, q.ID, q.Type)
			}
		}
	}
	return nil
}

// findQuestion looks a question up by id.
func findQuestion(steps []Step, id string) (Question, bool) {
	for _, step := range steps {
		for _, q := range step.Questions {
			if q.ID == id {
				return q, true
			}
		}
	}
	return Question{}, false
}
