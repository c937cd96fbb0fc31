package prompts

import (
	"fmt"
	"strings"
)

const companyPlaceholder = "{{company}}"

// System resolves the prompt text for each stage.
type System interface {
	Instructions(stage Stage) (string, error)
	Spec(stage Stage) (string, error)
}

type system struct {
	company   string
	overrides map[Stage]string
}

// New creates a prompt System. Overrides replace the default instructions
// for the stages they name; blank overrides are ignored. Company fills the
// company placeholder and defaults to "our company".
func New(company string, overrides map[string]string) (System, error) {
	s := &system{
		company:   strings.TrimSpace(company),
		overrides: make(map[Stage]string, len(overrides)),
	}
	if s.company == "" {
		s.company = "our company"
	}

	for name, text := range overrides {
		stage, err := ParseStage(name)
		if err != nil {
			return nil, fmt.Errorf("override %q: %w", name, err)
		}
		if text = strings.TrimSpace(text); text != "" {
			s.overrides[stage] = text
		}
	}

	return s, nil
}

func (s *system) Instructions(stage Stage) (string, error) {
	text, ok := s.overrides[stage]
	if !ok {
		var err error
		if text, err = Instructions(stage); err != nil {
			return "", err
		}
	}
	return strings.ReplaceAll(text, companyPlaceholder, s.company), nil
}

func (s *system) Spec(stage Stage) (string, error) {
	return Spec(stage)
}

// Compose builds a system prompt from the stage instructions and spec,
// followed by any extra context sections in order.
func Compose(ps System, stage Stage, sections ...string) (string, error) {
	instructions, err := ps.Instructions(stage)
	if err != nil {
		return "", fmt.Errorf("load instructions for %s: %w", stage, err)
	}

	spec, err := ps.Spec(stage)
	if err != nil {
		return "", fmt.Errorf("load spec for %s: %w", stage, err)
	}

	var sb strings.Builder
	sb.WriteString(instructions)
	sb.WriteString("\n\n")
	sb.WriteString(spec)

	for _, section := range sections {
		if section = strings.TrimSpace(section); section == "" {
			continue
		}
		sb.WriteString("\n\n")
		sb.WriteString(section)
	}

	return sb.String(), nil
}
