// Package prompts holds the system prompts dispatch sends to the language
// model. Each stage pairs tunable instructions with an immutable output
// specification.
package prompts

import (
	"slices"
	"strings"
)

// Stage identifies a workflow stage that talks to the model.
type Stage string

// Valid workflow stages.
const (
	StageRoute  Stage = "route"
	StageDraft  Stage = "draft"
	StageRevise Stage = "revise"
)

var stages = []Stage{
	StageRoute,
	StageDraft,
	StageRevise,
}

// Stages returns the list of valid workflow stages.
func Stages() []Stage {
	return stages
}

// ParseStage validates a string as a known workflow stage.
// Returns ErrInvalidStage if the value is not recognized.
func ParseStage(s string) (Stage, error) {
	v := Stage(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(stages, v) {
		return "", ErrInvalidStage
	}
	return v, nil
}
