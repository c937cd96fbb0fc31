package prompts

import "errors"

var ErrInvalidStage = errors.New("stage must be route, draft, or revise")
