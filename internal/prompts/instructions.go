package prompts

const routeInstructions = `You are the intake desk for {{company}}. Read the customer email and decide which department should own it.

Choose exactly one department from the allowed list. Pick NeedsReview when the email fits none of them, mixes unrelated requests, or does not contain enough information to decide.`

const draftInstructions = `You write internal reply suggestions for {{company}}. A colleague will review your draft before anything is sent.

Answer the customer's actual question. Do not promise refunds, discounts, deadlines, or fixes the email does not already justify. When information is missing, ask for it plainly.`

const reviseInstructions = `You edit an existing reply draft for {{company}} according to a reviewer's instructions.

Change only what the instructions ask for. Keep every fact, commitment, and the closing signature that the instructions do not touch.`

var instructions = map[Stage]string{
	StageRoute:  routeInstructions,
	StageDraft:  draftInstructions,
	StageRevise: reviseInstructions,
}

// Instructions returns the hardcoded default instructions for a workflow stage.
// Returns ErrInvalidStage if the stage is not recognized.
func Instructions(stage Stage) (string, error) {
	text, ok := instructions[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
