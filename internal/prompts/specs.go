package prompts

const routeSpec = `Respond with a JSON object matching this exact structure:

{
  "department": "<department id>",
  "confidence": 0.0,
  "summary": "<one line>"
}

Field constraints:
- department: One id from the allowed departments listed below, copied
  exactly, or NeedsReview.
- confidence: Number between 0 and 1 describing how certain the choice is.
- summary: One sentence describing what the customer wants.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Never invent a department that is not in the allowed list`

const draftSpec = `Respond with the reply text only.

Behavioral constraints:
- Plain text, no markdown, no subject line
- Follow every rule in the constraints block appended to the email
- End with the required signature exactly as given, when one is given
- Never include internal notes, confidence values, or routing details`

const reviseSpec = `Respond with the full revised reply text only.

Behavioral constraints:
- Plain text, no markdown, no commentary about the edits
- Apply the reviewer instructions and nothing else
- End with the required signature exactly as given, when one is given`

var specs = map[Stage]string{
	StageRoute:  routeSpec,
	StageDraft:  draftSpec,
	StageRevise: reviseSpec,
}

// Spec returns the hardcoded specification for a workflow stage.
// Specifications define the expected output format and behavioral constraints.
// Returns ErrInvalidStage if the stage is not recognized.
func Spec(stage Stage) (string, error) {
	text, ok := specs[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
