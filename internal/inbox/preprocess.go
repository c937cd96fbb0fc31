package inbox

import (
	"regexp"
	"strings"
)

var quotedReply = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\nOn .* wrote:\n`),
	regexp.MustCompile(`(?i)\nFrom: .*`),
}

var signatureSplit = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\n--\s*\n`),
	regexp.MustCompile(`(?i)\nRegards,\n`),
	regexp.MustCompile(`(?i)\nBest regards,\n`),
	regexp.MustCompile(`(?i)\nSincerely,\n`),
}

// Preprocess trims fields, normalizes line breaks, and drops the first
// quoted-reply section and the first signature block from the body.
func Preprocess(e Email) Email {
	body := strings.ReplaceAll(e.Body, "\r\n", "\n")
	body = strings.ReplaceAll(body, "\r", "\n")
	body = strings.TrimSpace(body)

	for _, re := range quotedReply {
		if loc := re.FindStringIndex(body); loc != nil {
			body = strings.TrimSpace(body[:loc[0]])
			break
		}
	}

	for _, re := range signatureSplit {
		if loc := re.FindStringIndex(body); loc != nil {
			body = strings.TrimSpace(body[:loc[0]])
			break
		}
	}

	return Email{
		ID:      strings.TrimSpace(e.ID),
		From:    strings.TrimSpace(e.From),
		To:      strings.TrimSpace(e.To),
		Subject: strings.TrimSpace(e.Subject),
		Body:    body,
		RawBody: e.RawBody,
	}
}
