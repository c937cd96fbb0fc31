package inbox

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/JaimeStill/dispatch/pkg/formatting"
)

// Load reads a JSON array of email objects from path. Lines may carry
// trailing // comments and anything after the final ']' is ignored, so
// sample files can keep commented-out records. A non-array document or any
// non-object entry fails the whole load. maxSize <= 0 disables the limit.
func Load(path string, maxSize int64) ([]Email, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	if maxSize > 0 && info.Size() > maxSize {
		return nil, fmt.Errorf(
			"%w: %s is %s, limit %s",
			ErrSourceTooLarge, path,
			formatting.FormatBytes(info.Size()),
			formatting.FormatBytes(maxSize),
		)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return Parse(data)
}

// Parse decodes and preprocesses an email source document.
func Parse(data []byte) ([]Email, error) {
	cleaned, err := stripComments(data)
	if err != nil {
		return nil, err
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(cleaned, &raw); err != nil {
		return nil, fmt.Errorf("%w: email data must be a JSON list of objects: %w", ErrInvalidSource, err)
	}

	emails := make([]Email, 0, len(raw))
	for i, item := range raw {
		trimmed := bytes.TrimSpace(item)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			return nil, fmt.Errorf("%w: email at index %d is not an object", ErrInvalidSource, i)
		}

		var rec record
		if err := json.Unmarshal(trimmed, &rec); err != nil {
			return nil, fmt.Errorf("%w: email at index %d: %w", ErrInvalidSource, i, err)
		}

		e := Preprocess(rec.email())
		if e.ID == "" {
			e.ID = fmt.Sprintf("email_%03d", i+1)
		}
		emails = append(emails, e)
	}

	return emails, nil
}

// record tolerates the field spellings seen in exported mailboxes.
type record struct {
	ID      any    `json:"id"`
	EmailID any    `json:"email_id"`
	From    string `json:"from"`
	Sender  string `json:"sender"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (r record) email() Email {
	id := scalar(r.ID)
	if id == "" {
		id = scalar(r.EmailID)
	}
	from := r.From
	if from == "" {
		from = r.Sender
	}
	return Email{
		ID:      id,
		From:    from,
		To:      r.To,
		Subject: r.Subject,
		Body:    r.Body,
		RawBody: r.Body,
	}
}

func scalar(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

func stripComments(data []byte) ([]byte, error) {
	content := string(data)

	last := strings.LastIndex(content, "]")
	if last == -1 {
		return nil, fmt.Errorf("%w: no closing bracket found", ErrInvalidSource)
	}
	content = content[:last+1]

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if idx := commentStart(line); idx >= 0 {
			line = line[:idx]
		}
		lines[i] = strings.TrimRight(line, " \t\r")
	}

	return []byte(strings.Join(lines, "\n")), nil
}

// commentStart returns the index of a // outside any string literal, or -1.
func commentStart(line string) int {
	inString := false
	escaped := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case c == '/' && !inString && i+1 < len(line) && line[i+1] == '/':
			return i
		}
	}
	return -1
}
