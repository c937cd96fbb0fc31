package formatting_test

import (
	"errors"
	"testing"

	"github.com/JaimeStill/dispatch/pkg/formatting"
)

type route struct {
	Department string  `json:"department"`
	Confidence float64 `json:"confidence"`
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    route
		wantErr bool
	}{
		{
			"direct JSON",
			`{"department":"Sales","confidence":0.8}`,
			route{"Sales", 0.8},
			false,
		},
		{
			"fenced JSON",
			"```json\n{\"department\":\"Support\",\"confidence\":0.7}\n```",
			route{"Support", 0.7},
			false,
		},
		{
			"fence without language tag",
			"```\n{\"department\":\"Finance\",\"confidence\":0.6}\n```",
			route{"Finance", 0.6},
			false,
		},
		{
			"object embedded in prose",
			`Sure. {"department":"Sales","confidence":0.9} Hope that helps.`,
			route{"Sales", 0.9},
			false,
		},
		{
			"no JSON",
			"I cannot decide.",
			route{},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatting.Parse[route](tt.input)
			if tt.wantErr {
				if !errors.Is(err, formatting.ErrParseFailed) {
					t.Fatalf("expected ErrParseFailed, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Parse = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseBytes(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"512", 512, false},
		{"1KB", 1024, false},
		{"10 mb", 10 * 1024 * 1024, false},
		{"1.5KB", 1536, false},
		{"", 0, true},
		{"ten", 0, true},
		{"5XB", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := formatting.ParseBytes(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseBytes(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseBytes(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseBytes(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		input int64
		want  string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{10 * 1024 * 1024, "10.0 MB"},
	}

	for _, tt := range tests {
		if got := formatting.FormatBytes(tt.input); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
