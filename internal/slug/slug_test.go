package slug

import (
	"testing"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "simple name",
			input: "Tools",
			want:  "tools",
		},
		{
			name:  "spaces become hyphens",
			input: "Food and Water",
			want:  "food-and-water",
		},
		{
			name:  "punctuation is stripped",
			input: "Water & Sanitation",
			want:  "water-sanitation",
		},
		{
			name:  "surrounding whitespace trimmed",
			input: "  Medical Supplies  ",
			want:  "medical-supplies",
		},
		{
			name:  "repeated hyphens collapse",
			input: "a -- b",
			want:  "a-b",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.input); got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
