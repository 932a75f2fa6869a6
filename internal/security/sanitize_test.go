package security

import (
	"strings"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text unchanged",
			input: "John Doe",
			want:  "John Doe",
		},
		{
			name:  "email address preserved",
			input: "a.user@example.com",
			want:  "a.user@example.com",
		},
		{
			name:  "markup characters removed",
			input: `<script>a&b'c"d`,
			want:  "scriptabcd",
		},
		{
			name:  "disallowed punctuation removed",
			input: "Main St. 4; DROP TABLE orders!",
			want:  "Main St. 4 DROP TABLE orders",
		},
		{
			name:  "surrounding whitespace trimmed",
			input: "  Erik Svensson  ",
			want:  "Erik Svensson",
		},
		{
			name:  "phone number with dashes",
			input: "+46-70-123 45 67",
			want:  "46-70-123 45 67",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.input)
			if got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitize_NoDangerousCharacters(t *testing.T) {
	got := Sanitize(`<script>a&b'c"d`)
	if strings.ContainsAny(got, `<>&'"`) {
		t.Errorf("Sanitize left dangerous characters in %q", got)
	}
}

func TestSanitize_TruncatesLongInput(t *testing.T) {
	input := strings.Repeat("a", 1000)
	got := Sanitize(input)
	if len([]rune(got)) != 255 {
		t.Errorf("Sanitize length = %d, want 255", len([]rune(got)))
	}
}
