package draft

import "testing"

func TestValidPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"(555) 123-4567", true},
		{"+1 555 123 4567", true},
		{"5550001111", true},
		{"555-000-1111", true},
		{"555-12", false},             // too few digits
		{"abc-defg-hijk", false},      // letters
		{"555.000.1111", false},       // dots are not accepted formatting
		{"", false},                   // pattern requires at least one character
		{"          ", false},         // formatting only, zero digits
		{"(((1234567890)))", true},    // odd but matches the rule
		{"123456789", false},          // nine digits
		{"+972 (54) 123-4567", true},  // international formatting
		{"555 000 1111 ext 2", false}, // trailing letters
	}

	for _, tt := range tests {
		if got := ValidPhone(tt.phone); got != tt.want {
			t.Errorf("ValidPhone(%q) = %v, want %v", tt.phone, got, tt.want)
		}
	}
}
