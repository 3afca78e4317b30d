package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	cases := []struct {
		input string
		want  string
		ok    bool
	}{
		{"+56961234567", "+56961234567", true},
		{"9 6123 4567", "+56961234567", true},
		{"  +56 9 6123 4567  ", "+56961234567", true},
		{"", "", false},
		{"not a phone", "", false},
		{"123", "", false},
	}
	for _, tc := range cases {
		got, err := NormalizeE164(tc.input)
		if tc.ok && err != nil {
			t.Fatalf("NormalizeE164(%q) unexpected error: %v", tc.input, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("NormalizeE164(%q) expected error, got %q", tc.input, got)
		}
		if tc.ok && got != tc.want {
			t.Fatalf("NormalizeE164(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
