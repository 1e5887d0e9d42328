package speech

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"lowercases", "Three", "three"},
		{"trims whitespace", "  five  ", "five"},
		{"drops trailing period", "five.", "five"},
		{"drops multiple trailing periods", "two..", "two"},
		{"strips punctuation", "f!ve?", "fve"},
		{"keeps digits", "5", "5"},
		{"first token only", "three please", "three"},
		{"punctuation only", "?!.", ""},
		{"leading junk collapses", "  ,,four", "four"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.input); got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"Five.", "  TO ", "3rd", "three please", ""}
	for _, input := range inputs {
		once := Normalize(input)
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}
