package retrieval

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "whitespace only", input: "   \t\n  ", want: ""},
		{name: "lowercases", input: "SHOW Customers", want: "show customers"},
		{
			name:  "collapses whitespace",
			input: "show   all \t customers",
			want:  "show all customers",
		},
		{
			name:  "removes stop words",
			input: "Show me the total revenue for the last month",
			want:  "show me total revenue last month",
		},
		{
			name:  "only stop words",
			input: "the a an and or",
			want:  "",
		},
		{
			name:  "trims",
			input: "  count orders  ",
			want:  "count orders",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"Show me ALL the customers",
		"  What   is the total   revenue? ",
		"count orders by region",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}
