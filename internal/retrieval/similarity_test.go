package retrieval

import "testing"

func TestScore_EmptyInput(t *testing.T) {
	tests := []struct {
		name string
		a, b string
	}{
		{name: "both empty", a: "", b: ""},
		{name: "first empty", a: "", b: "show customers"},
		{name: "second empty", a: "show customers", b: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.a, tt.b); got != 0 {
				t.Errorf("Score(%q, %q) = %g, want 0", tt.a, tt.b, got)
			}
		})
	}
}

func TestScore_SelfIdentity(t *testing.T) {
	questions := []string{
		"show all customers",
		"Count total orders",
		"What products sold best last quarter?",
	}
	for _, q := range questions {
		if got := Score(q, q); got != 1.0 {
			t.Errorf("Score(%q, itself) = %g, want exactly 1.0", q, got)
		}
	}
}

func TestScore_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"show all customers", "show me all customers"},
		{"count total orders", "what is today's weather"},
		{"top products by revenue", "highest revenue products"},
		// Multiple equal-length common blocks: the block recursion would
		// partition differently per argument order without a canonical order.
		{"list users", "sum of sales by region"},
		{"abcxabc", "abcyabc"},
		{"clients à paris", "ventes à lyon"},
	}
	for _, p := range pairs {
		ab := Score(p[0], p[1])
		ba := Score(p[1], p[0])
		if ab != ba {
			t.Errorf("Score(%q, %q) = %g but reversed = %g", p[0], p[1], ab, ba)
		}
	}
}

func TestScore_Bounded(t *testing.T) {
	pairs := [][2]string{
		{"show all customers", "show all customers"},
		// Keyword-dense pair: many shared keywords push the raw score
		// past 1.0 before clamping.
		{"show count sum total revenue sales top customers orders", "show count sum total revenue sales top customers orders please"},
		{"x", "y"},
		{"a the an", "of with by"},
	}
	for _, p := range pairs {
		got := Score(p[0], p[1])
		if got < 0 || got > 1 {
			t.Errorf("Score(%q, %q) = %g, out of [0, 1]", p[0], p[1], got)
		}
	}
}

func TestScore_NearIdenticalQuestions(t *testing.T) {
	got := Score("Show me all customers", "Show all customers")
	if got < 0.8 {
		t.Errorf("Score of near-identical questions = %g, want >= 0.8", got)
	}
}

func TestScore_UnrelatedQuestions(t *testing.T) {
	got := Score("Count total orders", "What is today's weather")
	if got >= 0.3 {
		t.Errorf("Score of unrelated questions = %g, want < 0.3", got)
	}
}

func TestScore_KeywordBonusRaisesScore(t *testing.T) {
	// Same phrasing distance, but the second pair shares domain keywords.
	plain := Score("describe everything here", "describe nothing there")
	boosted := Score("show customers revenue", "show revenue customers")
	if boosted <= plain {
		t.Errorf("keyword-sharing pair scored %g, plain pair %g; want boosted > plain", boosted, plain)
	}
}

func TestMatchRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "both empty", a: "", b: "", want: 1},
		{name: "identical", a: "abc", b: "abc", want: 1},
		{name: "disjoint", a: "abc", b: "xyz", want: 0},
		{name: "half", a: "ab", b: "abcdef", want: 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchRatio(tt.a, tt.b); got != tt.want {
				t.Errorf("matchRatio(%q, %q) = %g, want %g", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestLongestCommonBlock(t *testing.T) {
	tests := []struct {
		name                 string
		a, b                 string
		wantAI, wantBI, size int
	}{
		{name: "no overlap", a: "abc", b: "xyz", wantAI: 0, wantBI: 0, size: 0},
		{name: "full overlap", a: "abc", b: "abc", wantAI: 0, wantBI: 0, size: 3},
		{name: "middle block", a: "xxhelloyy", b: "zhelloz", wantAI: 2, wantBI: 1, size: 5},
		{name: "prefers earliest", a: "abab", b: "ab", wantAI: 0, wantBI: 0, size: 2},
		// Indexes are rune offsets, not byte offsets.
		{name: "multi-byte runes", a: "où vont", b: "où", wantAI: 0, wantBI: 0, size: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ai, bi, size := longestCommonBlock([]rune(tt.a), []rune(tt.b))
			if ai != tt.wantAI || bi != tt.wantBI || size != tt.size {
				t.Errorf("longestCommonBlock(%q, %q) = (%d, %d, %d), want (%d, %d, %d)",
					tt.a, tt.b, ai, bi, size, tt.wantAI, tt.wantBI, tt.size)
			}
		})
	}
}

func TestMatchRatio_MultiByte(t *testing.T) {
	if got := matchRatio("héllo", "héllo"); got != 1 {
		t.Errorf("matchRatio of identical accented strings = %g, want 1", got)
	}
	// Lengths count runes: "naive" and "naïve" share "na" and "ve".
	if got := matchRatio("naive", "naïve"); got != 0.8 {
		t.Errorf("matchRatio(naive, naïve) = %g, want 0.8", got)
	}
}

func TestTokenJaccard(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "both empty", a: "", b: "", want: 1},
		{name: "identical", a: "show customers", b: "show customers", want: 1},
		{name: "disjoint", a: "show customers", b: "count orders", want: 0},
		{name: "half overlap", a: "show customers", b: "show orders deleted", want: 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tokenJaccard(tt.a, tt.b); got != tt.want {
				t.Errorf("tokenJaccard(%q, %q) = %g, want %g", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
