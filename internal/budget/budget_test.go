package budget

import (
	"strings"
	"testing"
)

func TestEstimate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"ab", 1},
		{"abcd", 1},
		{"abcdefgh", 2},
		{strings.Repeat("x", 400), 100},
	}
	for _, tt := range tests {
		if got := Estimate(tt.in); got != tt.want {
			t.Errorf("Estimate(%d chars) = %d, want %d", len(tt.in), got, tt.want)
		}
	}
}

func TestTrimContext_FitsUntouched(t *testing.T) {
	t.Parallel()

	docs := []string{"doc one", "doc two"}
	got := TrimContext("short prompt", docs, 1000)
	if len(got) != 2 {
		t.Errorf("got %d docs, want 2", len(got))
	}
}

func TestTrimContext_DropsWeakestFirst(t *testing.T) {
	t.Parallel()

	// 100 tokens each; fixed takes 50; budget allows fixed + 2 docs.
	doc := strings.Repeat("x", 400)
	docs := []string{"best" + doc, "mid" + doc, "worst" + doc}
	fixed := strings.Repeat("f", 200)

	got := TrimContext(fixed, docs, 260)
	if len(got) != 2 {
		t.Fatalf("got %d docs, want 2", len(got))
	}
	if !strings.HasPrefix(got[0], "best") || !strings.HasPrefix(got[1], "mid") {
		t.Errorf("trim removed from the wrong end: %q, %q", got[0][:5], got[1][:5])
	}
}

func TestTrimContext_FixedAloneOverBudget(t *testing.T) {
	t.Parallel()

	got := TrimContext(strings.Repeat("f", 4000), []string{"doc"}, 100)
	if len(got) != 0 {
		t.Errorf("got %d docs, want 0 when fixed prompt exceeds budget", len(got))
	}
}

func TestTrimContext_ZeroBudgetUsesDefault(t *testing.T) {
	t.Parallel()

	docs := []string{"a", "b", "c"}
	if got := TrimContext("prompt", docs, 0); len(got) != 3 {
		t.Errorf("got %d docs, want all 3 under the default budget", len(got))
	}
}
