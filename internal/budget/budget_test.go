package budget

import "testing"

func TestEstimateTokensFromChars(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{0, 0},
		{1, 1},
		{4, 1},
		{5, 2},
		{400, 100},
	}
	for _, c := range cases {
		if got := EstimateTokensFromChars(c.in); got != c.want {
			t.Fatalf("EstimateTokensFromChars(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestEstimateTokens_CountsRunes(t *testing.T) {
	// 8 runes, 12 bytes.
	if got := EstimateTokens("één café"); got != 2 {
		t.Fatalf("EstimateTokens = %d, want 2", got)
	}
	if got := EstimatePromptTokens("system", "user message"); got != 5 {
		t.Fatalf("EstimatePromptTokens = %d, want 5", got)
	}
}

func TestModelContextTokens(t *testing.T) {
	if ModelContextTokens("") != 8192 {
		t.Fatal("empty model should default to 8192")
	}
	if ModelContextTokens("GPT-4o") != 128_000 {
		t.Fatal("lookup should be case-insensitive")
	}
	if ModelContextTokens("mystery-512k") != 512_000 {
		t.Fatal("numeric suffix heuristic 512k should map to 512k tokens")
	}
	if ModelContextTokens("tiny-mini") != 128_000 {
		t.Fatal("mini models assume 128k")
	}
}

func TestHeadroomAndRemaining(t *testing.T) {
	if HeadroomTokens("") != 512 {
		t.Fatalf("headroom floor = %d, want 512", HeadroomTokens(""))
	}
	if HeadroomTokens("gpt-4o") != 6400 {
		t.Fatalf("headroom gpt-4o = %d, want 6400", HeadroomTokens("gpt-4o"))
	}
	if got := RemainingContext("", 1000, 1000); got != 8192-512-2000 {
		t.Fatalf("RemainingContext = %d", got)
	}
	if RemainingContext("", 10_000, 0) != 0 {
		t.Fatal("remaining must never be negative")
	}
}

func TestDraftOutputTokens(t *testing.T) {
	if DraftOutputTokens(3) != 1600+3*350 {
		t.Fatalf("DraftOutputTokens(3) = %d", DraftOutputTokens(3))
	}
	if DraftOutputTokens(-1) != 1600 {
		t.Fatal("negative platform count treated as zero")
	}
}

func TestClampOutputTokens(t *testing.T) {
	if got := ClampOutputTokens("gpt-4o", 1000, 2000); got != 2000 {
		t.Fatalf("large model should grant request, got %d", got)
	}
	// 8192 - 512 - 7000 = 680 available.
	if got := ClampOutputTokens("", 7000, 2000); got != 680 {
		t.Fatalf("clamped = %d, want 680", got)
	}
	if got := ClampOutputTokens("", 7500, 2000); got != 0 {
		t.Fatalf("below minimum should be 0, got %d", got)
	}
}
