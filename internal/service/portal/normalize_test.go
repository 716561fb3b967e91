package portal

import "testing"

func TestExtractTimeWindowTwoMatches(t *testing.T) {
	start, end, ok := ExtractTimeWindow("受付 10:00〜15:00 まで")
	if !ok {
		t.Fatalf("expected a time window")
	}
	if start != "10:00" || end != "15:00" {
		t.Fatalf("expected 10:00/15:00, got %s/%s", start, end)
	}
}

func TestExtractTimeWindowOrderIndependentOfSurroundingText(t *testing.T) {
	start, end, ok := ExtractTimeWindow("延長あり 18:30 から 26:00 (最終受付)")
	if !ok {
		t.Fatalf("expected a time window")
	}
	if start != "18:30" || end != "26:00" {
		t.Fatalf("first match must be start, second end; got %s/%s", start, end)
	}
}

func TestExtractTimeWindowSingleMatchDefaultsEnd(t *testing.T) {
	start, end, ok := ExtractTimeWindow("18:00～")
	if !ok {
		t.Fatalf("expected a time window")
	}
	if start != "18:00" {
		t.Fatalf("expected start 18:00, got %s", start)
	}
	if end != "26:00" {
		t.Fatalf("single match must default end to 26:00, got %s", end)
	}
}

func TestExtractTimeWindowPresenceMarker(t *testing.T) {
	start, end, ok := ExtractTimeWindow("○")
	if !ok {
		t.Fatalf("presence marker must yield the full-day window")
	}
	if start != "12:00" || end != "26:00" {
		t.Fatalf("expected 12:00/26:00, got %s/%s", start, end)
	}
}

func TestExtractTimeWindowNoSignal(t *testing.T) {
	if _, _, ok := ExtractTimeWindow("お休み"); ok {
		t.Fatalf("expected no time window for a day-off cell")
	}
}

func TestSplitNameAge(t *testing.T) {
	name, age, ok := SplitNameAge("花子(25)")
	if !ok {
		t.Fatalf("expected a split")
	}
	if name != "花子" || age != 25 {
		t.Fatalf("expected 花子/25, got %s/%d", name, age)
	}
}

func TestSplitNameAgeFullWidthParens(t *testing.T) {
	name, age, ok := SplitNameAge("さくら（30）")
	if !ok {
		t.Fatalf("expected a split for full-width parentheses")
	}
	if name != "さくら" || age != 30 {
		t.Fatalf("expected さくら/30, got %s/%d", name, age)
	}
}

func TestSplitNameAgeMissingSuffix(t *testing.T) {
	if _, _, ok := SplitNameAge("花子"); ok {
		t.Fatalf("heading without age suffix must be rejected, not defaulted")
	}
}

func TestStripAgeSuffix(t *testing.T) {
	if got := StripAgeSuffix("花子(25)"); got != "花子" {
		t.Fatalf("expected 花子, got %q", got)
	}
	if got := StripAgeSuffix("さくら"); got != "さくら" {
		t.Fatalf("name without suffix must pass through, got %q", got)
	}
}

func TestParseBodyMetricsFull(t *testing.T) {
	m := ParseBodyMetrics("T.160 B.88(D) W.58 H.86")
	if m.Height == nil || *m.Height != 160 {
		t.Fatalf("expected height 160, got %v", m.Height)
	}
	if m.Bust == nil || *m.Bust != 88 {
		t.Fatalf("expected bust 88, got %v", m.Bust)
	}
	if m.CupSize == nil || *m.CupSize != "D" {
		t.Fatalf("expected cup D, got %v", m.CupSize)
	}
	if m.Waist == nil || *m.Waist != 58 {
		t.Fatalf("expected waist 58, got %v", m.Waist)
	}
	if m.Hip == nil || *m.Hip != 86 {
		t.Fatalf("expected hip 86, got %v", m.Hip)
	}
}

func TestParseBodyMetricsPartial(t *testing.T) {
	m := ParseBodyMetrics("T.155 B.84")
	if m.Height == nil || *m.Height != 155 {
		t.Fatalf("expected height 155, got %v", m.Height)
	}
	if m.Bust == nil || *m.Bust != 84 {
		t.Fatalf("expected bust 84, got %v", m.Bust)
	}
	if m.CupSize != nil {
		t.Fatalf("absent cup must stay nil, got %v", *m.CupSize)
	}
	if m.Waist != nil || m.Hip != nil {
		t.Fatalf("absent waist/hip must stay nil")
	}
}

func TestExtractDigits(t *testing.T) {
	years, ok := ExtractDigits("エステ歴3年")
	if !ok || years != 3 {
		t.Fatalf("expected 3, got %d (ok=%v)", years, ok)
	}
	if _, ok := ExtractDigits("未経験"); ok {
		t.Fatalf("text without digits must not extract")
	}
}

func TestExtractExternalID(t *testing.T) {
	id, ok := ExtractExternalID("/therapists/101")
	if !ok || id != "101" {
		t.Fatalf("expected 101, got %q (ok=%v)", id, ok)
	}

	id, ok = ExtractExternalID("https://portal.example.jp:8443/girls/205/profile?ref=3")
	if !ok || id != "205" {
		t.Fatalf("last numeric path segment must win, got %q (ok=%v)", id, ok)
	}

	if _, ok := ExtractExternalID("/therapists/profile"); ok {
		t.Fatalf("link without numeric id must be rejected")
	}
}

func TestExtractXHandle(t *testing.T) {
	handle, ok := ExtractXHandle("https://x.com/hanako_x?s=21")
	if !ok || handle != "hanako_x" {
		t.Fatalf("expected hanako_x, got %q (ok=%v)", handle, ok)
	}

	handle, ok = ExtractXHandle("https://twitter.com/@sakura_t/status/1")
	if !ok || handle != "sakura_t" {
		t.Fatalf("expected sakura_t, got %q (ok=%v)", handle, ok)
	}

	if _, ok := ExtractXHandle("https://instagram.com/hanako"); ok {
		t.Fatalf("non-X hosts must be rejected")
	}
}

func TestResolveURL(t *testing.T) {
	got := ResolveURL("https://portal.example.jp", "/therapists/101")
	if got != "https://portal.example.jp/therapists/101" {
		t.Fatalf("unexpected resolved URL: %s", got)
	}

	got = ResolveURL("https://portal.example.jp", "https://cdn.example.com/a.jpg")
	if got != "https://cdn.example.com/a.jpg" {
		t.Fatalf("absolute href must pass through, got %s", got)
	}
}
