package portal

import (
	"testing"

	"github.com/ayame/salon-sync-go/internal/domain"
	"go.uber.org/zap"
)

const scheduleFixture = `
<html><body>
<table class="schedule">
<tr><th><h3>花子(25)</h3></th><td>備考</td><td>10:00〜15:00</td></tr>
<tr><th><h3>さくら</h3></th><td>18:00～</td></tr>
<tr><th><h3>葵(30)</h3></th><td>○</td></tr>
<tr><th><h3>凛(22)</h3></th><td>お休み</td></tr>
<tr><td>お知らせ：本日割引あり</td></tr>
</table>
</body></html>`

func TestShiftParserTieredFallback(t *testing.T) {
	parser := NewShiftParser(DefaultSelectors(), zap.NewNop())

	records, _, err := parser.Parse([]byte(scheduleFixture), "2026-09-01")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d: %+v", len(records), records)
	}

	if records[0].CastName != "花子" {
		t.Fatalf("age suffix must be stripped from the name, got %q", records[0].CastName)
	}
	if records[0].StartTime != "10:00" || records[0].EndTime != "15:00" {
		t.Fatalf("two matches in the last cell must map to start/end, got %s/%s",
			records[0].StartTime, records[0].EndTime)
	}

	if records[1].CastName != "さくら" {
		t.Fatalf("unexpected second record name %q", records[1].CastName)
	}
	if records[1].StartTime != "18:00" || records[1].EndTime != "26:00" {
		t.Fatalf("single match must default end to 26:00, got %s/%s",
			records[1].StartTime, records[1].EndTime)
	}

	if records[2].StartTime != "12:00" || records[2].EndTime != "26:00" {
		t.Fatalf("presence marker must yield the full-day window, got %s/%s",
			records[2].StartTime, records[2].EndTime)
	}

	for _, record := range records {
		if record.Date != "2026-09-01" {
			t.Fatalf("every record must carry the page date, got %q", record.Date)
		}
		if record.Status != "scheduled" {
			t.Fatalf("expected status scheduled, got %q", record.Status)
		}
	}
}

func TestShiftParserSkipOutcomes(t *testing.T) {
	parser := NewShiftParser(DefaultSelectors(), zap.NewNop())

	_, skipped, err := parser.Parse([]byte(scheduleFixture), "2026-09-01")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(skipped) != 2 {
		t.Fatalf("expected 2 skipped rows, got %d: %+v", len(skipped), skipped)
	}

	reasons := map[domain.SkipReason]int{}
	for _, skip := range skipped {
		reasons[skip.Reason]++
	}
	if reasons[domain.SkipNoTimeSignal] != 1 {
		t.Fatalf("day-off row must be skipped for no time signal, got %v", reasons)
	}
	if reasons[domain.SkipNoName] != 1 {
		t.Fatalf("headerless row must be skipped for no name, got %v", reasons)
	}
}

func TestShiftParserEmptyPage(t *testing.T) {
	parser := NewShiftParser(DefaultSelectors(), zap.NewNop())

	records, skipped, err := parser.Parse([]byte("<html><body></body></html>"), "2026-09-01")
	if err != nil {
		t.Fatalf("expected no error on an empty page, got %v", err)
	}
	if len(records) != 0 || len(skipped) != 0 {
		t.Fatalf("expected no records or skips, got %d/%d", len(records), len(skipped))
	}
}
