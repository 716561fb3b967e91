package portal

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ayame/salon-sync-go/internal/constants"
	"github.com/ayame/salon-sync-go/internal/domain"
	"github.com/ayame/salon-sync-go/internal/util"
	"github.com/ayame/salon-sync-go/pkg/errors"
	"go.uber.org/zap"
)

// ShiftParser extracts shift records from one day's schedule page.
type ShiftParser struct {
	sel    Selectors
	logger *zap.Logger
}

func NewShiftParser(sel Selectors, logger *zap.Logger) *ShiftParser {
	return &ShiftParser{
		sel:    sel,
		logger: logger,
	}
}

// Parse walks every schedule row, reads the name heading and the last cell,
// and applies the tiered time-window fallback. Rows with no name or no time
// signal become SkippedUnit outcomes rather than records; date is the
// calendar date the page was fetched for.
func (p *ShiftParser) Parse(markup []byte, date string) ([]domain.ExternalShiftRecord, []domain.SkippedUnit, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return nil, nil, errors.NewParseError("HTML parse failed", "schedule", err)
	}

	records := make([]domain.ExternalShiftRecord, 0)
	skipped := make([]domain.SkippedUnit, 0)

	doc.Find(p.sel.ScheduleRow).Each(func(i int, row *goquery.Selection) {
		name := StripAgeSuffix(row.Find(p.sel.ScheduleName).First().Text())
		if name == "" {
			skipped = append(skipped, domain.SkippedUnit{
				Reason:  domain.SkipNoName,
				Snippet: util.TruncateString(strings.TrimSpace(row.Text()), 60),
			})
			return
		}

		cells := row.Find(p.sel.ScheduleCells)
		if cells.Length() == 0 {
			skipped = append(skipped, domain.SkippedUnit{
				Reason:  domain.SkipNoTimeSignal,
				Snippet: name,
			})
			return
		}

		start, end, ok := ExtractTimeWindow(cells.Last().Text())
		if !ok {
			skipped = append(skipped, domain.SkippedUnit{
				Reason:  domain.SkipNoTimeSignal,
				Snippet: name,
			})
			return
		}

		record := domain.ExternalShiftRecord{
			CastName:  name,
			Date:      date,
			StartTime: start,
			EndTime:   end,
			Status:    constants.SyncConfig.ShiftStatus,
		}

		if p.sel.ScheduleRoom != "" {
			record.Room = strings.TrimSpace(row.Find(p.sel.ScheduleRoom).First().Text())
		}

		records = append(records, record)
	})

	p.logger.Debug("Parsed schedule page",
		zap.String("date", date),
		zap.Int("records", len(records)),
		zap.Int("skipped", len(skipped)))

	return records, skipped, nil
}
