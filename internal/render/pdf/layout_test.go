package pdf

import (
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"timesheet.reports/internal/core/model"
)

func reportWithEntries(n int) *model.AggregateReport {
	report := &model.AggregateReport{Client: model.Client{ID: 1, Name: "Acme"}}
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		desc := fmt.Sprintf("Task %d", i+1)
		report.WorkEntries = append(report.WorkEntries, model.WorkEntry{
			ID:          int64(i + 1),
			Hours:       decimal.NewFromInt(1),
			Description: &desc,
			Date:        start.AddDate(0, 0, i),
		})
	}
	report.EntryCount = n
	report.TotalHours = decimal.NewFromInt(int64(n))
	return report
}

// monoWidth treats every glyph as half the font size wide.
func monoWidth(text string, fontSize float64) float64 {
	return float64(utf8.RuneCountInString(text)) * fontSize * 0.5
}

func countOps(ops []Op, kind OpKind) int {
	n := 0
	for _, op := range ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

func TestPlanSixEntriesDrawsHeaderRuleAndOneSeparator(t *testing.T) {
	ops := Plan(NewDocument(reportWithEntries(6)), monoWidth)

	assert.Equal(t, OpNewPage, ops[0].Kind)
	assert.Equal(t, 1, countOps(ops, OpNewPage))
	assert.Equal(t, 2, countOps(ops, OpRule))
}

func TestPlanSummary(t *testing.T) {
	report := reportWithEntries(2)
	report.TotalHours = decimal.RequireFromString("8.5")

	ops := Plan(NewDocument(report), monoWidth)

	var texts []string
	for _, op := range ops {
		if op.Kind == OpText {
			texts = append(texts, op.Text)
		}
	}
	assert.Equal(t, "Time Report for Acme", texts[0])
	assert.Contains(t, texts, "Total Hours: 8.50")
	assert.Contains(t, texts, "Total Entries: 2")
	assert.Contains(t, texts, "Description")
}

func TestPlanZeroEntries(t *testing.T) {
	ops := Plan(NewDocument(reportWithEntries(0)), monoWidth)

	assert.Equal(t, 1, countOps(ops, OpNewPage))
	assert.Equal(t, 1, countOps(ops, OpRule), "header rule only")
}

func TestPlanBreaksPageOnceCursorPassesThreshold(t *testing.T) {
	ops := Plan(NewDocument(reportWithEntries(40)), monoWidth)

	assert.Equal(t, 2, countOps(ops, OpNewPage))
	// header rule plus one after every fifth entry
	assert.Equal(t, 1+40/SeparatorEvery, countOps(ops, OpRule))

	page := 0
	for _, op := range ops {
		switch op.Kind {
		case OpNewPage:
			page++
		case OpText:
			if op.Text == "Task 27" {
				assert.Equal(t, 2, page)
				assert.Equal(t, TopMargin, op.Y)
			}
			if op.Text == "Task 26" {
				assert.Equal(t, 1, page)
				assert.LessOrEqual(t, op.Y, PageBreakY)
			}
		}
	}
}

func TestLayoutSeparatorCountIsCumulative(t *testing.T) {
	l := NewLayout()
	var separators []int
	for i := 1; i <= 15; i++ {
		l = l.Emitted()
		if i == 7 {
			l = l.BreakPage()
		}
		if l.NeedsSeparator() {
			separators = append(separators, l.EntriesEmitted)
		}
	}

	assert.Equal(t, []int{5, 10, 15}, separators)
	assert.Equal(t, 2, l.Page)
}

func TestLayoutPageBreakThreshold(t *testing.T) {
	l := NewLayout()
	assert.False(t, l.Advance(PageBreakY-TopMargin).NeedsPageBreak(), "exactly at the threshold stays")
	assert.True(t, l.Advance(PageBreakY-TopMargin+0.5).NeedsPageBreak())
}

func TestNewDocumentFallsBackForMissingDescription(t *testing.T) {
	empty := ""
	report := &model.AggregateReport{
		Client: model.Client{Name: "Acme"},
		WorkEntries: []model.WorkEntry{
			{Hours: decimal.NewFromInt(1)},
			{Hours: decimal.NewFromInt(1), Description: &empty},
		},
	}

	doc := NewDocument(report)

	require.Len(t, doc.Rows, 2)
	assert.Equal(t, NoDescription, doc.Rows[0].Description)
	assert.Equal(t, NoDescription, doc.Rows[1].Description)
}

func TestWrapText(t *testing.T) {
	// 300pt at 10pt font fits 60 glyphs of half the font size
	long := strings.Repeat("word ", 30)
	lines := WrapText(long, DescColumnWidth, BodyFontSize, monoWidth)
	require.Len(t, lines, 3)
	for _, line := range lines {
		assert.LessOrEqual(t, len(line), 60)
	}

	assert.Equal(t, []string{""}, WrapText("", DescColumnWidth, BodyFontSize, monoWidth))
	assert.Equal(t, []string{"a", "b"}, WrapText("a\nb", DescColumnWidth, BodyFontSize, monoWidth))

	unbroken := WrapText(strings.Repeat("x", 130), DescColumnWidth, BodyFontSize, monoWidth)
	assert.Equal(t, []int{60, 60, 10}, []int{len(unbroken[0]), len(unbroken[1]), len(unbroken[2])})
}

func TestPlanAdvancesPastWrappedDescriptions(t *testing.T) {
	report := reportWithEntries(2)
	long := strings.Repeat("word ", 30)
	report.WorkEntries[0].Description = &long

	ops := Plan(NewDocument(report), monoWidth)

	var dates []Op
	for _, op := range ops {
		if op.Kind == OpText && op.X == DateColumnX && strings.HasPrefix(op.Text, "2026-") {
			dates = append(dates, op)
		}
	}
	require.Len(t, dates, 2)
	assert.Equal(t, 3*LineHeight+RowPadding, dates[1].Y-dates[0].Y)
}

func descriptionLines(ops []Op) []string {
	var lines []string
	for _, op := range ops {
		if op.Kind == OpText && op.X == DescColumnX && op.FontSize == BodyFontSize && !op.Bold {
			lines = append(lines, op.Text)
		}
	}
	return lines
}

func assertTextInsidePage(t *testing.T, ops []Op) {
	t.Helper()
	for _, op := range ops {
		if op.Kind == OpText {
			assert.LessOrEqual(t, op.Y, ContentBottom, "text %q", op.Text)
		}
	}
}

func TestPlanKeepsLongDescriptionsOnThePage(t *testing.T) {
	long := strings.TrimSpace(strings.Repeat("lorem ipsum ", 83))

	for index := 0; index <= 40; index++ {
		report := reportWithEntries(40)
		desc := long
		report.WorkEntries = append(report.WorkEntries[:index],
			append([]model.WorkEntry{{ID: 99, Hours: decimal.NewFromInt(1), Description: &desc, Date: report.WorkEntries[0].Date}},
				report.WorkEntries[index:]...)...)

		ops := Plan(NewDocument(report), monoWidth)

		assertTextInsidePage(t, ops)
		assert.Contains(t, strings.Join(descriptionLines(ops), " "), long, "long row at index %d", index)
	}
}

func TestPlanMovesRowThatWouldCrossBottomMargin(t *testing.T) {
	l := NewLayout().Advance(PageBreakY - TopMargin)
	long := strings.Repeat("word ", 120) // 10 lines

	ops, next := planRow(l, Row{Date: "2026-01-01", Hours: "1", Description: long}, monoWidth)

	require.Equal(t, OpNewPage, ops[0].Kind)
	assert.Equal(t, TopMargin, ops[1].Y)
	assert.Equal(t, 2, next.Page)
	assertTextInsidePage(t, ops)
}

func TestPlanContinuesRowTallerThanAPage(t *testing.T) {
	// every two-letter word fills a line of its own
	wide := func(text string, _ float64) float64 {
		return float64(utf8.RuneCountInString(text)) * 100
	}
	desc := strings.TrimSpace(strings.Repeat("ab ", 80))
	report := reportWithEntries(1)
	report.WorkEntries[0].Description = &desc

	ops := Plan(NewDocument(report), wide)

	assertTextInsidePage(t, ops)
	assert.Len(t, descriptionLines(ops), 80)
	assert.Equal(t, 2, countOps(ops, OpNewPage))

	page := 0
	for _, op := range ops {
		if op.Kind == OpNewPage {
			page++
		}
		if op.Kind == OpText && op.Text == "2026-01-01" {
			assert.Equal(t, 1, page, "row starts under the header")
		}
	}
}
