// Package pdf lays out the client time report. Layout decisions are pure functions over
// a small state struct and produce drawing ops; a Canvas replays the ops.
package pdf

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"timesheet.reports/internal/core/model"
)

// Layout units are PDF points on an A4 portrait page.
const (
	PageWidth       = 595.28
	PageHeight      = 841.89
	MarginLeft      = 50.0
	MarginRight     = 50.0
	TopMargin       = 50.0
	BottomMargin    = 50.0
	ContentBottom   = PageHeight - BottomMargin
	PageBreakY      = 700.0
	SeparatorEvery  = 5
	TitleFontSize   = 20.0
	SummaryFontSize = 12.0
	BodyFontSize    = 10.0
	LineHeight      = 15.0
	RowPadding      = 5.0
	SeparatorGap    = 5.0

	DateColumnX      = MarginLeft
	DateColumnWidth  = 80.0
	HoursColumnX     = DateColumnX + DateColumnWidth
	HoursColumnWidth = 80.0
	DescColumnX      = HoursColumnX + HoursColumnWidth
	DescColumnWidth  = 300.0
)

const NoDescription = "No description"

// MeasureFunc returns the rendered width of text at fontSize in layout units.
type MeasureFunc func(text string, fontSize float64) float64

type OpKind int

const (
	OpNewPage OpKind = iota
	OpText
	OpRule
)

type Align int

const (
	AlignLeft Align = iota
	AlignCenter
)

// Op is a single drawing instruction. Y is the text baseline or the rule height.
type Op struct {
	Kind     OpKind
	X        float64
	Y        float64
	Width    float64
	FontSize float64
	Bold     bool
	Align    Align
	Text     string
}

// Layout is the pagination state carried from row to row.
type Layout struct {
	CursorY        float64
	Page           int
	EntriesEmitted int
}

func NewLayout() Layout {
	return Layout{CursorY: TopMargin, Page: 1}
}

// NeedsPageBreak is checked before each row.
func (l Layout) NeedsPageBreak() bool {
	return l.CursorY > PageBreakY
}

// NeedsSeparator is checked after each row. The count is cumulative across pages.
func (l Layout) NeedsSeparator() bool {
	return l.EntriesEmitted > 0 && l.EntriesEmitted%SeparatorEvery == 0
}

// Fits reports whether a row of n lines keeps its last baseline above the bottom margin.
func (l Layout) Fits(lines int) bool {
	return l.CursorY+float64(lines-1)*LineHeight <= ContentBottom
}

func (l Layout) BreakPage() Layout {
	return Layout{CursorY: TopMargin, Page: l.Page + 1, EntriesEmitted: l.EntriesEmitted}
}

func (l Layout) Advance(dy float64) Layout {
	l.CursorY += dy
	return l
}

func (l Layout) Emitted() Layout {
	l.EntriesEmitted++
	return l
}

// Row is one table line ready for layout.
type Row struct {
	Date        string
	Hours       string
	Description string
}

// Document is the renderer-independent content of a report.
type Document struct {
	Title      string
	TotalHours decimal.Decimal
	EntryCount int
	Rows       []Row
}

// NewDocument maps an aggregate report onto document content, keeping entry order.
func NewDocument(report *model.AggregateReport) Document {
	doc := Document{
		Title:      "Time Report for " + report.Client.Name,
		TotalHours: report.TotalHours,
		EntryCount: report.EntryCount,
		Rows:       make([]Row, 0, len(report.WorkEntries)),
	}
	for _, e := range report.WorkEntries {
		desc := NoDescription
		if e.Description != nil && *e.Description != "" {
			desc = *e.Description
		}
		doc.Rows = append(doc.Rows, Row{
			Date:        e.Date.Format(model.DateLayout),
			Hours:       e.Hours.String(),
			Description: desc,
		})
	}
	return doc
}

// Plan lays out the whole document and returns the drawing ops in order. measure
// decides where descriptions wrap.
func Plan(doc Document, measure MeasureFunc) []Op {
	ops := []Op{{Kind: OpNewPage}}
	l := NewLayout()

	ops = append(ops, Op{Kind: OpText, X: 0, Y: l.CursorY, Width: PageWidth, FontSize: TitleFontSize, Bold: true, Align: AlignCenter, Text: doc.Title})
	l = l.Advance(40)

	ops = append(ops,
		Op{Kind: OpText, X: MarginLeft, Y: l.CursorY, FontSize: SummaryFontSize, Text: fmt.Sprintf("Total Hours: %s", doc.TotalHours.StringFixed(2))},
		Op{Kind: OpText, X: MarginLeft, Y: l.CursorY + 20, FontSize: SummaryFontSize, Text: fmt.Sprintf("Total Entries: %d", doc.EntryCount)},
	)
	l = l.Advance(60)

	ops = append(ops,
		Op{Kind: OpText, X: DateColumnX, Y: l.CursorY, Width: DateColumnWidth, FontSize: BodyFontSize, Bold: true, Text: "Date"},
		Op{Kind: OpText, X: HoursColumnX, Y: l.CursorY, Width: HoursColumnWidth, FontSize: BodyFontSize, Bold: true, Text: "Hours"},
		Op{Kind: OpText, X: DescColumnX, Y: l.CursorY, Width: DescColumnWidth, FontSize: BodyFontSize, Bold: true, Text: "Description"},
	)
	l = l.Advance(LineHeight)
	ops = append(ops, rule(l.CursorY-10))
	l = l.Advance(RowPadding)

	for _, row := range doc.Rows {
		var rowOps []Op
		rowOps, l = planRow(l, row, measure)
		ops = append(ops, rowOps...)
	}
	return ops
}

// planRow breaks the page when the cursor passed the threshold or when the row would
// run past the bottom margin but fits on a fresh page. It then emits the row and applies
// the separator rule. A row taller than a page continues line by line on later pages.
func planRow(l Layout, row Row, measure MeasureFunc) ([]Op, Layout) {
	var ops []Op
	lines := WrapText(row.Description, DescColumnWidth, BodyFontSize, measure)
	if l.NeedsPageBreak() || (!l.Fits(len(lines)) && l.BreakPage().Fits(len(lines))) {
		l = l.BreakPage()
		ops = append(ops, Op{Kind: OpNewPage})
	}

	ops = append(ops,
		Op{Kind: OpText, X: DateColumnX, Y: l.CursorY, Width: DateColumnWidth, FontSize: BodyFontSize, Text: row.Date},
		Op{Kind: OpText, X: HoursColumnX, Y: l.CursorY, Width: HoursColumnWidth, FontSize: BodyFontSize, Text: row.Hours},
	)
	for i, line := range lines {
		if i > 0 {
			l = l.Advance(LineHeight)
			if l.CursorY > ContentBottom {
				l = l.BreakPage()
				ops = append(ops, Op{Kind: OpNewPage})
			}
		}
		ops = append(ops, Op{Kind: OpText, X: DescColumnX, Y: l.CursorY, Width: DescColumnWidth, FontSize: BodyFontSize, Text: line})
	}
	l = l.Advance(LineHeight + RowPadding).Emitted()

	if l.NeedsSeparator() {
		ops = append(ops, rule(l.CursorY-LineHeight/2))
		l = l.Advance(SeparatorGap)
	}
	return ops, l
}

func rule(y float64) Op {
	return Op{Kind: OpRule, X: MarginLeft, Y: y, Width: PageWidth - MarginLeft - MarginRight}
}

// WrapText splits text into lines no wider than width as measured at fontSize.
// Words wider than a line are split between runes.
func WrapText(text string, width, fontSize float64, measure MeasureFunc) []string {
	fits := func(s string) bool { return measure(s, fontSize) <= width }

	var (
		lines   []string
		current string
	)
	flush := func() {
		lines = append(lines, current)
		current = ""
	}

	for _, paragraph := range strings.Split(text, "\n") {
		for _, word := range strings.Fields(paragraph) {
			if current != "" {
				if candidate := current + " " + word; fits(candidate) {
					current = candidate
					continue
				}
				flush()
			}
			for !fits(word) {
				head := splitPoint(word, fits)
				lines = append(lines, word[:head])
				word = word[head:]
			}
			current = word
		}
		if current != "" {
			flush()
		}
	}

	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

// splitPoint returns the byte offset of the longest rune prefix of word that fits,
// never less than one rune.
func splitPoint(word string, fits func(string) bool) int {
	end := 0
	for i := range word {
		if i == 0 {
			continue
		}
		if !fits(word[:i]) {
			break
		}
		end = i
	}
	if end == 0 {
		_, size := utf8.DecodeRuneInString(word)
		return size
	}
	return end
}
