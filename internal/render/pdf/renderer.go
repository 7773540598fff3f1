package pdf

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"timesheet.reports/internal/core/model"
)

// Canvas is a drawing backend able to replay layout ops.
type Canvas interface {
	AddPage()
	Text(op Op)
	Rule(x1, y, x2 float64)
	// StringWidth measures text in the body font at fontSize.
	StringWidth(text string, fontSize float64) float64
	// Close ends the document and flushes it to w.
	Close(w io.Writer) error
}

// Render lays out report and writes it to w using the fpdf backend.
func Render(w io.Writer, report *model.AggregateReport) error {
	return RenderTo(w, NewFPDFCanvas(), report)
}

// RenderTo replays the planned ops on c. The canvas is always closed, even when a
// drawing step failed, so the output stream is never left open.
func RenderTo(w io.Writer, c Canvas, report *model.AggregateReport) (err error) {
	defer func() {
		if cerr := c.Close(w); cerr != nil && err == nil {
			err = cerr
		}
	}()

	for _, op := range Plan(NewDocument(report), c.StringWidth) {
		switch op.Kind {
		case OpNewPage:
			c.AddPage()
		case OpText:
			c.Text(op)
		case OpRule:
			c.Rule(op.X, op.Y, op.X+op.Width)
		default:
			return fmt.Errorf("unknown layout op %d", op.Kind)
		}
	}
	return nil
}

// FPDFCanvas draws with go-pdf/fpdf in points on A4 portrait pages.
type FPDFCanvas struct {
	doc       *fpdf.Fpdf
	translate func(string) string
}

func NewFPDFCanvas() *FPDFCanvas {
	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetAutoPageBreak(false, 0)
	doc.SetLineWidth(0.5)
	return &FPDFCanvas{
		doc:       doc,
		translate: doc.UnicodeTranslatorFromDescriptor(""),
	}
}

func (c *FPDFCanvas) AddPage() {
	c.doc.AddPage()
}

func (c *FPDFCanvas) Text(op Op) {
	style := ""
	if op.Bold {
		style = "B"
	}
	c.doc.SetFont("Helvetica", style, op.FontSize)

	text := c.translate(op.Text)
	x := op.X
	if op.Align == AlignCenter {
		x = op.X + (op.Width-c.doc.GetStringWidth(text))/2
	}
	c.doc.Text(x, op.Y, text)
}

func (c *FPDFCanvas) StringWidth(text string, fontSize float64) float64 {
	c.doc.SetFont("Helvetica", "", fontSize)
	return c.doc.GetStringWidth(c.translate(text))
}

func (c *FPDFCanvas) Rule(x1, y, x2 float64) {
	c.doc.Line(x1, y, x2, y)
}

func (c *FPDFCanvas) Close(w io.Writer) error {
	return c.doc.Output(w)
}
