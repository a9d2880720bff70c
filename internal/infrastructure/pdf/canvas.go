package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/sangkips/invoice-generator/internal/document"
)

const fontFamily = "Helvetica"

// Canvas draws on an A4 portrait gofpdf document measured in points
type Canvas struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

// New creates an empty A4 canvas
func New() *Canvas {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetLineWidth(1)
	pdf.SetFont(fontFamily, "", 10)

	return &Canvas{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

// NewCanvas is the document.CanvasFactory for PDF output
func NewCanvas() document.Canvas {
	return New()
}

func (c *Canvas) AddPage() {
	c.pdf.AddPage()
}

func (c *Canvas) SetFont(bold bool, size float64) {
	style := ""
	if bold {
		style = "B"
	}
	c.pdf.SetFont(fontFamily, style, size)
}

func (c *Canvas) SetTextColor(col document.Color) {
	c.pdf.SetTextColor(col.R, col.G, col.B)
}

func (c *Canvas) SetFillColor(col document.Color) {
	c.pdf.SetFillColor(col.R, col.G, col.B)
}

func (c *Canvas) SetDrawColor(col document.Color) {
	c.pdf.SetDrawColor(col.R, col.G, col.B)
}

func (c *Canvas) Text(x, y float64, align document.Align, s string) {
	if s == "" {
		return
	}
	s = c.tr(s)
	switch align {
	case document.AlignRight:
		x -= c.pdf.GetStringWidth(s)
	case document.AlignCenter:
		x -= c.pdf.GetStringWidth(s) / 2
	}
	c.pdf.Text(x, y, s)
}

func (c *Canvas) TextWidth(s string) float64 {
	return c.pdf.GetStringWidth(c.tr(s))
}

func (c *Canvas) Line(x1, y1, x2, y2 float64) {
	c.pdf.Line(x1, y1, x2, y2)
}

func (c *Canvas) FillRect(x, y, w, h float64) {
	c.pdf.Rect(x, y, w, h, "F")
}

// Image registers png under name and draws it. A registration error is
// cleared so the document can still be written without the image.
func (c *Canvas) Image(name string, png []byte, x, y, w, h float64) error {
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	c.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	if err := c.pdf.Error(); err != nil {
		c.pdf.ClearError()
		return fmt.Errorf("pdf: failed to register image %s: %w", name, err)
	}
	c.pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
	return nil
}

func (c *Canvas) PageCount() int {
	return c.pdf.PageCount()
}

// Save writes the document to path and closes it
func (c *Canvas) Save(path string) error {
	if err := c.pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("pdf: failed to write %s: %w", path, err)
	}
	return nil
}
