package document

// Align anchors text relative to its x coordinate
type Align int

const (
	AlignLeft Align = iota
	AlignRight
	AlignCenter
)

// Color is an RGB triple, 0-255 per channel
type Color struct {
	R, G, B int
}

var (
	Black    = Color{0, 0, 0}
	White    = Color{255, 255, 255}
	Grey     = Color{128, 128, 128}
	DarkGrey = Color{169, 169, 169}
)

// Canvas is the drawing backend the renderer lays out on.
// Coordinates are PDF points measured from the top-left corner of the page;
// text y is the baseline.
type Canvas interface {
	AddPage()
	SetFont(bold bool, size float64)
	SetTextColor(c Color)
	SetFillColor(c Color)
	SetDrawColor(c Color)
	Text(x, y float64, align Align, s string)
	TextWidth(s string) float64
	Line(x1, y1, x2, y2 float64)
	FillRect(x, y, w, h float64)
	// Image draws PNG data registered under name. A failed image leaves the
	// rest of the document intact.
	Image(name string, png []byte, x, y, w, h float64) error
	PageCount() int
	Save(path string) error
}

// CanvasFactory returns a fresh, empty A4 canvas for one document
type CanvasFactory func() Canvas
