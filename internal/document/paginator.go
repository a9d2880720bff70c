package document

import "math"

// State is the paginator state
type State int

const (
	// AccumulatingRows means the current page has room for another row
	AccumulatingRows State = iota
	// PageFull means the next row starts a new page
	PageFull
	// Finalizing means the table is closed and the cursor marks the totals position
	Finalizing
)

func (s State) String() string {
	switch s {
	case AccumulatingRows:
		return "accumulating_rows"
	case PageFull:
		return "page_full"
	case Finalizing:
		return "finalizing"
	default:
		return "unknown"
	}
}

// Policy fixes the vertical geometry of a paginated table
type Policy struct {
	// FirstRowY is the first row position on the first page
	FirstRowY float64
	// PageTopY is where the column header sits on a continuation page
	PageTopY float64
	// HeaderHeight is the gap between the column header and the first row
	HeaderHeight float64
	RowHeight    float64
	// BottomLimit is the lowest cursor position that still takes a row
	BottomLimit float64
}

// ContinuationRowY is the first row position on every page after the first
func (p Policy) ContinuationRowY() float64 {
	return p.PageTopY + p.HeaderHeight
}

// RowsPerPage is the number of rows a page holds when its first row sits at start
func (p Policy) RowsPerPage(start float64) int {
	if p.RowHeight <= 0 || start > p.BottomLimit {
		return 1
	}
	return int(math.Floor((p.BottomLimit-start)/p.RowHeight)) + 1
}

// Slot is where the paginator places a row or the totals block
type Slot struct {
	Page int
	Y    float64
	// StartsPage reports that the caller must open a new page before drawing
	StartsPage bool
}

// Paginator places table rows one at a time and breaks pages when the
// cursor passes the bottom limit.
type Paginator struct {
	policy Policy
	state  State
	page   int
	cursor float64
}

// NewPaginator starts on page 1 with the cursor at the first row
func NewPaginator(policy Policy) *Paginator {
	return &Paginator{
		policy: policy,
		state:  AccumulatingRows,
		page:   1,
		cursor: policy.FirstRowY,
	}
}

func (p *Paginator) State() State { return p.state }

func (p *Paginator) Page() int { return p.page }

// Next returns the slot for the next row and advances the cursor.
// It panics once Finish has been called.
func (p *Paginator) Next() Slot {
	slot := Slot{Page: p.page}

	switch p.state {
	case Finalizing:
		panic("document: Next called after Finish")
	case PageFull:
		p.page++
		p.cursor = p.policy.ContinuationRowY()
		p.state = AccumulatingRows
		slot = Slot{Page: p.page, StartsPage: true}
	}

	slot.Y = p.cursor
	p.cursor += p.policy.RowHeight
	if p.cursor > p.policy.BottomLimit {
		p.state = PageFull
	}
	return slot
}

// Finish closes the table and returns the cursor the totals block hangs from.
// When the last row filled its page the totals move to the top of a new page.
func (p *Paginator) Finish() Slot {
	slot := Slot{Page: p.page, Y: p.cursor}
	if p.state == PageFull {
		p.page++
		p.cursor = p.policy.PageTopY
		slot = Slot{Page: p.page, Y: p.cursor, StartsPage: true}
	}
	p.state = Finalizing
	return slot
}
