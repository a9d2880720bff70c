package document

// A4 portrait in points
const (
	PageWidth  = 595.28
	PageHeight = 841.89
)

const (
	margin = 40.0

	logoWidth      = 100.0
	identityLead   = 14.0
	identityLine   = 12.0
	headerRuleGap  = 20.0
	titleGap       = 25.0
	numberLineGap  = 20.0
	billToGap      = 45.0
	customerGap    = 60.0
	addressGap     = 72.0
	addressLine    = 12.0
	tableGap       = 110.0
	tableBelowAddr = 24.0

	bandAbove  = 14.0
	bandHeight = 18.0

	rowHeight   = 16.0
	bottomLimit = PageHeight - 150
	pageTopY    = margin + 60

	qtyRight         = margin + 270
	priceRight       = margin + 340
	amountRight      = PageWidth - margin
	descriptionWidth = 200.0

	totalsGap  = 10.0
	totalsLine = 14.0

	signatureWidth  = 100.0
	signatureX      = PageWidth - margin - 120
	signatureBottom = PageHeight - 100
	closingRuleY    = PageHeight - 80
	footerY         = PageHeight - 65
)

// TablePolicy is the pagination policy of the item table
func TablePolicy(firstRowY float64) Policy {
	return Policy{
		FirstRowY:    firstRowY,
		PageTopY:     pageTopY,
		HeaderHeight: rowHeight,
		RowHeight:    rowHeight,
		BottomLimit:  bottomLimit,
	}
}

// headerLayout holds the content-dependent vertical positions above the table
type headerLayout struct {
	logoHeight float64
	ruleY      float64
	titleY     float64
	tableY     float64
}

// computeHeader places the rule below the taller of the logo and identity
// blocks, and the table below the longer of the fixed gap and the address.
func computeHeader(logoHeight float64, identityLines, addressLines int) headerLayout {
	logoBottom := margin + logoHeight

	identityBottom := margin
	if identityLines > 0 {
		identityBottom = margin + identityLead + identityLine*float64(identityLines-1)
	}

	ruleY := max(logoBottom, identityBottom) + headerRuleGap
	titleY := ruleY + titleGap

	addressBottom := titleY + customerGap
	if addressLines > 0 {
		addressBottom = titleY + addressGap + addressLine*float64(addressLines-1)
	}

	return headerLayout{
		logoHeight: logoHeight,
		ruleY:      ruleY,
		titleY:     titleY,
		tableY:     max(titleY+tableGap, addressBottom+tableBelowAddr),
	}
}
