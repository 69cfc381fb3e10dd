package pdf

import (
	"strings"

	"github.com/signintech/gopdf"
	"github.com/yurifrl/budgetu/pkg/report"
)

const pageBottom = pageHeight - margin

// table writes the header and every row, starting a new page with a
// repeated header whenever the current one is full.
func (e *Exporter) table(pdf *gopdf.GoPdf, m *report.Model, top float64) error {
	columns := m.Rows.Columns()
	if len(columns) == 0 {
		return nil
	}
	colWidth := tableWidth / float64(len(columns))
	size := fontSize(len(columns))

	pdf.SetLineWidth(0.5)
	pdf.SetStrokeColor(0, 0, 0)

	pages := paginate(m.Rows.Len(), capacity(top), capacity(margin))
	for p, rows := range pages {
		y := top
		if p > 0 {
			pdf.AddPage()
			y = margin
		}
		if err := e.headerRow(pdf, columns, y, colWidth, size); err != nil {
			return err
		}
		y += rowHeight

		if err := pdf.SetFont(fontRegular, "", size); err != nil {
			return err
		}
		pdf.SetTextColor(0, 0, 0)
		for r := rows.start; r < rows.end; r++ {
			for c, v := range m.Rows.Row(r) {
				if err := cell(pdf, margin+float64(c)*colWidth, y, colWidth, e.locale.Cell(v)); err != nil {
					return err
				}
			}
			y += rowHeight
		}
	}
	e.logger.Debug("table written", "rows", m.Rows.Len(), "pages", len(pages))
	return nil
}

func (e *Exporter) headerRow(pdf *gopdf.GoPdf, columns []string, y, colWidth, size float64) error {
	pdf.SetFillColor(128, 128, 128)
	pdf.RectFromUpperLeftWithStyle(margin, y, tableWidth, rowHeight, "F")

	if err := pdf.SetFont(fontBold, "", size); err != nil {
		return err
	}
	pdf.SetTextColor(245, 245, 245)
	for c, name := range columns {
		if err := cell(pdf, margin+float64(c)*colWidth, y, colWidth, name); err != nil {
			return err
		}
	}
	return nil
}

// cell writes centered text inside a bordered box, shortened to fit.
func cell(pdf *gopdf.GoPdf, x, y, w float64, text string) error {
	pdf.SetXY(x, y)
	return pdf.CellWithOption(&gopdf.Rect{W: w, H: rowHeight}, fit(pdf, sanitize(text), w-4), gopdf.CellOption{
		Align:  gopdf.Center | gopdf.Middle,
		Border: gopdf.AllBorders,
	})
}

// fit trims text with an ellipsis until it is narrower than width.
func fit(pdf *gopdf.GoPdf, text string, width float64) string {
	w, err := pdf.MeasureTextWidth(text)
	if err != nil || w <= width {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "..."
		if w, err := pdf.MeasureTextWidth(candidate); err == nil && w <= width {
			return candidate
		}
	}
	return ""
}

func fontSize(columns int) float64 {
	switch {
	case columns <= 6:
		return 9
	case columns <= 10:
		return 7
	default:
		return 5
	}
}

// capacity is the number of body rows that fit below a header drawn at top.
func capacity(top float64) int {
	n := int((pageBottom - top - rowHeight) / rowHeight)
	if n < 1 {
		return 1
	}
	return n
}

type span struct{ start, end int }

// paginate splits n rows into pages holding first rows on the first page
// and rest rows on every following page. An empty table still has one page.
func paginate(n, first, rest int) []span {
	pages := []span{{0, min(n, first)}}
	for start := first; start < n; start += rest {
		pages = append(pages, span{start, min(n, start+rest)})
	}
	return pages
}

// sanitize replaces runes outside the embedded fonts' Latin range.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			return ' '
		case r >= 0x20 && r <= 0x7E, r >= 0xA0 && r <= 0x17F:
			return r
		default:
			return '?'
		}
	}, s)
}
