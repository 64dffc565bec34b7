package render

import (
	"io"

	"github.com/jung-kurt/gofpdf"

	"sgf_service/internal/domain/sgf"
)

const linesPerPage = 60

// WritePDF writes the tree dump as an A4 report, title on the first page.
func WritePDF(w io.Writer, title string, c *sgf.Collection) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Courier", "B", 12)
	pdf.Cell(40, 10, tr(title))
	pdf.Ln(10)
	pdf.SetFont("Courier", "", 9)

	written := 0
	for _, line := range Lines(c) {
		if written == linesPerPage {
			pdf.AddPage()
			written = 0
		}
		pdf.MultiCell(0, 4.5, tr(line), "", "L", false)
		written++
	}

	return pdf.Output(w)
}
