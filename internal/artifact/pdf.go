package artifact

import (
	"fmt"
	"strings"
)

// renderPDF produces a minimal single-page PDF 1.4 document: Helvetica body
// text followed by a provider signature block. Good enough for review and
// signature workflows; not a general PDF writer.
func renderPDF(text string) []byte {
	var content strings.Builder
	content.WriteString("BT\n/F1 11 Tf\n16 TL\n72 760 Td\n")
	for _, line := range strings.Split(text, "\n") {
		content.WriteString(fmt.Sprintf("(%s) Tj\nT*\n", escapePDFText(line)))
	}
	content.WriteString("ET\n")

	const signatureY = 140
	content.WriteString("BT\n/F1 11 Tf\n")
	content.WriteString(fmt.Sprintf("72 %d Td\n", signatureY+40))
	content.WriteString("(Provider: Vincent W. H. Wang, DDS) Tj\nT*\n")
	content.WriteString("(Signature: _________________________) Tj\nT*\n")
	content.WriteString("(Date: _________________________) Tj\nET\n")
	content.WriteString(fmt.Sprintf("72 %d m\n360 %d l\nS", signatureY, signatureY))

	stream := content.String()

	var pdf strings.Builder
	objects := []string{
		"1 0 obj << /Type /Catalog /Pages 2 0 R >> endobj",
		"2 0 obj << /Type /Pages /Kids [3 0 R] /Count 1 >> endobj",
		"3 0 obj << /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >> endobj",
		fmt.Sprintf("4 0 obj << /Length %d >> stream\n%s\nendstream endobj", len(stream), stream),
		"5 0 obj << /Type /Font /Subtype /Type1 /Name /F1 /BaseFont /Helvetica >> endobj",
	}

	pdf.WriteString("%PDF-1.4\n")
	offsets := make([]int, 0, len(objects))
	for _, obj := range objects {
		offsets = append(offsets, pdf.Len())
		pdf.WriteString(obj)
		pdf.WriteString("\n")
	}

	xrefStart := pdf.Len()
	pdf.WriteString("xref\n")
	pdf.WriteString(fmt.Sprintf("0 %d\n", len(objects)+1))
	pdf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		pdf.WriteString(fmt.Sprintf("%010d 00000 n \n", off))
	}
	pdf.WriteString(fmt.Sprintf("trailer << /Size %d /Root 1 0 R >>\n", len(objects)+1))
	pdf.WriteString(fmt.Sprintf("startxref\n%d\n%%%%EOF\n", xrefStart))

	return []byte(pdf.String())
}

func escapePDFText(line string) string {
	line = strings.ReplaceAll(line, `\`, `\\`)
	line = strings.ReplaceAll(line, "(", `\(`)
	line = strings.ReplaceAll(line, ")", `\)`)
	return line
}
