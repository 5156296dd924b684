package utils

import (
	"bytes"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// GenerateCertificate renders the completion certificate for a user and a
// course as a landscape A4 PDF. It is a pure function of its inputs; callers
// are responsible for verifying that the course is actually complete.
func GenerateCertificate(userName, courseName string, issuedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	// Background and decorative border.
	pdf.SetFillColor(249, 250, 251)
	pdf.Rect(0, 0, 297, 210, "F")
	pdf.SetDrawColor(79, 70, 229)
	pdf.SetLineWidth(2)
	pdf.RoundedRect(10, 10, 277, 190, 3, "1234", "D")

	// Title block.
	pdf.SetFont("Helvetica", "B", 40)
	pdf.SetTextColor(31, 41, 55)
	centeredText(pdf, 42, 12, "CERTIFICATE")
	pdf.SetFont("Helvetica", "B", 20)
	centeredText(pdf, 58, 8, "OF COMPLETION")
	pdf.SetLineWidth(0.5)
	pdf.Line(98.5, 70, 198.5, 70)

	// Recipient.
	pdf.SetFont("Helvetica", "", 16)
	pdf.SetTextColor(55, 65, 81)
	centeredText(pdf, 84, 7, "This certificate is awarded to:")
	pdf.SetFont("Helvetica", "B", 28)
	pdf.SetTextColor(79, 70, 229)
	centeredText(pdf, 102, 10, userName)

	// Course.
	pdf.SetFont("Helvetica", "", 16)
	pdf.SetTextColor(55, 65, 81)
	centeredText(pdf, 124, 7, "For successfully completing the course:")
	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(79, 70, 229)
	centeredText(pdf, 142, 9, courseName)

	// Issue date.
	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(107, 114, 128)
	centeredText(pdf, 166, 5, "Issued on "+issuedAt.Format("January 2, 2006"))

	// Signature line.
	pdf.Line(98.5, 185, 198.5, 185)
	centeredText(pdf, 187, 5, "Academic Director")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func centeredText(pdf *gofpdf.Fpdf, y, h float64, text string) {
	pdf.SetXY(0, y)
	pdf.CellFormat(297, h, text, "", 0, "C", false, 0, "")
}
