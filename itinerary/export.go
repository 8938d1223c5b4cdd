package itinerary

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"tripwise/models"
)

// ShareURL builds the public link encoded in an exported itinerary.
func ShareURL(base, itineraryID string) string {
	return strings.TrimRight(base, "/") + "/itineraries/" + itineraryID
}

// Export renders an itinerary the caller owns, or any template, as a PDF.
func (s *Service) Export(ctx context.Context, id, callerID, shareBase string) ([]byte, error) {
	if err := requireNonEmpty("itinerary_id", id); err != nil {
		return nil, err
	}
	it, err := s.load(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if !it.IsTemplate {
		if err := authorize(it, callerID, "ExportItinerary"); err != nil {
			return nil, err
		}
	}
	return RenderPDF(it, ShareURL(shareBase, it.ItineraryID))
}

// latinText converts UTF-8 text to the cp1252 encoding the core fonts use.
func latinText(pdf *gofpdf.Fpdf) func(string) string {
	return pdf.UnicodeTranslatorFromDescriptor("")
}

// RenderPDF lays out the itinerary day by day with a QR code linking to shareURL.
func RenderPDF(it *models.Itinerary, shareURL string) ([]byte, error) {
	qrPNG, err := qrcode.Encode(shareURL, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("generate QR code: %w", err)
	}

	items := append([]models.ItineraryItem(nil), it.Items...)
	models.SortItems(items)

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := latinText(pdf)
	pdf.SetTitle(it.Name, true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, tr(it.Name))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Destination: %s", it.PrimaryDestination)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Dates: %s - %s", it.StartDate.Format("2 Jan 2006"), it.EndDate.Format("2 Jan 2006")))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Budget: %.2f", it.TotalBudget))
	pdf.Ln(7)
	if it.Version > 1 {
		pdf.Cell(0, 8, fmt.Sprintf("Version %d", it.Version))
		pdf.Ln(7)
	}

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 160, 12, 35, 35, false, imageOpts, 0, "")

	if it.Description != "" {
		pdf.Ln(4)
		pdf.MultiCell(140, 6, tr(it.Description), "", "L", false)
	}
	pdf.Ln(6)

	day := 0
	for _, item := range items {
		if item.DayNumber != day {
			day = item.DayNumber
			pdf.Ln(3)
			pdf.SetFont("Arial", "B", 14)
			pdf.Cell(0, 9, fmt.Sprintf("Day %d", day))
			pdf.Ln(9)
		}
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(0, 7, tr(fmt.Sprintf("%s - %s  %s", item.StartTime.Format("15:04"), item.EndTime.Format("15:04"), item.Title)))
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 10)
		line := item.LocationName
		if item.IsTransportation {
			line = fmt.Sprintf("%s to %s (%d min)", item.TransportSource, item.TransportTarget, item.DurationMinutes)
		}
		if item.Cost != nil {
			line += fmt.Sprintf("  |  %.2f", *item.Cost)
		}
		pdf.Cell(0, 6, tr(line))
		pdf.Ln(6)
		if item.Notes != "" {
			pdf.MultiCell(0, 5, tr(item.Notes), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render PDF: %w", err)
	}
	return buf.Bytes(), nil
}
