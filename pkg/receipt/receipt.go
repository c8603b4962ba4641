package receipt

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/ds124wfegd/tourbooker/internal/entity"
	"github.com/phpdave11/gofpdf"
)

const dateLayout = "02-Jan-2006 15:04"

// Cancellation is the cancellation price printed on the receipt.
type Cancellation struct {
	LeadDays    int
	PenaltyRate float64
	Penalty     float64
	Refund      float64
}

// Filename returns the attachment name of a booking receipt.
func Filename(bookingID int64) string {
	return fmt.Sprintf("booking-%d.pdf", bookingID)
}

// Render builds a one page PDF receipt. cancel may be nil.
func Render(b entity.BookingInfo, cancel *Cancellation, issuedAt time.Time) ([]byte, error) {
	st := b.ScheduledTour

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Booking %d", b.ID), false)
	pdf.AddPage()
	// встроенные шрифты работают в cp1252, имена клиентов приходят в UTF-8
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BOOKING RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Booking no  : %d (%s)", b.ID, b.Kind),
		"Issued      : " + issuedAt.Format(dateLayout),
		fmt.Sprintf("Tour        : %s %s", st.Code, st.TourName),
		"Duration    : " + st.Duration,
		"Departure   : " + st.Departure.Format(dateLayout),
		"Language    : " + safe(st.Language, "-"),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, tr(s))
		pdf.Ln(7)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Travellers:")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for i, c := range b.Customers {
		pdf.Cell(0, 6, tr(fmt.Sprintf("%d) %s, passport %s", i+1, c.Name, c.Passport)))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Price per seat : %s", money(st.Cost)))
	pdf.Ln(7)
	if b.Single {
		pdf.Cell(0, 7, fmt.Sprintf("Single supplement : +%.0f%%", entity.SingleSupplement*100))
		pdf.Ln(7)
	}
	if b.Discount > 0 {
		pdf.Cell(0, 7, fmt.Sprintf("Group discount : %.0f%%", b.Discount*100))
		pdf.Ln(7)
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total (%d seats): %s", b.Seats, money(b.Cost)))
	pdf.Ln(12)

	if cancel != nil {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 6, tr(fmt.Sprintf(
			"If cancelled today (%d days before departure) the penalty is %s (%.0f%%) and %s is refunded.",
			cancel.LeadDays, money(cancel.Penalty), cancel.PenaltyRate*100, money(cancel.Refund),
		)), "", "", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt %d: %w", b.ID, err)
	}
	return buf.Bytes(), nil
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func safe(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
