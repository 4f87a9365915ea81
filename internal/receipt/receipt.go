package receipt

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf/v2"

	"fitness-backend/internal/models"
	"fitness-backend/internal/timeutil"
)

// Generate renders a one-page PDF receipt for an order.
func Generate(order *models.Order, member *models.User) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 12, "Membership Order Receipt")
	pdf.Ln(16)

	pdf.SetFont("Helvetica", "", 11)
	row := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(45, 8, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 8, value, "", 1, "L", false, 0, "")
	}

	row("Order No.", order.OrderNo)
	row("Member", member.Nickname)
	row("Course", order.CourseName)
	row("Pass", order.BillDesc)
	row("Amount", fmt.Sprintf("%.2f", float64(order.Amount)/100))
	row("Status", order.Status)
	row("Sessions", fmt.Sprintf("%d / %d used", order.UsedCounts, order.LimitCounts))
	if !order.ExpireTime.IsZero() {
		row("Valid until", timeutil.DateString(order.ExpireTime))
	}
	row("Purchased", order.CreateTime.In(timeutil.CST).Format(timeutil.DateTimeLayout))

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 6, "This receipt is generated electronically and needs no signature.")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}
