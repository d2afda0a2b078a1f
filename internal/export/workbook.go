// Package export turns raw booking rows into an xlsx workbook and, when
// archiving is configured, stores it in S3.
package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	domain "github.com/Seimmet/dolcie-salon/internal/domain/booking"
	"github.com/Seimmet/dolcie-salon/internal/models"
)

const SheetName = "Bookings"

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var columns = []interface{}{
	"ID", "Date", "Start", "End", "Status",
	"Customer", "Email", "Phone",
	"Style", "Variation", "Stylist",
	"Duration (min)", "Service Price", "Deposit", "Paid", "Amount Due",
}

// BookingsWorkbook writes one row per booking, times in the salon's zone.
func BookingsWorkbook(bookings []models.Booking, loc *time.Location) ([]byte, error) {
	if loc == nil {
		loc = time.UTC
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &columns); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	if bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		last, _ := excelize.CoordinatesToCellName(len(columns), 1)
		_ = f.SetCellStyle(SheetName, "A1", last, bold)
	}

	for i := range bookings {
		b := &bookings[i]
		bal := domain.ComputeBalance(b)

		stylist := ""
		if b.Stylist != nil {
			stylist = b.Stylist.Name
		}

		row := []interface{}{
			b.ID,
			b.BookingDate,
			b.StartTime.In(loc).Format("15:04"),
			b.EndTime.In(loc).Format("15:04"),
			b.Status,
			b.Customer.FullName,
			b.Customer.Email,
			b.Customer.Phone,
			b.Style.Name,
			b.Variation.Name,
			stylist,
			b.DurationMinutes,
			b.ServicePrice.InexactFloat64(),
			b.DepositAmount.InexactFloat64(),
			bal.TotalPaid.InexactFloat64(),
			bal.AmountDue.InexactFloat64(),
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", b.ID, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// FileName is the download and archive name for a date range.
func FileName(from, to string) string {
	return fmt.Sprintf("bookings_%s_%s.xlsx", from, to)
}
