package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/fdg312/eatpal/internal/diary"
	"github.com/fdg312/eatpal/internal/storage"
	"github.com/jung-kurt/gofpdf"
)

// GoalSource supplies the calorie goal used for the "remaining" column.
type GoalSource interface {
	CurrentGoal(ctx context.Context, userID string) int
}

// dayRow is one diary day flattened for export.
type dayRow struct {
	Date      string
	Totals    diary.Totals
	WaterOz   int
	Foods     int
	Exercises int
}

// Generator renders diary-range exports as PDF or CSV.
type Generator struct {
	diaryStorage storage.DiaryStorage
	goals        GoalSource
}

// NewGenerator creates a new report generator
func NewGenerator(diaryStorage storage.DiaryStorage, goals GoalSource) *Generator {
	return &Generator{diaryStorage: diaryStorage, goals: goals}
}

// GenerateReport generates a report and returns the data
func (g *Generator) GenerateReport(ctx context.Context, userID string, req CreateReportRequest) ([]byte, error) {
	rows, err := g.collectRows(ctx, userID, req.From, req.To)
	if err != nil {
		return nil, err
	}

	switch req.Format {
	case FormatPDF:
		return g.generatePDF(req, rows)
	case FormatCSV:
		return g.generateCSV(rows)
	default:
		return nil, fmt.Errorf("unsupported format: %s", req.Format)
	}
}

// collectRows loads the stored diary days in the range and derives the
// totals for each. Days with corrupt payloads are skipped, not fatal.
func (g *Generator) collectRows(ctx context.Context, userID, from, to string) ([]dayRow, error) {
	stored, err := g.diaryStorage.ListDays(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch diary days: %w", err)
	}
	goal := g.goals.CurrentGoal(ctx, userID)

	rows := make([]dayRow, 0, len(stored))
	for _, day := range stored {
		var entry diary.Entry
		if err := json.Unmarshal(day.Payload, &entry); err != nil {
			continue
		}
		rows = append(rows, dayRow{
			Date:      day.Date,
			Totals:    diary.DeriveTotals(entry, goal),
			WaterOz:   entry.WaterOz,
			Foods:     len(entry.FoodItems),
			Exercises: len(entry.Exercises),
		})
	}
	return rows, nil
}

// generateCSV generates a CSV report
func (g *Generator) generateCSV(rows []dayRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"date", "calories_eaten", "calories_burned", "calories_remaining", "water_oz", "food_items", "exercises"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, row := range rows {
		record := []string{
			row.Date,
			strconv.Itoa(row.Totals.Eaten),
			strconv.Itoa(row.Totals.Burned),
			strconv.Itoa(row.Totals.Remaining),
			strconv.Itoa(row.WaterOz),
			strconv.Itoa(row.Foods),
			strconv.Itoa(row.Exercises),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// generatePDF generates a PDF report
func (g *Generator) generatePDF(req CreateReportRequest, rows []dayRow) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Nutrition Diary Report")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s - %s", req.From, req.To))
	pdf.Ln(12)

	summary := summarize(rows)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Days logged: %d", summary.Days))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Average calories eaten: %s", formatInt(summary.AvgEaten)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Average calories burned: %s", formatInt(summary.AvgBurned)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Average water: %s fl oz", formatInt(summary.AvgWaterOz)))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "Days")
	pdf.Ln(8)

	drawDaysTable(pdf, rows)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return buf.Bytes(), nil
}

func drawDaysTable(pdf *gofpdf.Fpdf, rows []dayRow) {
	colWidths := []float64{30, 25, 25, 30, 25, 25, 25}
	headers := []string{"Date", "Eaten", "Burned", "Remaining", "Water oz", "Foods", "Exercises"}

	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range headers {
		pdf.CellFormat(colWidths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range rows {
		cells := []string{
			row.Date,
			strconv.Itoa(row.Totals.Eaten),
			strconv.Itoa(row.Totals.Burned),
			strconv.Itoa(row.Totals.Remaining),
			strconv.Itoa(row.WaterOz),
			strconv.Itoa(row.Foods),
			strconv.Itoa(row.Exercises),
		}
		for i, c := range cells {
			pdf.CellFormat(colWidths[i], 6, c, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

// Summary holds calculated summary statistics
type Summary struct {
	Days       int
	AvgEaten   *int
	AvgBurned  *int
	AvgWaterOz *int
}

// summarize averages the day rows; all averages are nil when no day was logged.
func summarize(rows []dayRow) Summary {
	s := Summary{Days: len(rows)}
	if len(rows) == 0 {
		return s
	}

	var eaten, burned, water int
	for _, row := range rows {
		eaten += row.Totals.Eaten
		burned += row.Totals.Burned
		water += row.WaterOz
	}
	avgEaten := eaten / len(rows)
	avgBurned := burned / len(rows)
	avgWater := water / len(rows)
	s.AvgEaten = &avgEaten
	s.AvgBurned = &avgBurned
	s.AvgWaterOz = &avgWater
	return s
}

func formatInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}
