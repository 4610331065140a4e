package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"vantahire/internal/domain"
)

type ExportFormat string

const (
	ExportJSON ExportFormat = "json"
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"

	DefaultExportDays = 30
	maxExportDays     = 365
)

type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

type ExportService interface {
	Export(ctx context.Context, actor *domain.AuthInfo, format ExportFormat, days int) (*Export, error)
}

type exportService struct {
	analyticsRepo domain.AnalyticsRepository
	now           func() time.Time
}

func NewExportService(analyticsRepo domain.AnalyticsRepository) ExportService {
	return &exportService{analyticsRepo: analyticsRepo, now: time.Now}
}

var exportHeader = []string{
	"Job ID", "Title", "Location", "Status", "Active", "Views", "Apply Clicks",
	"Conversion Rate (%)", "Applications", "AI Score", "Created At",
}

func exportRow(p *domain.JobPerformance) []string {
	score := ""
	if p.AIScore != nil {
		score = strconv.Itoa(*p.AIScore)
	}
	return []string{
		strconv.FormatInt(p.JobID, 10),
		p.Title,
		p.Location,
		string(p.Status),
		strconv.FormatBool(p.IsActive),
		strconv.Itoa(p.Views),
		strconv.Itoa(p.ApplyClicks),
		strconv.FormatFloat(p.ConversionRate, 'f', 2, 64),
		strconv.Itoa(p.TotalApplications),
		score,
		p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Export renders job performance for the last days days. Recruiters only see their own postings.
func (s *exportService) Export(ctx context.Context, actor *domain.AuthInfo, format ExportFormat, days int) (*Export, error) {
	if actor == nil || !actor.Role.CanPostJobs() {
		return nil, domain.ErrForbidden
	}
	if days <= 0 {
		days = DefaultExportDays
	}
	if days > maxExportDays {
		days = maxExportDays
	}

	var postedBy int64
	if actor.Role != domain.RoleAdmin {
		postedBy = actor.UserID
	}

	now := s.now()
	rows, err := s.analyticsRepo.Performance(ctx, postedBy, now.AddDate(0, 0, -days))
	if err != nil {
		return nil, fmt.Errorf("failed to load job performance: %w", err)
	}

	base := "job-analytics-" + now.Format("2006-01-02")
	switch format {
	case ExportJSON, "":
		data, err := json.Marshal(map[string]any{"exportedAt": now.UTC(), "dateRange": days, "jobs": rows})
		if err != nil {
			return nil, fmt.Errorf("failed to encode export: %w", err)
		}
		return &Export{Filename: base + ".json", ContentType: "application/json", Data: data}, nil
	case ExportCSV:
		data, err := renderCSV(rows)
		if err != nil {
			return nil, err
		}
		return &Export{Filename: base + ".csv", ContentType: "text/csv", Data: data}, nil
	case ExportXLSX:
		data, err := renderXLSX(rows)
		if err != nil {
			return nil, err
		}
		return &Export{
			Filename:    base + ".xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        data,
		}, nil
	default:
		return nil, domain.ErrUnsupportedFormat
	}
}

func renderCSV(rows []*domain.JobPerformance) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, p := range rows {
		if err := w.Write(exportRow(p)); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

const exportSheet = "Job Analytics"

func renderXLSX(rows []*domain.JobPerformance) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	for i, p := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := exportRow(p)
		row := make([]any, len(values))
		for j, v := range values {
			row[j] = v
		}
		// numeric columns stay numeric so spreadsheet formulas work
		row[5], row[6], row[7], row[8] = p.Views, p.ApplyClicks, p.ConversionRate, p.TotalApplications
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buf.Bytes(), nil
}
