package reporter

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/callwatch/callwatch/internal/database"
	"github.com/callwatch/callwatch/internal/models"
)

// Reporter summarizes detection outcomes per source over a period.
type Reporter struct {
	repo *database.Repository
}

func New(repo *database.Repository) *Reporter {
	return &Reporter{repo: repo}
}

// GenerateReport aggregates outcomes for "day", "week", or "month".
func (r *Reporter) GenerateReport(periodType string) (*models.Report, error) {
	period, err := getPeriod(periodType)
	if err != nil {
		return nil, err
	}

	summaries, err := r.repo.GetOutcomeSummarySince(period.Start)
	if err != nil {
		return nil, fmt.Errorf("failed to get outcome summary: %w", err)
	}

	var total models.SourceSummary
	total.SourceKind = "total"
	for i := range summaries {
		if summaries[i].Triggered > 0 {
			summaries[i].KeepRate = float64(summaries[i].Kept) / float64(summaries[i].Triggered) * 100.0
		}
		total.Triggered += summaries[i].Triggered
		total.Kept += summaries[i].Kept
		total.Discarded += summaries[i].Discarded
	}
	if total.Triggered > 0 {
		total.KeepRate = float64(total.Kept) / float64(total.Triggered) * 100.0
	}

	return &models.Report{
		Period:      *period,
		Sources:     summaries,
		Total:       total,
		GeneratedAt: time.Now(),
	}, nil
}

// FormatText renders a report for terminal output.
func (r *Reporter) FormatText(report *models.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Detection report (%s): %s - %s\n\n",
		report.Period.Type,
		report.Period.Start.Format("2006-01-02 15:04"),
		report.Period.End.Format("2006-01-02 15:04"))

	if len(report.Sources) == 0 {
		b.WriteString("No auto-detected sessions in this period.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%-16s %10s %8s %10s %10s\n", "SOURCE", "TRIGGERED", "KEPT", "DISCARDED", "KEEP RATE")
	for _, s := range report.Sources {
		fmt.Fprintf(&b, "%-16s %10d %8d %10d %9.0f%%\n",
			s.SourceKind, s.Triggered, s.Kept, s.Discarded, s.KeepRate)
	}
	fmt.Fprintf(&b, "%-16s %10d %8d %10d %9.0f%%\n",
		"total", report.Total.Triggered, report.Total.Kept, report.Total.Discarded, report.Total.KeepRate)

	return b.String()
}

// FormatJSON renders a report as indented JSON.
func (r *Reporter) FormatJSON(report *models.Report) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}
	return string(data), nil
}

func getPeriod(periodType string) (*models.ReportPeriod, error) {
	now := time.Now()
	var start time.Time

	switch periodType {
	case "day", "":
		periodType = "day"
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case "week":
		start = now.AddDate(0, 0, -7)
	case "month":
		start = now.AddDate(0, -1, 0)
	default:
		return nil, fmt.Errorf("unknown period %q (want day, week, or month)", periodType)
	}

	return &models.ReportPeriod{Start: start, End: now, Type: periodType}, nil
}
