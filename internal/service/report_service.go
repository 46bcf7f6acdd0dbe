package service

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"valid-assessment-backend/utilities"
)

type ReportService interface {
	// Render builds the PDF result report in memory.
	Render(ev CompletionEvent) ([]byte, error)
	// Save writes the report under the output directory and returns its path.
	Save(ev CompletionEvent) (string, error)
}

type reportService struct {
	outputDir string
}

func NewReportService(outputDir string) ReportService {
	return &reportService{outputDir: outputDir}
}

// InitReportEventListeners writes a report for every completed assessment.
func InitReportEventListeners(bus *utilities.EventBus, reports ReportService) {
	bus.Subscribe(utilities.EventAssessmentCompleted, func(data interface{}) {
		ev, ok := data.(CompletionEvent)
		if !ok {
			utilities.Warn("report listener: unexpected event payload %T", data)
			return
		}
		path, err := reports.Save(ev)
		if err != nil {
			utilities.Error("report for session %s: %v", ev.Snapshot.SessionID, err)
			return
		}
		utilities.Debug("report for session %s written to %s", ev.Snapshot.SessionID, path)
	})
}

func (s *reportService) build(ev CompletionEvent) *gofpdf.Fpdf {
	snap := ev.Snapshot
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("VALID assessment results", true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, "VALID Assessment Results")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	if snap.Demographics.Name != "" {
		pdf.Cell(0, 7, "Respondent: "+snap.Demographics.Name)
		pdf.Ln(7)
	}
	if snap.Demographics.Organization != "" {
		pdf.Cell(0, 7, "Organization: "+snap.Demographics.Organization)
		pdf.Ln(7)
	}
	pdf.Cell(0, 7, "Completed: "+snap.CompletedAt.Format("2 January 2006 15:04 MST"))
	pdf.Ln(12)

	// Persona
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, "Persona: "+string(snap.Persona.Primary))
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	if snap.Persona.Secondary != "" {
		pdf.Cell(0, 7, "Secondary: "+string(snap.Persona.Secondary))
		pdf.Ln(7)
	}
	pdf.Cell(0, 7, "Confidence: "+string(snap.Persona.Confidence))
	pdf.Ln(12)

	// One bar per dimension, 0-100 mapped to 120mm.
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, "Dimension scores")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 11)
	const barWidth = 120.0
	for _, ds := range snap.Scores {
		y := pdf.GetY()
		pdf.Cell(50, 7, ds.Dimension.String())
		pdf.SetFillColor(230, 230, 230)
		pdf.Rect(60, y+1, barWidth, 5, "F")
		pdf.SetFillColor(52, 101, 164)
		pdf.Rect(60, y+1, barWidth*float64(ds.Percentage)/100, 5, "F")
		pdf.SetX(60 + barWidth + 4)
		pdf.Cell(20, 7, fmt.Sprintf("%d%%", ds.Percentage))
		pdf.Ln(9)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, "Response quality")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 11)
	q := snap.Quality
	lines := []string{
		fmt.Sprintf("Verdict: %s", ev.Verdict.Verdict),
		fmt.Sprintf("Attention checks passed: %d of %d", q.AttentionChecks.Passed, q.AttentionChecks.Total),
		fmt.Sprintf("Social desirability: %.1f over %d items", q.SocialDesirability.Score, q.SocialDesirability.QuestionCount),
		fmt.Sprintf("Completion time: %.0f minutes", q.CompletionTime/60),
	}
	if len(ev.Verdict.Flags) > 0 {
		lines = append(lines, "Flags: "+strings.Join(ev.Verdict.Flags, ", "))
	}
	for _, l := range lines {
		pdf.MultiCell(0, 7, l, "", "L", false)
	}
	return pdf
}

func (s *reportService) Render(ev CompletionEvent) ([]byte, error) {
	pdf := s.build(ev)
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *reportService) Save(ev CompletionEvent) (string, error) {
	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	outputPath := filepath.Join(s.outputDir, fmt.Sprintf("report_%s.pdf", ev.Snapshot.SessionID))
	if err := s.build(ev).OutputFileAndClose(outputPath); err != nil {
		return "", fmt.Errorf("failed to save PDF: %w", err)
	}
	return outputPath, nil
}
