package presentation

import (
	"fmt"
	"io"

	"github.com/nao1215/markdown"

	"defect-lens/internal/domain/entity"
)

// WriteMarkdown выводит отчёт в Markdown. Значения полей не меняются.
func WriteMarkdown(w io.Writer, report *entity.InspectionReport) error {
	md := markdown.NewMarkdown(w)

	md.H1("Inspection: " + string(report.InspectionResult))
	md.PlainText("")
	md.PlainText("Confidence: " + report.ConfidenceLevel)
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Field", "Value"},
		Rows: [][]string{
			{"Inspection Result", string(report.InspectionResult)},
			{"Defect Identified", report.DefectIdentified},
			{"Location of Defect", report.LocationOfDefect},
			{"Severity Level", string(report.SeverityLevel)},
			{"Suggested Fix", report.SuggestedFix},
			{"Confidence Level", report.ConfidenceLevel},
		},
	})
	md.PlainText("")

	writeAlert(md, report)

	return md.Build()
}

// writeAlert выбирает тон подсказки по серьёзности
func writeAlert(md *markdown.Markdown, report *entity.InspectionReport) {
	if report.InspectionResult.Passed() {
		md.Tip("No visible defects. The part passes inspection.")
		return
	}

	switch report.SeverityLevel {
	case entity.SeverityHigh:
		md.Cautionf("High severity defect: %s", report.SuggestedFix)
	case entity.SeverityMedium:
		md.Warningf("Medium severity defect: %s", report.SuggestedFix)
	default:
		md.Note(fmt.Sprintf("Low severity defect: %s", report.SuggestedFix))
	}
}
