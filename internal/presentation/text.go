package presentation

import (
	"fmt"
	"strings"

	"defect-lens/internal/domain/entity"
)

// severityMarks значки уровней для чатов без разметки
var severityMarks = map[entity.Severity]string{
	entity.SeverityHigh:   "🔴",
	entity.SeverityMedium: "🟠",
	entity.SeverityLow:    "🟢",
	entity.SeverityNone:   "⚪",
}

// PlainText отчёт простым текстом, для Telegram
func PlainText(report *entity.InspectionReport) string {
	headline := "✅"
	if !report.InspectionResult.Passed() {
		headline = "⚠️"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s INSPECTION: %s\n", headline, report.InspectionResult)
	fmt.Fprintf(&b, "Confidence: %s\n\n", report.ConfidenceLevel)
	fmt.Fprintf(&b, "Defect Identified: %s\n", report.DefectIdentified)
	fmt.Fprintf(&b, "Location of Defect: %s\n", report.LocationOfDefect)
	fmt.Fprintf(&b, "Severity Level: %s %s\n", severityMarks[report.SeverityLevel], report.SeverityLevel)
	fmt.Fprintf(&b, "Suggested Fix: %s", report.SuggestedFix)
	return b.String()
}
