package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Verdict итог проверки детали
type Verdict string

const (
	VerdictPass Verdict = "PASS" // дефектов нет
	VerdictFail Verdict = "FAIL" // найден дефект
)

// Valid проверяет, что вердикт из допустимого набора
func (v Verdict) Valid() bool {
	return v == VerdictPass || v == VerdictFail
}

// Passed возвращает true для PASS
func (v Verdict) Passed() bool {
	return v == VerdictPass
}

// Severity уровень серьёзности дефекта
type Severity string

const (
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
	SeverityNone   Severity = "N/A" // для PASS
)

// Severities перечисляет допустимые значения в порядке схемы ответа.
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityNone}

// Valid проверяет, что уровень из допустимого набора
func (s Severity) Valid() bool {
	for _, known := range Severities {
		if s == known {
			return true
		}
	}
	return false
}

// Sentinel-значения для PASS.
const (
	NoDefect   = "None"
	NoLocation = "N/A"
)

// InspectionReport отчёт об инспекции из шести полей.
// Создаётся целиком через ParseReport, частичных отчётов не бывает.
type InspectionReport struct {
	InspectionResult Verdict  `json:"inspectionResult"`
	DefectIdentified string   `json:"defectIdentified"`
	LocationOfDefect string   `json:"locationOfDefect"`
	SeverityLevel    Severity `json:"severityLevel"`
	SuggestedFix     string   `json:"suggestedFix"`
	ConfidenceLevel  string   `json:"confidenceLevel"`
}

// rawReport нужен, чтобы отличить отсутствующее поле от пустого.
type rawReport struct {
	InspectionResult *string `json:"inspectionResult"`
	DefectIdentified *string `json:"defectIdentified"`
	LocationOfDefect *string `json:"locationOfDefect"`
	SeverityLevel    *string `json:"severityLevel"`
	SuggestedFix     *string `json:"suggestedFix"`
	ConfidenceLevel  *string `json:"confidenceLevel"`
}

// ParseReport разбирает JSON ответа модели и проверяет все шесть полей.
// Любая ошибка оборачивает ErrAnalysisParse.
func ParseReport(raw []byte) (*InspectionReport, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrAnalysisParse)
	}

	var r rawReport
	if err := json.Unmarshal(trimmed, &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysisParse, err)
	}

	fields := []struct {
		name  string
		value *string
	}{
		{"inspectionResult", r.InspectionResult},
		{"defectIdentified", r.DefectIdentified},
		{"locationOfDefect", r.LocationOfDefect},
		{"severityLevel", r.SeverityLevel},
		{"suggestedFix", r.SuggestedFix},
		{"confidenceLevel", r.ConfidenceLevel},
	}
	for _, f := range fields {
		if f.value == nil {
			return nil, fmt.Errorf("%w: missing field %q", ErrAnalysisParse, f.name)
		}
		if *f.value == "" {
			return nil, fmt.Errorf("%w: empty field %q", ErrAnalysisParse, f.name)
		}
	}

	report := &InspectionReport{
		InspectionResult: Verdict(*r.InspectionResult),
		DefectIdentified: *r.DefectIdentified,
		LocationOfDefect: *r.LocationOfDefect,
		SeverityLevel:    Severity(*r.SeverityLevel),
		SuggestedFix:     *r.SuggestedFix,
		ConfidenceLevel:  *r.ConfidenceLevel,
	}
	if err := report.Validate(); err != nil {
		return nil, err
	}

	return report, nil
}

// Validate проверяет инварианты уже собранного отчёта.
func (r *InspectionReport) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil report", ErrAnalysisParse)
	}
	if !r.InspectionResult.Valid() {
		return fmt.Errorf("%w: unknown inspectionResult %q", ErrAnalysisParse, r.InspectionResult)
	}
	if !r.SeverityLevel.Valid() {
		return fmt.Errorf("%w: unknown severityLevel %q", ErrAnalysisParse, r.SeverityLevel)
	}
	if r.DefectIdentified == "" || r.LocationOfDefect == "" || r.SuggestedFix == "" || r.ConfidenceLevel == "" {
		return fmt.Errorf("%w: report has empty fields", ErrAnalysisParse)
	}
	return nil
}
