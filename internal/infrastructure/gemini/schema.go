package gemini

import "defect-lens/internal/domain/entity"

// InspectionPrompt фиксированная инструкция для модели
const InspectionPrompt = `You are an AI defect detection assistant for small-scale industries.
Analyze the product image taken from a smartphone.

Tasks:
1. Detect visible manufacturing defects.
2. Classify defect type.
3. Suggest corrective action.

Use simple language. Return the analysis in a structured JSON format.`

// Типы схемы из API Gemini
const (
	typeObject = "OBJECT"
	typeString = "STRING"
)

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseMIMEType string  `json:"responseMimeType"`
	ResponseSchema   *schema `json:"responseSchema"`
}

type schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Properties  map[string]*schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// reportSchema строгая схема отчёта: шесть обязательных полей
func reportSchema() *schema {
	severities := make([]string, 0, len(entity.Severities))
	for _, s := range entity.Severities {
		severities = append(severities, string(s))
	}

	return &schema{
		Type: typeObject,
		Properties: map[string]*schema{
			"inspectionResult": {
				Type: typeString,
				Enum: []string{string(entity.VerdictPass), string(entity.VerdictFail)},
			},
			"defectIdentified": {
				Type:        typeString,
				Description: "Name/type of defect found, or 'None' if PASS",
			},
			"locationOfDefect": {
				Type:        typeString,
				Description: "Where the defect is located on the product, or 'N/A' if PASS",
			},
			"severityLevel": {
				Type: typeString,
				Enum: severities,
			},
			"suggestedFix": {
				Type:        typeString,
				Description: "Simple corrective action to fix the defect",
			},
			"confidenceLevel": {
				Type:        typeString,
				Description: "Confidence percentage (e.g. 95%)",
			},
		},
		Required: []string{
			"inspectionResult",
			"defectIdentified",
			"locationOfDefect",
			"severityLevel",
			"suggestedFix",
			"confidenceLevel",
		},
	}
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
	Error *apiErrorBody `json:"error,omitempty"`
}

type apiErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}
