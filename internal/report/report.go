// Package report renders a completed symptom check as a printable HTML
// document.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/symptom-triage-server/internal/domain"
	"github.com/symptom-triage-server/internal/history"
)

// Generator renders check reports from a pre-parsed template.
type Generator struct {
	tmpl *template.Template
}

// NewGenerator parses the report template.
func NewGenerator() (*Generator, error) {
	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"riskClass": riskClass,
	}).Parse(reportTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing report template: %w", err)
	}
	return &Generator{tmpl: tmpl}, nil
}

// reportData is the template context for one rendered report.
type reportData struct {
	Check      *history.CheckRecord
	Result     *domain.AnalysisResult
	ReportDate string
	RiskLabel  string
	Advice     []string
}

// GenerateHTML renders the check as a standalone HTML page.
func (g *Generator) GenerateHTML(check *history.CheckRecord) (string, error) {
	if check == nil || check.Result == nil {
		return "", fmt.Errorf("check record with analysis result is required")
	}

	data := reportData{
		Check:      check,
		Result:     check.Result,
		ReportDate: formatDate(time.Now()),
		RiskLabel:  riskLabel(check.Result.RiskLevel),
		Advice:     splitParagraphs(check.Result.GeneralAdvice),
	}

	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}
	return buf.String(), nil
}

// Filename suggests a download filename for a check's report.
func Filename(checkID string, now time.Time) string {
	return fmt.Sprintf("symptom_report_%s_%s.html", checkID, now.Format("20060102"))
}

func formatDate(t time.Time) string {
	return t.Format("January 2, 2006 at 3:04 PM")
}

func riskLabel(level domain.RiskLevel) string {
	switch level {
	case domain.RiskHigh:
		return "High Risk"
	case domain.RiskModerate:
		return "Moderate Risk"
	case domain.RiskLow:
		return "Low Risk"
	default:
		return "Unknown Risk"
	}
}

func riskClass(level domain.RiskLevel) string {
	switch level {
	case domain.RiskHigh:
		return "risk-high"
	case domain.RiskModerate:
		return "risk-moderate"
	case domain.RiskLow:
		return "risk-low"
	default:
		return "risk-unknown"
	}
}

// splitParagraphs breaks the advice text on blank lines so the template can
// render each paragraph separately.
func splitParagraphs(text string) []string {
	var paragraphs []string
	for _, part := range strings.Split(text, "\n\n") {
		part = strings.TrimSpace(part)
		if part != "" {
			paragraphs = append(paragraphs, part)
		}
	}
	return paragraphs
}

const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Symptom Analysis Report</title>
<style>
body { font-family: 'Helvetica', 'Arial', sans-serif; line-height: 1.6; color: #333; max-width: 800px; margin: 0 auto; padding: 20px; }
.header { text-align: center; margin-bottom: 30px; padding-bottom: 20px; border-bottom: 1px solid #ddd; }
.header h1 { color: #1E88E5; margin-bottom: 5px; }
.report-date { color: #666; font-style: italic; }
.section { margin-bottom: 30px; }
.section h2 { color: #1E88E5; border-bottom: 1px solid #eee; padding-bottom: 10px; }
.user-info { background-color: #f9f9f9; padding: 15px; border-radius: 5px; margin-bottom: 20px; }
.user-info table { width: 100%; }
.user-info table td { padding: 8px; }
.user-info table td:first-child { font-weight: bold; width: 150px; }
.symptoms-list { columns: 2; margin-bottom: 20px; }
.risk-level { display: inline-block; padding: 5px 10px; border-radius: 15px; font-weight: bold; text-transform: uppercase; margin-bottom: 10px; }
.risk-high { background-color: #ffebee; color: #c62828; border: 1px solid #ef9a9a; }
.risk-moderate { background-color: #fff8e1; color: #ff8f00; border: 1px solid #ffe082; }
.risk-low { background-color: #e8f5e9; color: #2e7d32; border: 1px solid #a5d6a7; }
.risk-unknown { background-color: #E0E0E0; color: #757575; border: 1px solid #BDBDBD; }
.condition-card { border: 1px solid #eee; padding: 15px; margin-bottom: 15px; border-radius: 5px; }
.condition-card h3 { margin-top: 0; color: #1E88E5; }
.medical-advice { background-color: #E3F2FD; padding: 15px; border-radius: 5px; margin-bottom: 20px; }
.disclaimer { background-color: #FFF8E1; padding: 15px; border-radius: 5px; margin-top: 30px; font-size: 0.9em; }
.sources { font-size: 0.9em; color: #666; }
@media print { body { font-size: 12pt; color: #000; } .header h1 { color: #000; } .section h2, .condition-card h3 { color: #000; } .disclaimer { border: 1px solid #ccc; } }
</style>
</head>
<body>
<div class="header">
<h1>Symptom Analysis Report</h1>
<p class="report-date">Generated on {{.ReportDate}}</p>
<p class="report-date">Check ID: {{.Check.CheckID}}</p>
</div>

<div class="section">
<h2>Patient Information</h2>
<div class="user-info">
<table>
<tr><td>Age:</td><td>{{.Check.Age}}</td></tr>
{{if .Check.Gender}}<tr><td>Gender:</td><td>{{.Check.Gender}}</td></tr>{{end}}
<tr><td>Symptom Duration:</td><td>{{.Check.Duration}}</td></tr>
<tr><td>Symptom Severity:</td><td>{{.Check.Severity}}</td></tr>
{{if .Check.AdditionalInfo}}<tr><td>Additional Info:</td><td>{{.Check.AdditionalInfo}}</td></tr>{{end}}
</table>
</div>
</div>

<div class="section">
<h2>Reported Symptoms</h2>
<div class="symptoms-list">
<ul>
{{range .Check.Symptoms}}<li>{{.}}</li>
{{end}}</ul>
</div>
</div>

<div class="section">
<h2>Analysis Results</h2>

<h3>Risk Assessment</h3>
<div class="risk-level {{riskClass .Result.RiskLevel}}">{{.RiskLabel}}</div>
{{if .Result.SeekMedicalAttention}}
<p><strong>Recommendation: Please seek medical attention as soon as possible.</strong></p>
{{else}}
<p>Based on your symptoms, immediate medical attention may not be necessary, but consult a healthcare provider if symptoms persist or worsen.</p>
{{end}}

<h3>Possible Conditions</h3>
{{if .Result.PossibleConditions}}
{{range .Result.PossibleConditions}}
<div class="condition-card">
<h3>{{.Name}}</h3>
<p><strong>Description:</strong> {{.Description}}</p>
{{if .CommonSymptoms}}
<p><strong>Common Symptoms:</strong></p>
<ul>
{{range .CommonSymptoms}}<li>{{.}}</li>
{{end}}</ul>
{{end}}
{{if .DietRecommendations}}
<p><strong>Diet Recommendations:</strong></p>
<ul>
{{range .DietRecommendations}}<li>{{.}}</li>
{{end}}</ul>
{{end}}
</div>
{{end}}
{{else}}
<p>No specific conditions identified based on the provided symptoms.</p>
{{end}}

<h3>General Health Advice</h3>
<div class="medical-advice">
{{range .Advice}}<p>{{.}}</p>
{{end}}</div>

{{if .Result.MedicalSources}}
<h3>Medical Sources</h3>
<div class="sources">
<ul>
{{range .Result.MedicalSources}}<li><a href="{{.}}">{{.}}</a></li>
{{end}}</ul>
</div>
{{end}}
</div>

<div class="disclaimer">
<h3>Medical Disclaimer</h3>
<p><strong>Important:</strong> This report is generated based on the symptoms you provided and is NOT a medical diagnosis.
The information provided should not replace professional medical advice, diagnosis, or treatment.
Always seek the advice of your physician or other qualified health provider with any questions you may have regarding a medical condition.</p>
<p>If you are experiencing a medical emergency, please call your local emergency number or go to the nearest emergency room immediately.</p>
</div>
</body>
</html>
`
