package rendering

import (
	"bytes"
	"embed"
	"html/template"
	"strings"
	"sync"
	"time"

	"github.com/jonathan/interview-partner/internal/types"
)

//go:embed templates/report.html.tmpl
var templateFS embed.FS

const reportTemplateName = "report.html.tmpl"

var (
	reportTmpl     *template.Template
	reportTmplErr  error
	reportTmplOnce sync.Once
)

// ReportView is the data passed to the report template.
type ReportView struct {
	Report        *types.FinalReport
	CategoryRadar RadarGeometry
	SpeechRadar   RadarGeometry
	HasSpeech     bool
	GeneratedAt   string
}

// NewReportView builds the template data for a report.
func NewReportView(report *types.FinalReport) ReportView {
	generated := report.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	sb := report.SpeechBreakdown
	return ReportView{
		Report:        report,
		CategoryRadar: RadarChart(CategoryAxes(report.CategoryScores), DefaultRadarSize),
		SpeechRadar:   RadarChart(BreakdownAxes(sb), DefaultRadarSize),
		HasSpeech:     sb != (types.ScoreBreakdown{}),
		GeneratedAt:   generated.UTC().Format("2006-01-02 15:04 MST"),
	}
}

// RenderReportHTML renders a final report as a standalone HTML page.
func RenderReportHTML(report *types.FinalReport) (string, error) {
	if report == nil {
		return "", &TemplateError{Message: "report is nil"}
	}

	tmpl, err := parseTemplate()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, NewReportView(report)); err != nil {
		return "", &TemplateError{Template: reportTemplateName, Message: "execute", Cause: err}
	}
	return buf.String(), nil
}

// parseTemplate parses the embedded report template once
func parseTemplate() (*template.Template, error) {
	reportTmplOnce.Do(func() {
		funcs := template.FuncMap{"join": strings.Join}
		reportTmpl, reportTmplErr = template.New(reportTemplateName).Funcs(funcs).ParseFS(templateFS, "templates/"+reportTemplateName)
		if reportTmplErr != nil {
			reportTmplErr = &TemplateError{Template: reportTemplateName, Message: "parse", Cause: reportTmplErr}
		}
	})
	return reportTmpl, reportTmplErr
}
