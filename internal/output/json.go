package output

import (
	"github.com/manav03panchal/toggl2slack/internal/errors"
)

// JSONFormatter provides JSON-specific formatting.
type JSONFormatter struct {
	*Formatter
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(f *Formatter) *JSONFormatter {
	return &JSONFormatter{Formatter: f}
}

// PeriodOutput is the reporting period in JSON output.
type PeriodOutput struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// DeliveryOutput describes one artifact sent to one sink.
type DeliveryOutput struct {
	Artifact   string `json:"artifact"`
	Sink       string `json:"sink"`
	OK         bool   `json:"ok"`
	Error      string `json:"error,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// ReportResponse is the JSON output of the report, summary and table commands.
type ReportResponse struct {
	Status     string           `json:"status"`
	Period     PeriodOutput     `json:"period"`
	Users      int              `json:"users"`
	Projects   int              `json:"projects"`
	Records    int              `json:"records"`
	TotalHours string           `json:"total_hours,omitempty"`
	DryRun     bool             `json:"dry_run,omitempty"`
	Summary    string           `json:"summary,omitempty"`
	Table      string           `json:"table,omitempty"`
	File       string           `json:"file,omitempty"`
	Deliveries []DeliveryOutput `json:"deliveries,omitempty"`
}

// ConfigResponse is the JSON output of config show.
type ConfigResponse struct {
	File     string            `json:"file,omitempty"`
	Settings map[string]string `json:"settings"`
}

// ErrorResponse represents an error in JSON.
type ErrorResponse struct {
	Status     string `json:"status"`
	Error      string `json:"error"`
	Category   string `json:"category"`
	Suggestion string `json:"suggestion,omitempty"`
}

// NewErrorResponse builds an ErrorResponse from err.
func NewErrorResponse(err error) ErrorResponse {
	return ErrorResponse{
		Status:     "error",
		Error:      err.Error(),
		Category:   errors.Classify(err).String(),
		Suggestion: errors.GetSuggestion(err),
	}
}

// PrintReport writes a report response.
func (j *JSONFormatter) PrintReport(resp ReportResponse) error {
	if resp.Status == "" {
		resp.Status = "ok"
	}
	return j.JSON(resp)
}

// PrintConfig writes a config response.
func (j *JSONFormatter) PrintConfig(resp ConfigResponse) error {
	return j.JSON(resp)
}

// PrintError writes err as an ErrorResponse.
func (j *JSONFormatter) PrintError(err error) error {
	return j.JSON(NewErrorResponse(err))
}
