package logging

// Standardized attribute keys. Using these constants keeps log lines
// greppable across packages.
const (
	FieldComponent = "component"
	FieldJobID     = "job_id"
	FieldFormat    = "format"
	FieldStage     = "stage"
	FieldPercent   = "percent"
	FieldFrame     = "frame"
	FieldError     = "error"
)
