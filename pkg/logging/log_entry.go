package logging

// LogEntry represents a structured log record with fields particularly
// relevant to evolutionary runs.
type LogEntry struct {
	// Standard fields
	Time     int64
	Severity Severity
	Message  string
	File     string
	Line     int
	Function string

	// Run-specific fields
	TaskID     string // The evolution task being driven
	Generation int    // Generation counter at log time, -1 when unknown

	// General structured data
	Fields map[string]interface{}
}
