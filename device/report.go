// Package device holds interfaces shared by the report-producing devices.
package device

// ReportBuilder is implemented by states that encode into a HID report.
type ReportBuilder interface {
	// BuildReport encodes the state into a report payload.
	BuildReport() []byte
}
