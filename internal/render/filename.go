package render

import (
	"fmt"
	"regexp"
	"time"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_]`)

// SanitizeFilename replaces every character outside [A-Za-z0-9_] with an underscore so
// the result is safe inside a Content-Disposition header and as a path segment.
func SanitizeFilename(name string) string {
	return unsafeFilenameChars.ReplaceAllString(name, "_")
}

// ReportFilename builds "{sanitized name}_report_{unix millis}.{ext}".
func ReportFilename(clientName, ext string, now time.Time) string {
	return fmt.Sprintf("%s_report_%d.%s", SanitizeFilename(clientName), now.UnixMilli(), ext)
}

// ContentDisposition returns an attachment header value for filename.
func ContentDisposition(filename string) string {
	return fmt.Sprintf("attachment; filename=\"%s\"", filename)
}
