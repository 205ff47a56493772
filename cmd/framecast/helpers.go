package main

import (
	"encoding/json"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var numberPrinter = message.NewPrinter(language.English)

// writeJSON renders v as indented JSON for the --json output modes.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func valueOr(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}

func stringOr(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

// formatBytes renders a byte count with thousands separators, e.g.
// "1,204,224 B".
func formatBytes(n int64) string {
	return numberPrinter.Sprintf("%d B", n)
}

// shortID trims a UUID down to its first group for table display.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
