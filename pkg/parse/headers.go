// Package parse splits the raw string forms found in legacy documents: header
// blocks and URL query strings.
package parse

import "strings"

// Header is one parsed header line.
type Header struct {
	Key         string
	Value       string
	Description string
	Disabled    bool
}

// disabledPrefix marks a header line that is kept but switched off.
const disabledPrefix = "//"

// descriptionSep separates a header value from an inline description.
const descriptionSep = " // "

// Headers parses a newline separated header block of "Key: value" lines.
// Lines starting with "//" are disabled headers. Unless noDescriptions is
// set, a " // " inside the value starts an inline description.
func Headers(raw string, noDescriptions bool) []Header {
	if raw == "" {
		return nil
	}

	var headers []Header
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var h Header
		if strings.HasPrefix(line, disabledPrefix) {
			h.Disabled = true
			line = strings.TrimSpace(strings.TrimPrefix(line, disabledPrefix))
		}

		key, value, _ := strings.Cut(line, ":")
		h.Key = strings.TrimSpace(key)
		h.Value = strings.TrimSpace(value)
		if h.Key == "" {
			continue
		}

		if !noDescriptions {
			if v, desc, ok := strings.Cut(h.Value, descriptionSep); ok {
				h.Value = strings.TrimSpace(v)
				h.Description = strings.TrimSpace(desc)
			}
		}
		headers = append(headers, h)
	}
	return headers
}

// UnparseHeaders writes headers back as a raw block, one "Key: value" per
// line, disabled headers prefixed with "//".
func UnparseHeaders(headers []Header) string {
	lines := make([]string, 0, len(headers))
	for _, h := range headers {
		line := h.Key + ": " + h.Value
		if h.Disabled {
			line = disabledPrefix + line
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
