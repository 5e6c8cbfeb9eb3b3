package patch

import "strings"

// TrimmedOrNil returns nil for nil or blank input, otherwise the trimmed value.
func TrimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
