package service

import (
	"slices"
	"strings"
)

// missingFields returns the sorted, comma separated names of blank fields.
func missingFields(fields map[string]string) string {
	missing := make([]string, 0, len(fields))
	for name, value := range fields {
		if value == "" {
			missing = append(missing, name)
		}
	}
	slices.Sort(missing)

	return strings.Join(missing, ", ")
}
