package util

import (
	"strings"
	"unicode"
)

// ToSnakeCase converts PascalCase or camelCase to snake_case.
// Handles acronyms properly (e.g., "HTTPRequest" -> "http_request")
func ToSnakeCase(s string) string {
	var result strings.Builder
	runes := []rune(s)

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if i > 0 && unicode.IsUpper(r) {
			// Don't insert underscore inside an acronym unless the next char
			// is lowercase (end of acronym)
			prevUpper := unicode.IsUpper(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])

			if (!prevUpper || nextLower) && runes[i-1] != '_' {
				result.WriteRune('_')
			}
		}

		result.WriteRune(r)
	}

	return strings.ToLower(result.String())
}

// ToPascalCase converts snake_case, SCREAMING_SNAKE or kebab-case to PascalCase.
// An all-upper-case input is title-cased first ("PAUSE_MODE_STOP" -> "PauseModeStop");
// otherwise inner casing is kept ("get_AABB" -> "GetAABB").
func ToPascalCase(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-'
	})

	allUpper := s == strings.ToUpper(s)

	var result strings.Builder
	for _, part := range parts {
		if len(part) == 0 {
			continue
		}
		if allUpper {
			part = strings.ToLower(part)
		}
		runes := []rune(part)
		result.WriteRune(unicode.ToUpper(runes[0]))
		result.WriteString(string(runes[1:]))
	}

	return result.String()
}

// ToCamelCase converts snake_case or kebab-case to camelCase
func ToCamelCase(s string) string {
	pascal := ToPascalCase(s)
	if len(pascal) == 0 {
		return pascal
	}

	runes := []rune(pascal)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// CommonPrefix returns the longest underscore-delimited prefix shared by all
// names, including the trailing underscore ("PAUSE_MODE_"). It never consumes
// a whole name, so stripping it leaves every name non-empty.
func CommonPrefix(names []string) string {
	if len(names) < 2 {
		return ""
	}
	prefix := names[0]
	for _, n := range names[1:] {
		for !strings.HasPrefix(n, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	cut := strings.LastIndex(prefix, "_")
	if cut < 0 {
		return ""
	}
	prefix = prefix[:cut+1]
	for _, n := range names {
		rest := strings.TrimPrefix(n, prefix)
		if rest == "" || !unicode.IsLetter([]rune(rest)[0]) {
			return ""
		}
	}
	return prefix
}
