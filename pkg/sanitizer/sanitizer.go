package sanitizer

import "strings"

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

func trim(s string) string {
	return strings.TrimSpace(s)
}

func lower(s string) string {
	return strings.ToLower(s)
}

// SanitizeStation normalizes a station name so that search and booking compare
// the same text the catalog stored.
func SanitizeStation(input string) string {
	return Pipeline{stripControl, TrimAndNormalize}.Apply(input)
}

func SanitizeUserName(input string) string {
	return Pipeline{stripControl, trim}.Apply(input)
}

func SanitizeEmail(input string) string {
	return Pipeline{trim, lower}.Apply(input)
}

func SanitizeDate(input string) string {
	return Pipeline{trim}.Apply(input)
}
