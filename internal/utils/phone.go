package utils

import (
	"regexp"
	"strings"
)

var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\+52[0-9]{10}$`), // country code
	regexp.MustCompile(`^[0-9]{10}$`),
	regexp.MustCompile(`^044[0-9]{10}$`), // local mobile
	regexp.MustCompile(`^045[0-9]{10}$`), // long distance mobile
}

var phoneCleaner = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")

// CleanPhone strips spaces, hyphens and parentheses
func CleanPhone(phone string) string {
	return phoneCleaner.Replace(phone)
}

// ValidateMexicanPhone reports whether phone is a valid Mexican number
func ValidateMexicanPhone(phone string) bool {
	clean := CleanPhone(phone)
	for _, pattern := range phonePatterns {
		if pattern.MatchString(clean) {
			return true
		}
	}
	return false
}
