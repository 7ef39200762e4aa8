package utils

import (
	"regexp"
	"strings"
)

var curpPattern = regexp.MustCompile(`^[A-Z]{4}[0-9]{6}[HM][A-Z]{5}[0-9]{2}$`)

// curpValues maps each CURP character to its check digit value.
// Ñ sits between N and O, so letters after N are shifted by one.
var curpValues = func() map[rune]int {
	values := make(map[rune]int, 37)
	for i, r := range "0123456789" {
		values[r] = i
	}
	for i, r := range []rune("ABCDEFGHIJKLMNÑOPQRSTUVWXYZ") {
		values[r] = 10 + i
	}
	return values
}()

// NormalizeCURP trims surrounding whitespace and uppercases the value
func NormalizeCURP(curp string) string {
	return strings.ToUpper(strings.TrimSpace(curp))
}

// ValidateCURP checks the structure and check digit of a CURP.
// Input is matched case-insensitively; malformed values return false.
func ValidateCURP(curp string) bool {
	curp = strings.ToUpper(curp)
	if len(curp) != 18 || !curpPattern.MatchString(curp) {
		return false
	}

	digit, ok := CURPCheckDigit(curp[:17])
	if !ok {
		return false
	}
	return int(curp[17]-'0') == digit
}

// CURPCheckDigit computes the check digit for the first 17 characters of a CURP
func CURPCheckDigit(prefix string) (int, bool) {
	chars := []rune(strings.ToUpper(prefix))
	if len(chars) != 17 {
		return 0, false
	}

	sum := 0
	for i, r := range chars {
		value, ok := curpValues[r]
		if !ok {
			return 0, false
		}
		sum += value * (18 - i)
	}

	return (10 - sum%10) % 10, true
}
