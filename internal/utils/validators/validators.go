package validators

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

func HasUpper(fl validator.FieldLevel) bool {
	return containsFunc(fl.Field().String(), unicode.IsUpper)
}

func HasLower(fl validator.FieldLevel) bool {
	return containsFunc(fl.Field().String(), unicode.IsLower)
}

func HasDigit(fl validator.FieldLevel) bool {
	return containsFunc(fl.Field().String(), unicode.IsDigit)
}

func HasSpecial(fl validator.FieldLevel) bool {
	return containsFunc(fl.Field().String(), func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
}

// NoDupes validates string slices, failing when any value appears twice.
// Comparison is case-insensitive, tags "Work" and "work" are duplicates.
func NoDupes(fl validator.FieldLevel) bool {
	values, ok := fl.Field().Interface().([]string)
	if !ok {
		return false
	}

	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		key := strings.ToLower(v)
		if _, found := seen[key]; found {
			return false
		}
		seen[key] = struct{}{}
	}
	return true
}

func NoWhiteSpaces(fl validator.FieldLevel) bool {
	return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
}

func containsFunc(s string, fn func(rune) bool) bool {
	return strings.ContainsFunc(s, fn)
}
