package utils

import (
	"math/rand"
	"strings"
)

const passwordCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateRandomPassword creates an initial password for a new employee
// account; the welcome mail carries it and the user is expected to change it.
func GenerateRandomPassword(length int) string {
	var sb strings.Builder
	for i := 0; i < length; i++ {
		sb.WriteByte(passwordCharset[rand.Intn(len(passwordCharset))])
	}
	return sb.String()
}

// GenerateRandomOTP returns a 6-digit one-time code for password resets.
func GenerateRandomOTP() string {
	digits := "0123456789"
	var sb strings.Builder
	for i := 0; i < 6; i++ {
		sb.WriteByte(digits[rand.Intn(len(digits))])
	}
	return sb.String()
}

// UsernameFromName derives a login name from a German first/last name pair:
// lowercased, umlauts transliterated, joined by a dot.
func UsernameFromName(firstName, lastName string) string {
	return transliterate(firstName) + "." + transliterate(lastName)
}

var umlauts = strings.NewReplacer(
	"ä", "ae", "ö", "oe", "ü", "ue", "ß", "ss",
	"Ä", "ae", "Ö", "oe", "Ü", "ue",
)

func transliterate(s string) string {
	s = umlauts.Replace(s)
	s = strings.ToLower(s)
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, s)
}
