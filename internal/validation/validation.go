package validation

import (
	"math/rand"
	"regexp"
	"strings"
	"unicode"
)

// OrganizationDomain is the mail domain every account must belong to.
const OrganizationDomain = "farmcentral.com"

var (
	emailRe   = regexp.MustCompile(`^([\w.\-]+)@([\w\-]+)((\.\w{2,3})+)$`)
	phoneRe   = regexp.MustCompile(`^0\d{9}$`)
	lettersRe = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	alnumRe   = regexp.MustCompile(`^[a-zA-Z0-9_\s]+$`)
	decimalRe = regexp.MustCompile(`^\d*\.?\d*$`)
)

func IsEmailValid(email string) bool {
	if strings.TrimSpace(email) == "" {
		return false
	}
	return emailRe.MatchString(email)
}

// IsOrganizationEmail reports whether email belongs to the fixed
// organization domain.
func IsOrganizationEmail(email string) bool {
	return IsEmailInDomain(email, OrganizationDomain)
}

func IsEmailInDomain(email, domain string) bool {
	if strings.TrimSpace(email) == "" || domain == "" {
		return false
	}
	return strings.HasSuffix(email, "@"+domain)
}

func IsPhoneValid(phone string) bool {
	return phoneRe.MatchString(phone)
}

func OnlyLetters(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	return lettersRe.MatchString(text)
}

func LettersNumbersWhitespace(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	return alnumRe.MatchString(text)
}

func IsDecimalValid(value string) bool {
	if strings.TrimSpace(value) == "" {
		return false
	}
	return decimalRe.MatchString(value)
}

// MeetsPasswordRequirements checks length 8..128 and at least one uppercase,
// one lowercase, one digit and one non-alphanumeric character.
func MeetsPasswordRequirements(password string) bool {
	if len(password) < 8 || len(password) > 128 {
		return false
	}
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			special = true
		}
	}
	return upper && lower && digit && special
}

// TrimDecimal normalizes a user-typed decimal: trims whitespace, a trailing
// dot, leading zeros, and prefixes a bare ".5" with a zero. Returns "" when
// nothing usable remains.
func TrimDecimal(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	value = strings.TrimSuffix(value, ".")
	if strings.HasPrefix(value, "0") && len(value) > 1 && value[1] != '.' {
		value = strings.TrimLeft(value, "0")
	}
	if strings.HasPrefix(value, ".") {
		value = "0" + value
	}
	if strings.TrimSpace(value) == "" {
		return ""
	}
	return value
}

const (
	uppercaseLetters  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowercaseLetters  = "abcdefghijklmnopqrstuvwxyz"
	digits            = "0123456789"
	specialCharacters = "!@#$%^&*()_+-=[]{}|;:,.<>/?"
)

// GenerateTemporaryPassword returns an 8-character password with at least one
// character from each class, shuffled.
//
// TODO: provision farmers with generated passwords instead of the fixed
// temporary one once a credential-delivery channel (reset mail) exists.
func GenerateTemporaryPassword() string {
	const length = 8
	all := uppercaseLetters + lowercaseLetters + digits + specialCharacters

	chars := make([]byte, length)
	chars[0] = uppercaseLetters[rand.Intn(len(uppercaseLetters))]
	chars[1] = lowercaseLetters[rand.Intn(len(lowercaseLetters))]
	chars[2] = digits[rand.Intn(len(digits))]
	chars[3] = specialCharacters[rand.Intn(len(specialCharacters))]
	for i := 4; i < length; i++ {
		chars[i] = all[rand.Intn(len(all))]
	}

	rand.Shuffle(length, func(i, j int) {
		chars[i], chars[j] = chars[j], chars[i]
	})

	return string(chars)
}
