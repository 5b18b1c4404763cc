package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

const (
	MinPasswordLength = 8

	// MaxPasswordBytes is the bcrypt input limit; longer inputs are rejected by the hasher.
	MaxPasswordBytes = 72

	// MaxSimilarity is the highest allowed similarity ratio between the
	// password and any user attribute.
	MaxSimilarity = 0.7

	// maxAttributeLength bounds the attribute values compared against the
	// password; longer values already fail their own max length rule.
	maxAttributeLength = 254
)

var (
	MsgPasswordTooShort = fmt.Sprintf("This password is too short. It must contain at least %d characters.", MinPasswordLength)
	MsgPasswordTooLong  = fmt.Sprintf("This password is too long. It must contain at most %d bytes.", MaxPasswordBytes)
	MsgPasswordNumeric  = "This password is entirely numeric."
	MsgPasswordCommon   = "This password is too common."
)

var attributeSplit = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

var commonPasswords = map[string]struct{}{}

func init() {
	for _, p := range []string{
		"password", "password1", "password12", "password123", "passw0rd", "p@ssw0rd",
		"12345678", "123456789", "1234567890", "11111111", "00000000", "87654321",
		"qwertyui", "qwerty123", "qwertyuiop", "1q2w3e4r", "1qaz2wsx", "zaq12wsx",
		"iloveyou", "sunshine", "princess", "football", "baseball", "superman",
		"starwars", "trustno1", "whatever", "welcome1", "letmein1", "master123",
		"dragon12", "monkey12", "abcd1234", "abc12345", "changeme", "administrator",
		"admin123", "secret123", "computer", "internet", "michelle", "jennifer",
	} {
		commonPasswords[p] = struct{}{}
	}
}

// UserAttributes are compared against the password for similarity.
type UserAttributes struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
}

// CheckPassword applies the password policy and returns one message per
// violated rule; an empty slice means the password is acceptable.
func CheckPassword(password string, attrs UserAttributes) []string {
	var msgs []string

	// The similarity check is quadratic, so it only sees passwords the
	// hasher would accept.
	if len(password) > MaxPasswordBytes {
		msgs = append(msgs, MsgPasswordTooLong)
	} else if attr, ok := tooSimilar(password, attrs); ok {
		msgs = append(msgs, fmt.Sprintf("The password is too similar to the %s.", attr))
	}
	if len([]rune(password)) < MinPasswordLength {
		msgs = append(msgs, MsgPasswordTooShort)
	}
	if _, ok := commonPasswords[strings.ToLower(strings.TrimSpace(password))]; ok {
		msgs = append(msgs, MsgPasswordCommon)
	}
	if isNumeric(password) {
		msgs = append(msgs, MsgPasswordNumeric)
	}
	return msgs
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// tooSimilar compares the password with each attribute and each word of it,
// returning the verbose name of the first attribute that is too close.
func tooSimilar(password string, attrs UserAttributes) (string, bool) {
	pw := strings.ToLower(password)
	if pw == "" {
		return "", false
	}
	pwLen := len([]rune(pw))

	candidates := []struct {
		name  string
		value string
	}{
		{"username", attrs.Username},
		{"email address", attrs.Email},
		{"first name", attrs.FirstName},
		{"last name", attrs.LastName},
	}

	for _, c := range candidates {
		value := strings.ToLower(c.value)
		if value == "" || len([]rune(value)) > maxAttributeLength {
			continue
		}
		parts := append(attributeSplit.Split(value, -1), value)
		for _, part := range parts {
			if part == "" || exceedsLengthRatio(pwLen, len([]rune(part))) {
				continue
			}
			if similarity(pw, part) >= MaxSimilarity {
				return c.name, true
			}
		}
	}
	return "", false
}

// exceedsLengthRatio reports whether the password is so much longer than the
// attribute value that the two can never reach MaxSimilarity.
func exceedsLengthRatio(pwLen, valueLen int) bool {
	return pwLen >= 10*valueLen && float64(valueLen) < MaxSimilarity/2*float64(pwLen)
}

// similarity returns 2*M/T where M is the length of the longest common
// subsequence of a and b and T is their combined length.
func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 0
	}

	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			switch {
			case ra[i-1] == rb[j-1]:
				cur[j] = prev[j-1] + 1
			case prev[j] >= cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return 2 * float64(prev[len(rb)]) / float64(total)
}
