package draft

import "regexp"

// phonePattern accepts digits plus common formatting characters:
// spaces, dashes, parentheses and a leading plus.
var phonePattern = regexp.MustCompile(`^[\d\s\-()+]+$`)

// ValidPhone reports whether the string looks like a dialable number:
// formatting characters only around the digits, and at least ten
// digits once formatting is stripped. Country-specific validation is
// the delivery service's job.
func ValidPhone(phone string) bool {
	if !phonePattern.MatchString(phone) {
		return false
	}
	digits := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 10
}
