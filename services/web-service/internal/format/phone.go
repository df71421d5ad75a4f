package format

import "strings"

const maxPhoneDigits = 11

// Phone masks a Brazilian phone number from whatever has been typed so far.
// The mask is always rebuilt from the digits alone, so applying it to its
// own output is a no-op.
func Phone(input string) string {
	d := PhoneDigits(input)
	if len(d) > maxPhoneDigits {
		d = d[:maxPhoneDigits]
	}
	switch n := len(d); {
	case n > 10:
		return "(" + d[:2] + ") " + d[2:7] + "-" + d[7:]
	case n >= 7:
		return "(" + d[:2] + ") " + d[2:6] + "-" + d[6:]
	case n >= 3:
		return "(" + d[:2] + ") " + d[2:]
	default:
		return d
	}
}

func PhoneDigits(input string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, input)
}

// ValidPhone accepts landlines (10 digits) and mobiles (11 digits).
func ValidPhone(input string) bool {
	n := len(PhoneDigits(input))
	return n == 10 || n == 11
}
