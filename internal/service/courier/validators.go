package courier

import (
	"strings"
	"unicode"
)

func isValidName(name string) bool {
	return strings.TrimSpace(name) != ""
}

func isValidPhone(phone string) bool {
	phone = strings.TrimSpace(phone)
	if len(phone) < 2 || phone[0] != '+' {
		return false
	}

	for _, char := range phone[1:] {
		if char < '0' || char > '9' {
			return false
		}
	}
	return true
}

// isValidPayoutAccount accepts any non-empty gateway subaccount code without
// whitespace.
func isValidPayoutAccount(account string) bool {
	if account == "" {
		return false
	}
	return strings.IndexFunc(account, unicode.IsSpace) == -1
}
