package sanitizer

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var (
	supportedRegions = []string{
		"IN",
		"US",
	}

	reE164 = regexp.MustCompile(`^\+[1-9]\d{7,14}$`)
)

func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)

	if phone == "" {
		return ""
	}

	for _, region := range supportedRegions {
		parsedNumber, err := phonenumbers.Parse(phone, region)
		if err != nil {
			continue
		}
		formatted := phonenumbers.Format(parsedNumber, phonenumbers.E164)
		if reE164.MatchString(formatted) {
			return formatted
		}
	}
	return ""
}
