package granola

import (
	"fmt"
	"net/netip"
	"strings"
	"unicode"
)

// Masker applies content-aware masking.
type Masker interface {
	// Mask applies masking to the value.
	Mask(value string) string
}

// MaskerFunc adapts a function into a Masker.
type MaskerFunc func(value string) string

// Mask calls f.
func (f MaskerFunc) Mask(value string) string {
	return f(value)
}

// builtinMaskers holds the masker for every MaskType.
var builtinMaskers = map[MaskType]Masker{
	MaskSSN:   MaskerFunc(maskSSN),
	MaskEmail: MaskerFunc(maskEmail),
	MaskPhone: MaskerFunc(maskPhone),
	MaskCard:  MaskerFunc(maskCard),
	MaskIP:    MaskerFunc(maskIP),
	MaskUUID:  MaskerFunc(maskUUID),
	MaskIBAN:  MaskerFunc(maskIBAN),
	MaskName:  MaskerFunc(maskName),
}

// MaskerFor returns the builtin masker for mt.
func MaskerFor(mt MaskType) (Masker, bool) {
	m, ok := builtinMaskers[mt]
	return m, ok
}

// hideAll replaces every byte of value with '*'.
func hideAll(value string) string {
	return strings.Repeat("*", len(value))
}

// digitsOf returns only the digit characters from s.
func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// maskSSN keeps the last four digits.
func maskSSN(value string) string {
	digits := digitsOf(value)
	if len(digits) < 4 {
		return hideAll(value)
	}
	return "***-**-" + digits[len(digits)-4:]
}

// maskEmail keeps the first character of the local part and the domain.
func maskEmail(value string) string {
	at := strings.LastIndex(value, "@")
	if at < 1 {
		return hideAll(value)
	}
	return value[:1] + "***" + value[at:]
}

// maskPhone keeps the last four digits and the area code layout.
func maskPhone(value string) string {
	digits := digitsOf(value)
	if len(digits) < 4 {
		return hideAll(value)
	}

	last4 := digits[len(digits)-4:]
	switch {
	case strings.HasPrefix(value, "(") && len(digits) >= 10:
		return "(***) ***-" + last4
	case len(digits) >= 10:
		return "***-***-" + last4
	default:
		return "***-" + last4
	}
}

// maskCard keeps the last four digits and the grouping separator, if any.
func maskCard(value string) string {
	digits := digitsOf(value)
	if len(digits) < 4 {
		return hideAll(value)
	}

	last4 := digits[len(digits)-4:]
	for _, sep := range []string{" ", "-"} {
		if strings.Contains(value, sep) {
			groups := make([]string, (len(digits)-4+3)/4)
			for i := range groups {
				groups[i] = "****"
			}
			return strings.Join(append(groups, last4), sep)
		}
	}
	return strings.Repeat("*", len(digits)-4) + last4
}

// maskIP keeps the network half of an address: two octets for IPv4, four
// groups for IPv6.
func maskIP(value string) string {
	addr, err := netip.ParseAddr(value)
	if err != nil {
		return hideAll(value)
	}

	if addr.Is4() {
		b := addr.As4()
		return fmt.Sprintf("%d.%d.xxx.xxx", b[0], b[1])
	}

	groups := strings.Split(addr.StringExpanded(), ":")
	return strings.Join(groups[:4], ":") + ":xxxx:xxxx:xxxx:xxxx"
}

// maskUUID keeps the first segment.
func maskUUID(value string) string {
	parts := strings.Split(value, "-")
	if len(parts) != 5 {
		return hideAll(value)
	}
	return parts[0] + "-****-****-****-************"
}

// maskIBAN keeps the country code, check digits and last four characters.
func maskIBAN(value string) string {
	if len(value) <= 8 {
		return hideAll(value)
	}
	return value[:4] + strings.Repeat("*", len(value)-8) + value[len(value)-4:]
}

// maskName keeps the first letter of each word.
func maskName(value string) string {
	words := strings.Fields(value)
	for i, word := range words {
		runes := []rune(word)
		words[i] = string(runes[0]) + strings.Repeat("*", len(runes)-1)
	}
	return strings.Join(words, " ")
}
