// Package whatsapp builds click-to-chat links. Sending through the Business
// Cloud API is not supported.
package whatsapp

import (
	"errors"
	"net/url"
	"strings"
)

const baseURL = "https://wa.me/"

var ErrInvalidPhone = errors.New("whatsapp_invalid_phone")

// ClickToChatLink returns https://wa.me/<digits>?text=<message>. The phone is
// reduced to its digits, so "+229 97 00 00 00" and "22997000000" are
// equivalent.
func ClickToChatLink(phone, text string) (string, error) {
	digits := Digits(phone)
	if digits == "" {
		return "", ErrInvalidPhone
	}
	link := baseURL + digits
	if text != "" {
		link += "?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	}
	return link, nil
}

func Digits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
