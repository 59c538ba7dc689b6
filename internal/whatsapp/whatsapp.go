// Package whatsapp builds wa.me deep links that open an external WhatsApp
// client with a pre-filled recipient and message. Constructing the URI is
// the whole contract; the message transport belongs to the messaging app.
package whatsapp

import (
	"net/url"
	"strings"

	"github.com/go-faster/errors"
	"github.com/skratchdot/open-golang/open"
)

const baseURL = "https://wa.me/"

// ErrEmptyPhone is returned when a phone number contains no digits after
// normalization. A deep link without an addressee is useless, so this is an
// error rather than a silent degenerate URI.
var ErrEmptyPhone = errors.New("phone number has no digits")

// Config customizes the Dispatcher.
type Config struct {
	// CountryCode replaces a local trunk "0" prefix and is prepended to bare
	// national numbers. Defaults to "62" (Indonesia).
	CountryCode string

	// OpenBrowser opens the deep link in the local default browser on
	// Dispatch, mirroring the kiosk behaviour where the server runs on the
	// cashier's machine.
	OpenBrowser bool
}

// Dispatcher normalizes phone numbers and constructs wa.me message links.
type Dispatcher struct {
	countryCode string
	openBrowser bool
}

// NewDispatcher creates a Dispatcher with the given configuration.
func NewDispatcher(cfg Config) *Dispatcher {
	if cfg.CountryCode == "" {
		cfg.CountryCode = "62"
	}
	return &Dispatcher{
		countryCode: cfg.CountryCode,
		openBrowser: cfg.OpenBrowser,
	}
}

// NormalizePhone converts a free-form phone number to international digits:
// non-digits are stripped, a leading trunk "0" is replaced with the country
// code, an already country-prefixed number is left unchanged, and anything
// else gets the country code prepended. An input without digits normalizes
// to "".
func (d *Dispatcher) NormalizePhone(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	phone := digits.String()
	switch {
	case phone == "":
		return ""
	case strings.HasPrefix(phone, "0"):
		return d.countryCode + phone[1:]
	case strings.HasPrefix(phone, d.countryCode):
		return phone
	default:
		return d.countryCode + phone
	}
}

// MessageURL builds the deep link for sending message to phoneNumber.
// The message is percent-encoded; spaces encode as %20, not "+", to match
// what messaging clients expect in a wa.me text parameter.
func (d *Dispatcher) MessageURL(phoneNumber, message string) (string, error) {
	phone := d.NormalizePhone(phoneNumber)
	if phone == "" {
		return "", ErrEmptyPhone
	}
	encoded := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return baseURL + phone + "?text=" + encoded, nil
}

// Dispatch builds the deep link and, when configured, opens it in the local
// browser. The URL is returned even when opening fails so the caller can
// still present it to the cashier.
func (d *Dispatcher) Dispatch(phoneNumber, message string) (string, error) {
	u, err := d.MessageURL(phoneNumber, message)
	if err != nil {
		return "", err
	}
	if d.openBrowser {
		if err := open.Run(u); err != nil {
			return u, errors.Wrap(err, "open deep link")
		}
	}
	return u, nil
}
