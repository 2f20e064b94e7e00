// Package render computes remaining time for a countdown and substitutes
// it into a user supplied template.
package render

import (
	"strconv"
	"strings"
	"time"
)

// Placeholder tokens recognized in countdown templates.
const (
	TokenDays    = "{days}"
	TokenHours   = "{hours}"
	TokenMinutes = "{minutes}"
	TokenSeconds = "{seconds}"
)

// Tokens lists all placeholder tokens a template must contain.
var Tokens = []string{TokenDays, TokenHours, TokenMinutes, TokenSeconds}

// Components is a remaining duration broken into display units.
type Components struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

// Remaining returns the time left until target. ok is false once the
// target has passed.
func Remaining(target, now time.Time) (d time.Duration, ok bool) {
	if !target.After(now) {
		return 0, false
	}
	return target.Sub(now), true
}

// Decompose splits a duration into whole days, hours, minutes and seconds.
// Sub-second precision is discarded.
func Decompose(d time.Duration) Components {
	total := int(d / time.Second)
	return Components{
		Days:    total / 86400,
		Hours:   total % 86400 / 3600,
		Minutes: total % 3600 / 60,
		Seconds: total % 60,
	}
}

// Renderer substitutes time components into templates. Digits converts an
// integer to its display form (e.g. Persian digits) and Expired is the
// text shown once the countdown has ended.
type Renderer struct {
	Digits  func(int) string
	Expired string
}

// Render produces the message text for a countdown. When ok is false the
// fixed Expired text is returned regardless of the template. Otherwise
// the four placeholder tokens are replaced literally; any other text in
// the template, including unrecognized tokens, passes through unchanged.
func (r Renderer) Render(d time.Duration, ok bool, template string) string {
	if !ok {
		return r.Expired
	}
	c := Decompose(d)
	return strings.NewReplacer(
		TokenDays, r.digits(c.Days),
		TokenHours, r.digits(c.Hours),
		TokenMinutes, r.digits(c.Minutes),
		TokenSeconds, r.digits(c.Seconds),
	).Replace(template)
}

func (r Renderer) digits(n int) string {
	if r.Digits == nil {
		return strconv.Itoa(n)
	}
	return r.Digits(n)
}
