// Package parser validates the three pieces of user input a countdown is
// built from: the t.me message link, the target date/time and the message
// template.
package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	ptime "github.com/yaa110/go-persian-calendar"

	"telecountdown/internal/render"
)

// Calendars accepted for target date input.
const (
	CalendarJalali    = "jalali"
	CalendarGregorian = "gregorian"
)

var ErrBadLink = errors.New("invalid message link")

// linkPattern matches https://t.me/c/<numeric>/<msg> (private channel) and
// https://t.me/<handle>/<msg> (public channel).
var linkPattern = regexp.MustCompile(`^https://t\.me/(?:c/(\d+)|([^/]+))/(\d+)$`)

// MessageRef identifies the channel message a countdown edits.
type MessageRef struct {
	ChatID    string // "-100<id>" for private channels, "@handle" for public ones
	MessageID int
	Link      string // the link as the user sent it, used as the countdown id
}

// ParseMessageLink extracts the chat and message reference from a t.me link.
// Numeric links denote private channels and get the -100 chat id prefix;
// handles are used verbatim with a leading @.
func ParseMessageLink(link string) (MessageRef, error) {
	link = strings.TrimSpace(link)
	m := linkPattern.FindStringSubmatch(link)
	if m == nil {
		return MessageRef{}, ErrBadLink
	}
	msgID, err := strconv.Atoi(m[3])
	if err != nil {
		return MessageRef{}, ErrBadLink
	}
	numeric := m[1]
	if numeric == "" {
		// usernames cannot be all digits; a numeric segment without the
		// /c/ prefix still denotes a private channel id
		if _, err := strconv.Atoi(m[2]); err == nil {
			numeric = m[2]
		}
	}
	var chatID string
	if numeric != "" {
		chatID = "-100" + numeric
		if _, err := strconv.ParseInt(chatID, 10, 64); err != nil {
			return MessageRef{}, ErrBadLink
		}
	} else {
		chatID = "@" + m[2]
	}
	return MessageRef{ChatID: chatID, MessageID: msgID, Link: link}, nil
}

// ParseTargetTime parses "YYYY-MM-DD HH:MM:SS" in the given calendar and
// returns the absolute target instant. The Jalali calendar is the
// reference behavior; Gregorian is available for deployments outside Iran.
func ParseTargetTime(s, calendar string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if calendar == CalendarGregorian {
		return time.ParseInLocation("2006-01-02 15:04:05", s, loc)
	}

	fields := strings.Fields(s)
	if len(fields) != 2 {
		return time.Time{}, fmt.Errorf("expected date and time, got %q", s)
	}
	dateParts := strings.Split(fields[0], "-")
	timeParts := strings.Split(fields[1], ":")
	if len(dateParts) != 3 || len(timeParts) != 3 {
		return time.Time{}, fmt.Errorf("invalid date/time %q", s)
	}
	nums := make([]int, 0, 6)
	for _, p := range append(dateParts, timeParts...) {
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date/time %q: %w", s, err)
		}
		nums = append(nums, n)
	}
	year, month, day := nums[0], nums[1], nums[2]
	hour, minute, sec := nums[3], nums[4], nums[5]
	if month < 1 || month > 12 || day < 1 || day > 31 ||
		hour > 23 || minute > 59 || sec > 59 {
		return time.Time{}, fmt.Errorf("date/time out of range %q", s)
	}
	pt := ptime.Date(year, ptime.Month(month), day, hour, minute, sec, 0, loc)
	// ptime.Date normalizes out-of-range components instead of failing;
	// a date that does not round-trip names a day the month does not have
	if pt.Year() != year || pt.Month() != ptime.Month(month) || pt.Day() != day {
		return time.Time{}, fmt.Errorf("date/time out of range %q", s)
	}
	return pt.Time(), nil
}

// MissingPlaceholders returns the template tokens absent from tpl, in
// declaration order. Empty result means the template is complete.
func MissingPlaceholders(tpl string) []string {
	var missing []string
	for _, tok := range render.Tokens {
		if !strings.Contains(tpl, tok) {
			missing = append(missing, tok)
		}
	}
	return missing
}

// allowedTags is the HTML tag set the Telegram Bot API accepts with
// parse_mode=HTML. Anything else makes the edit call fail, so templates
// are rejected up front.
var allowedTags = map[string]bool{
	"b": true, "strong": true,
	"i": true, "em": true,
	"u": true, "ins": true,
	"s": true, "strike": true, "del": true,
	"a": true, "code": true, "pre": true,
	"span": true, "tg-spoiler": true, "tg-emoji": true,
	"blockquote": true,
}

// ValidateTemplate checks that tpl contains all four placeholder tokens
// and uses only Telegram-supported HTML tags.
func ValidateTemplate(tpl string) error {
	if missing := MissingPlaceholders(tpl); len(missing) > 0 {
		return fmt.Errorf("template missing placeholders: %s", strings.Join(missing, ", "))
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(tpl))
	if err != nil {
		return fmt.Errorf("template is not parseable HTML: %w", err)
	}
	var bad string
	doc.Find("*").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		name := goquery.NodeName(s)
		// skeleton elements added by the HTML5 parser around the fragment
		if name == "html" || name == "head" || name == "body" {
			return true
		}
		if !allowedTags[name] {
			bad = name
			return false
		}
		return true
	})
	if bad != "" {
		return fmt.Errorf("template uses HTML tag <%s> not supported by Telegram", bad)
	}
	return nil
}
