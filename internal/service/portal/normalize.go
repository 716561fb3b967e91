package portal

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/ayame/salon-sync-go/internal/constants"
)

// Pure string-to-typed conversions shared by both parsers. None of these
// touch I/O, and none of them invent values for absent optional fields:
// only the structural time-window defaults below are ever synthesized.

var (
	timePattern      = regexp.MustCompile(`\d{1,2}:\d{2}`)
	nameAgePattern   = regexp.MustCompile(`^(.+?)[（(](\d{1,3})[）)]\s*$`)
	ageSuffixPattern = regexp.MustCompile(`[（(]\d{1,3}[）)]\s*$`)
	heightPattern    = regexp.MustCompile(`T\.?\s*(\d{2,3})`)
	bustPattern      = regexp.MustCompile(`B\.?\s*(\d{2,3})(?:[（(]([A-Z])[）)])?`)
	waistPattern     = regexp.MustCompile(`W\.?\s*(\d{2,3})`)
	hipPattern       = regexp.MustCompile(`H\.?\s*(\d{2,3})`)
	digitsPattern    = regexp.MustCompile(`\d+`)
	externalIDExpr   = regexp.MustCompile(`(\d+)`)
)

// ExtractTimeWindow applies the tiered fallback over a schedule cell:
// two or more HH:MM matches give start/end; exactly one gives start with the
// end-of-business close; no match but a presence marker gives the full-day
// default window. ok is false when the cell carries no time signal at all.
func ExtractTimeWindow(text string) (start, end string, ok bool) {
	matches := timePattern.FindAllString(text, -1)

	switch {
	case len(matches) >= 2:
		return matches[0], matches[1], true
	case len(matches) == 1:
		return matches[0], constants.SyncConfig.EndOfDayTime, true
	case strings.Contains(text, constants.SyncConfig.PresenceMarker):
		return constants.SyncConfig.FullDayStart, constants.SyncConfig.EndOfDayTime, true
	default:
		return "", "", false
	}
}

// SplitNameAge splits a heading of the form "花子(25)". Headings without the
// parenthesized age are rejected, not defaulted.
func SplitNameAge(heading string) (name string, age int, ok bool) {
	m := nameAgePattern.FindStringSubmatch(strings.TrimSpace(heading))
	if m == nil {
		return "", 0, false
	}

	age, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, false
	}

	return strings.TrimSpace(m[1]), age, true
}

// StripAgeSuffix removes a trailing parenthesized numeric annotation from a
// schedule-row name.
func StripAgeSuffix(name string) string {
	return strings.TrimSpace(ageSuffixPattern.ReplaceAllString(strings.TrimSpace(name), ""))
}

// BodyMetrics holds whatever the size line actually carried. Absent parts
// stay nil.
type BodyMetrics struct {
	Height  *int
	Bust    *int
	CupSize *string
	Waist   *int
	Hip     *int
}

// ParseBodyMetrics parses a line like "T.160 B.88(D) W.58 H.86". Every field
// is individually optional.
func ParseBodyMetrics(line string) BodyMetrics {
	var m BodyMetrics

	if sub := heightPattern.FindStringSubmatch(line); sub != nil {
		m.Height = atoiPtr(sub[1])
	}
	if sub := bustPattern.FindStringSubmatch(line); sub != nil {
		m.Bust = atoiPtr(sub[1])
		if sub[2] != "" {
			cup := sub[2]
			m.CupSize = &cup
		}
	}
	if sub := waistPattern.FindStringSubmatch(line); sub != nil {
		m.Waist = atoiPtr(sub[1])
	}
	if sub := hipPattern.FindStringSubmatch(line); sub != nil {
		m.Hip = atoiPtr(sub[1])
	}

	return m
}

// ExtractDigits pulls the first embedded number out of free text, e.g.
// "エステ歴3年" -> 3.
func ExtractDigits(s string) (int, bool) {
	m := digitsPattern.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ExtractExternalID pulls the numeric id embedded in a detail-page link.
// The last numeric path segment wins, so query strings and host ports do
// not confuse it.
func ExtractExternalID(href string) (string, bool) {
	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}

	matches := externalIDExpr.FindAllString(u.Path, -1)
	if len(matches) == 0 {
		return "", false
	}
	return matches[len(matches)-1], true
}

// ExtractXHandle recovers an X/Twitter handle from a profile SNS link.
func ExtractXHandle(href string) (string, bool) {
	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}

	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	if host != "twitter.com" && host != "x.com" {
		return "", false
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		return "", false
	}

	return strings.TrimPrefix(segments[0], "@"), true
}

// ResolveURL resolves a possibly-relative href against the portal base URL.
func ResolveURL(base, href string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}

func atoiPtr(s string) *int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}
