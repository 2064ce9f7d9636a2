// Package render projects search outcomes onto a view.Sink.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Date/time layouts mirroring the platform locale formats for the locales
// we know about. Index order matches supportedLocales.
var (
	supportedLocales = []language.Tag{
		language.AmericanEnglish,
		language.BritishEnglish,
		language.German,
		language.French,
		language.Japanese,
	}
	localeLayouts = []string{
		"1/2/2006, 3:04:05 PM",
		"02/01/2006, 15:04:05",
		"2.1.2006, 15:04:05",
		"02/01/2006 15:04:05",
		"2006/1/2 15:04:05",
	}
	localeMatcher = language.NewMatcher(supportedLocales)
)

// Formatter turns collaborator values into locale-aware display strings.
type Formatter struct {
	tag     language.Tag
	printer *message.Printer
	loc     *time.Location
	layout  string
}

// NewFormatter builds a formatter for a BCP 47 locale and an IANA time zone
// ("Local" and "UTC" are accepted). A non-empty layout overrides the locale's
// default date/time layout.
func NewFormatter(locale, timezone, layout string) (*Formatter, error) {
	tag := language.AmericanEnglish
	if strings.TrimSpace(locale) != "" {
		parsed, err := language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("parsing locale %q: %w", locale, err)
		}
		tag = parsed
	}

	loc := time.Local
	if tz := strings.TrimSpace(timezone); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("loading timezone %q: %w", timezone, err)
		}
		loc = l
	}

	if layout == "" {
		_, idx, _ := localeMatcher.Match(tag)
		layout = localeLayouts[idx]
	}

	return &Formatter{
		tag:     tag,
		printer: message.NewPrinter(tag),
		loc:     loc,
		layout:  layout,
	}, nil
}

// DefaultFormatter formats for en-US in the local time zone.
func DefaultFormatter() *Formatter {
	f, _ := NewFormatter("en-US", "Local", "")
	return f
}

// Locale returns the locale the formatter was built for.
func (f *Formatter) Locale() language.Tag { return f.tag }

// Count groups digits the way the locale does, e.g. 12,000 for en-US.
func (f *Formatter) Count(n int64) string {
	return f.printer.Sprintf("%d", n)
}

// Timestamp converts an ISO-8601 instant into the locale layout. Values that
// do not parse are shown as received.
func (f *Formatter) Timestamp(iso string) string {
	t, err := parseTimestamp(iso)
	if err != nil {
		return Sanitize(iso)
	}
	return t.In(f.loc).Format(f.layout)
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05", s)
}

// Sanitize makes collaborator text safe to place in a terminal cell: escape
// sequences are stripped and control characters become spaces.
func Sanitize(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n', r == '\r', r == '\t':
			return ' '
		case r < 0x20, r == 0x7f:
			return -1
		case r >= 0x80 && r < 0xa0:
			return -1
		default:
			return r
		}
	}, s)
}
