package registration

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

var ErrUnparseableDate = errors.New("unparseable creation date")

var layouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05 MST",
	"2006-01-02",
	"02-Jan-2006",
	"02-Jan-2006 15:04:05 MST",
	"2006.01.02",
	"2006.01.02 15:04:05",
	"2006/01/02",
	"02.01.2006",
	"20060102",
	time.UnixDate,
}

// ParseDate accepts the date formats registries commonly answer with.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, l := range layouts {
		t, err := time.Parse(l, s)
		if err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.Wrapf(ErrUnparseableDate, "%q", s)
}

// FirstCandidate picks the first date when a registry answers with several of them.
func FirstCandidate(s string) string {
	for _, c := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '\n' || r == ';'
	}) {
		if c = strings.TrimSpace(c); c != "" {
			return c
		}
	}
	return ""
}
