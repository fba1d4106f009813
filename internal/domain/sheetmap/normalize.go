package sheetmap

import (
	"regexp"
	"strings"
	"time"

	"github.com/thaiba/mediatasks/internal/domain/entities"
)

// Status alias sets, matched after lowercasing and trimming. These are the
// spellings end users actually type into the sheet.
var statusAliases = map[string]string{
	"working on":  entities.StatusInProgress,
	"working":     entities.StatusInProgress,
	"in progress": entities.StatusInProgress,
	"in-progress": entities.StatusInProgress,
	"workingon":   entities.StatusInProgress,

	"cancelled": entities.StatusOnHold,
	"canceled":  entities.StatusOnHold,
	"cancel":    entities.StatusOnHold,
	"on hold":   entities.StatusOnHold,
	"hold":      entities.StatusOnHold,
	"paused":    entities.StatusOnHold,
	"archive":   entities.StatusOnHold,

	"completed": entities.StatusCompleted,
	"done":      entities.StatusCompleted,
	"finished":  entities.StatusCompleted,
	"closed":    entities.StatusCompleted,

	"pending": entities.StatusPending,
	"open":    entities.StatusPending,
	"todo":    entities.StatusPending,
	"new":     entities.StatusPending,
}

// NormalizeStatus folds a free-text status into a canonical value. Unknown
// statuses are title-cased and passed through rather than rejected so they
// stay visible on the dashboard. Empty input means the task was never moved
// off the default, so it reads as Pending. Never errors; idempotent.
func NormalizeStatus(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return entities.StatusPending
	}
	lower := strings.ToLower(trimmed)
	if canonical, ok := statusAliases[lower]; ok {
		return canonical
	}
	return titleCase(lower)
}

// NormalizePriority trims only. Priorities carry no alias table; whatever the
// sheet says is what the dashboard shows.
func NormalizePriority(raw string) string {
	return strings.TrimSpace(raw)
}

var dmyDate = regexp.MustCompile(`^(\d{2})[/-](\d{2})[/-](\d{4})$`)

// Layouts tried in order for the ISO/RFC pass.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

const isoMillis = "2006-01-02T15:04:05.000Z"

// ParseDate best-effort normalizes a deadline cell to an ISO-8601 UTC
// timestamp. ISO and RFC forms parse first; dd/mm/yyyy and dd-mm-yyyy are
// read as UTC midnight. Anything else comes back unchanged — dates are never
// dropped. Empty input yields the empty string.
func ParseDate(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.UTC().Format(isoMillis)
		}
	}

	if m := dmyDate.FindStringSubmatch(trimmed); m != nil {
		day := atoi2(m[1])
		month := atoi2(m[2])
		year := atoi4(m[3])
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
			// time.Date silently rolls invalid days into the next month.
			if t.Day() == day && int(t.Month()) == month {
				return t.Format(isoMillis)
			}
		}
	}

	return raw
}

// titleCase uppercases the first letter of every whitespace-delimited token.
// Input is already lowercased by the caller.
func titleCase(lower string) string {
	tokens := strings.Fields(lower)
	for i, tok := range tokens {
		r := []rune(tok)
		if r[0] >= 'a' && r[0] <= 'z' {
			r[0] = r[0] - 'a' + 'A'
		}
		tokens[i] = string(r)
	}
	return strings.Join(tokens, " ")
}

func atoi2(s string) int {
	return int(s[0]-'0')*10 + int(s[1]-'0')
}

func atoi4(s string) int {
	n := 0
	for i := 0; i < 4; i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}
