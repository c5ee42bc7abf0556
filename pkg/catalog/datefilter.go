package catalog

import (
	"regexp"
	"time"

	"github.com/histbin/bvget/pkg/errors"
)

// Archive filenames embed their coverage period: daily files carry a
// YYYY-MM-DD token, monthly files a YYYY-MM token. The daily pattern is tried
// first so a monthly match never truncates a full date.
var (
	dailyTokenRe   = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	monthlyTokenRe = regexp.MustCompile(`\d{4}-\d{2}`)
)

// DateRange is an inclusive filename-date filter. A zero Start or End leaves
// that bound open.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// IsZero reports whether no bound is set.
func (r DateRange) IsZero() bool { return r.Start.IsZero() && r.End.IsZero() }

// Validate rejects ranges with Start after End.
func (r DateRange) Validate() error {
	if !r.Start.IsZero() && !r.End.IsZero() && r.Start.After(r.End) {
		return errors.Wrapf(errors.ErrDateRange, "start %s after end %s",
			r.Start.Format(time.DateOnly), r.End.Format(time.DateOnly))
	}
	return nil
}

// Contains reports whether date falls within the inclusive range.
func (r DateRange) Contains(date time.Time) bool {
	if !r.Start.IsZero() && date.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && date.After(r.End) {
		return false
	}
	return true
}

// FilterByDate keeps the FILE nodes whose filename date falls inside the
// range. Files without a recognizable date token are kept too, and their
// names are returned separately so the caller can surface that the filter
// did not apply to them. A zero range keeps everything.
func FilterByDate(nodes []Node, r DateRange) (kept []Node, unfiltered []string) {
	if r.IsZero() {
		return nodes, nil
	}

	for _, node := range nodes {
		if node.Kind != KindFile {
			kept = append(kept, node)
			continue
		}
		date, ok := dateToken(node.Name())
		if !ok {
			kept = append(kept, node)
			unfiltered = append(unfiltered, node.Name())
			continue
		}
		if r.Contains(date) {
			kept = append(kept, node)
		}
	}
	return kept, unfiltered
}

// dateToken extracts the embedded date from a filename. Monthly tokens map
// to the first day of the month, which keeps inclusive range comparison
// consistent with daily tokens.
func dateToken(filename string) (time.Time, bool) {
	if match := dailyTokenRe.FindString(filename); match != "" {
		if date, err := time.Parse(time.DateOnly, match); err == nil {
			return date, true
		}
	}
	if match := monthlyTokenRe.FindString(filename); match != "" {
		if date, err := time.Parse("2006-01", match); err == nil {
			return date, true
		}
	}
	return time.Time{}, false
}
