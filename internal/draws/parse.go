package draws

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// spreadsheetEpoch is day zero of spreadsheet date serials.
var spreadsheetEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// maxSerialDays bounds serials to roughly year 9999.
const maxSerialDays = 2958465

var dayMonthYear = regexp.MustCompile(`^\s*(\d{1,2})[./-](\d{1,2})[./-](\d{2,4})\s*$`)

// ParseDate interprets a cell as a calendar date. Native dates win, then
// numeric spreadsheet serials, then day-first text (D/M/YY, D-M-YYYY, D.M.YYYY),
// then a generic parser. All results are in UTC. Unparsable cells report false.
func ParseDate(c Cell) (time.Time, bool) {
	if !c.Time.IsZero() {
		return c.Time.UTC(), true
	}

	s := strings.TrimSpace(c.Raw)
	if s == "" {
		return time.Time{}, false
	}

	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return fromSerial(v)
	}

	if m := dayMonthYear.FindStringSubmatch(s); m != nil {
		dd, _ := strconv.Atoi(m[1])
		mm, _ := strconv.Atoi(m[2])
		yy, _ := strconv.Atoi(m[3])
		if yy < 100 {
			yy += 2000
		}
		// time.Date rolls out-of-range days and months over, e.g. 31/2 becomes 2/3 or 3/3.
		return time.Date(yy, time.Month(mm), dd, 0, 0, 0, 0, time.UTC), true
	}

	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

func fromSerial(v float64) (time.Time, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > maxSerialDays {
		return time.Time{}, false
	}
	days := math.Floor(v)
	frac := v - days
	t := spreadsheetEpoch.AddDate(0, 0, int(days)).Add(time.Duration(math.Round(frac * float64(24*time.Hour))))
	return t, true
}

// ParseDrawNumber trims and numerically coerces a draw-number cell. Fractional
// values are floored so they still count toward the maximum. Blank and
// non-numeric values report false.
func ParseDrawNumber(c Cell) (int64, bool) {
	s := strings.TrimSpace(c.Raw)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	f = math.Floor(f)
	if f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}
