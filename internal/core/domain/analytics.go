package domain

import (
	"sort"
	"time"
)

// Period selects the time granularity of the revenue rollup.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

// ParsePeriod maps a request value to a Period. Unknown values fall back to
// PeriodMonthly.
func ParsePeriod(s string) Period {
	switch Period(s) {
	case PeriodDaily:
		return PeriodDaily
	case PeriodYearly:
		return PeriodYearly
	default:
		return PeriodMonthly
	}
}

// BucketKey identifies a revenue bucket. Month and Day are zero when the
// period does not group by them.
type BucketKey struct {
	Year  int `json:"year"`
	Month int `json:"month,omitempty"`
	Day   int `json:"day,omitempty"`
}

// Less orders keys chronologically.
func (k BucketKey) Less(o BucketKey) bool {
	if k.Year != o.Year {
		return k.Year < o.Year
	}
	if k.Month != o.Month {
		return k.Month < o.Month
	}
	return k.Day < o.Day
}

// Grain is the calendar resolution of a revenue bucket.
type Grain int

const (
	GrainYear Grain = iota + 1
	GrainMonth
	GrainDay
)

// Key truncates t, in UTC, to g.
func (g Grain) Key(t time.Time) BucketKey {
	t = t.UTC()
	k := BucketKey{Year: t.Year()}
	if g >= GrainMonth {
		k.Month = int(t.Month())
	}
	if g >= GrainDay {
		k.Day = t.Day()
	}
	return k
}

// PeriodSpec is the filter, grouping and ordering used for one Period.
type PeriodSpec struct {
	// Lookback bounds the window to [now-Lookback, now]. Zero means unbounded.
	Lookback time.Duration
	Grain    Grain
	Key      func(t time.Time) BucketKey
	Less     func(a, b BucketKey) bool
}

const day = 24 * time.Hour

// Spec returns the rollup definition for p.
func (p Period) Spec() PeriodSpec {
	switch p {
	case PeriodDaily:
		return PeriodSpec{Lookback: 30 * day, Grain: GrainDay, Key: GrainDay.Key, Less: BucketKey.Less}
	case PeriodYearly:
		return PeriodSpec{Grain: GrainYear, Key: GrainYear.Key, Less: BucketKey.Less}
	case PeriodMonthly:
		fallthrough
	default:
		return PeriodSpec{Lookback: 365 * day, Grain: GrainMonth, Key: GrainMonth.Key, Less: BucketKey.Less}
	}
}

// Since returns the lower bound of the window ending at now. ok is false for
// an unbounded window.
func (s PeriodSpec) Since(now time.Time) (since time.Time, ok bool) {
	if s.Lookback <= 0 {
		return time.Time{}, false
	}
	return now.Add(-s.Lookback), true
}

// Includes reports whether inv counts towards revenue in the window ending at now.
func (s PeriodSpec) Includes(inv Invoice, now time.Time) bool {
	if inv.Status != InvoicePaid {
		return false
	}
	since, bounded := s.Since(now)
	return !bounded || !inv.CreatedAt.Before(since)
}

// RevenueBucket is the paid total of one bucket.
type RevenueBucket struct {
	Key   BucketKey `json:"bucketKey"`
	Total float64   `json:"total"`
}

// ProjectStatusCount is the number of projects in one status.
type ProjectStatusCount struct {
	Status ProjectStatus `json:"status"`
	Count  int64         `json:"count"`
}

// InvoiceStatusTotal is the amount invoiced in one status.
type InvoiceStatusTotal struct {
	Status InvoiceStatus `json:"status"`
	Total  float64       `json:"total"`
}

// Analytics is the dashboard payload.
type Analytics struct {
	Period        Period               `json:"-"`
	Revenue       []RevenueBucket      `json:"revenue"`
	ProjectStatus []ProjectStatusCount `json:"projectStatus"`
	InvoiceTotals []InvoiceStatusTotal `json:"invoiceTotals"`
}

// GroupRevenue sums the invoices that s includes at now into ordered buckets.
func (s PeriodSpec) GroupRevenue(invoices []Invoice, now time.Time) []RevenueBucket {
	totals := make(map[BucketKey]float64)
	for _, inv := range invoices {
		if !s.Includes(inv, now) {
			continue
		}
		totals[s.Key(inv.CreatedAt)] += inv.Amount
	}

	out := make([]RevenueBucket, 0, len(totals))
	for k, total := range totals {
		out = append(out, RevenueBucket{Key: k, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return s.Less(out[i].Key, out[j].Key) })
	return out
}
