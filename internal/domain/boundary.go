package domain

import "time"

// IsTierBoundary reports whether date lands on the calendar boundary
// that qualifies an artifact for promotion into the named tier.
//
// Saturday closes the backup week. The end of a month is computed from
// the first day of the following month minus one day, which rolls
// December into January of the next year without a month-length table.
// Daily is never a promotion target.
func IsTierBoundary(name TierName, date time.Time) bool {
	switch name {
	case TierWeekly:
		return date.Weekday() == time.Saturday
	case TierMonthly:
		firstOfNext := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location()).AddDate(0, 1, 0)
		endOfMonth := firstOfNext.AddDate(0, 0, -1)
		return date.Month() == endOfMonth.Month() && date.Day() == endOfMonth.Day()
	case TierYearly:
		return date.Month() == time.December && date.Day() == 31
	default:
		return false
	}
}
