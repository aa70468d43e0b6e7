package billing

import "time"

// EndDate returns start plus one billing cycle. When the anchor day does
// not exist in the target month (Jan 31 -> Feb), the date is clamped to
// the last day of that month instead of rolling over.
func EndDate(start time.Time, billingCycle string) time.Time {
	years, months := 0, 1
	if billingCycle == "yearly" {
		years, months = 1, 0
	}

	end := start.AddDate(years, months, 0)
	if end.Day() != start.Day() {
		// AddDate rolled into the next month; back up to its last day.
		end = time.Date(end.Year(), end.Month(), 1, end.Hour(), end.Minute(), end.Second(), end.Nanosecond(), end.Location()).AddDate(0, 0, -1)
	}
	return end
}

// NextBillingDate rolls the current period end forward one cycle.
func NextBillingDate(currentEnd time.Time, billingCycle string) time.Time {
	return EndDate(currentEnd, billingCycle)
}
