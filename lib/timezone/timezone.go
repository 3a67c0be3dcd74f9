package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Europe/Berlin")
	if err != nil {
		panic(err)
	}
}

// the leaderboard page publishes its date in German local time and the
// daily post time is configured as a local time-of-day, so date
// arithmetic is forced into Europe/Berlin regardless of where the host
// happens to run
func Now() time.Time {
	return time.Now().In(Location)
}

// NextOccurrence returns the first instant strictly after now at which
// the local clock reads hour:minute:second.
func NextOccurrence(now time.Time, hour, minute, second int) time.Time {
	now = now.In(Location)
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, second, 0, Location)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
