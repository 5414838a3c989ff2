// Package timezone pins the application to a single IANA timezone and models hotel calendar dates.
//
// The timezone comes from APP_TIMEZONE and is loaded when the package is imported. Unknown or empty
// names fall back to UTC.
//
// Calendar dates (check-in, check-out, availability windows) are plain time.Time values at midnight UTC,
// produced by DateOf and ParseDate. "Today" is always the date as seen in the application timezone:
//
//	clock := timezone.NewClock()
//	today := timezone.Today(clock)
//	checkOut := timezone.AddDays(today, 3)
//	timezone.FormatDate(checkOut) // "2024-05-23"
//
// Services take a Clock so tests can fix the current time with ClockFunc.
package timezone
