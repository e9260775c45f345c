package fetch

import "time"

// SetClock replaces the time source used for freshness checks.
func (f *Fetcher) SetClock(now func() time.Time) { f.now = now }
