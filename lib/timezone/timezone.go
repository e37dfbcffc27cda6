package timezone

import "time"

var Location = time.UTC

// the dashboard's own date semantics are undocumented, so the location
// used for day arithmetic is configurable instead of guessing at the
// vendor's server timezone
func SetLocation(name string) error {
	if name == "" {
		return nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return err
	}
	Location = loc
	return nil
}

// force a fixed location because the job may run on hosts in any
// timezone, which will cause disturbances when manipulating dates
// based on <time.Time>.Year()/Month()/Day()
func Now() time.Time {
	return time.Now().In(Location)
}
