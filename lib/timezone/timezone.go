package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("America/New_York")
	if err != nil {
		panic(err)
	}
}

// pin times to the east coast no matter where the process runs, the results
// board posts and displays dates in that zone
func Now() time.Time {
	return time.Now().In(Location)
}
