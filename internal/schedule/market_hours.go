package schedule

import "time"

var newYork *time.Location

func init() {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		panic(err)
	}
	newYork = loc
}

// MarketOpen 美股常规交易时段: 工作日 09:30 ~ 16:00 (纽约时间)
func MarketOpen(now time.Time) bool {
	et := now.In(newYork)
	switch et.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	minutes := et.Hour()*60 + et.Minute()
	return minutes >= 9*60+30 && minutes < 16*60
}
