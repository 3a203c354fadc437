package schedule

import (
	"math"
	"time"

	"github.com/redpandashots/plant-watering-reminder/internal/garden"
)

const (
	// minInterval keeps every projection step moving forward.
	minInterval = 1
	// maxInterval caps pathological multipliers at roughly a century.
	maxInterval = 36500
)

// AdjustedInterval returns the number of days between waterings for plant
// when the gap starts on date. The product of the base interval and the
// season's multiplier is rounded half away from zero and never drops below
// one day. Missing, NaN or infinite multipliers count as 1.0.
func AdjustedInterval(plant garden.Plant, date time.Time) int {
	base := plant.BaseDays
	if base < minInterval {
		base = minInterval
	}
	m := plant.Multiplier(SeasonOf(date))
	if math.IsNaN(m) || math.IsInf(m, 0) {
		m = 1.0
	}
	days := math.Round(float64(base) * m)
	switch {
	case days < minInterval:
		return minInterval
	case days > maxInterval:
		return maxInterval
	}
	return int(days)
}
