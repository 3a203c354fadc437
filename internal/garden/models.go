package garden

import "time"

// Season is one of the four fixed seasons.
type Season string

const (
	Winter Season = "winter"
	Spring Season = "spring"
	Summer Season = "summer"
	Fall   Season = "fall"
)

// Seasons lists every season in calendar order starting from winter.
var Seasons = []Season{Winter, Spring, Summer, Fall}

// Valid reports whether s is one of the four known seasons.
func (s Season) Valid() bool {
	switch s {
	case Winter, Spring, Summer, Fall:
		return true
	}
	return false
}

// Origin distinguishes plants shipped with the app from plants the user added.
type Origin string

const (
	OriginBuiltin Origin = "builtin"
	OriginCustom  Origin = "custom"
)

type Plant struct {
	ID        string
	Name      string
	Emoji     string
	BaseDays  int
	Seasonal  map[Season]float64 // missing season means 1.0
	CareTips  []string
	Color     string
	ImageRef  string
	Origin    Origin
	CreatedAt time.Time
}

// Multiplier returns the seasonal multiplier for s, or 1.0 when the table omits it.
func (p Plant) Multiplier(s Season) float64 {
	if m, ok := p.Seasonal[s]; ok {
		return m
	}
	return 1.0
}

func (p Plant) IsBuiltin() bool { return p.Origin == OriginBuiltin }

// WateringEvent records that a plant was watered on a calendar day.
// Date carries no time-of-day; CreatedAt only orders events.
type WateringEvent struct {
	ID        string
	PlantID   string
	Date      time.Time
	CreatedAt time.Time
}
