// Package sky reports sun and moon context for an observing hour.
package sky

import (
	"math"
	"time"

	"github.com/sixdouglas/suncalc"
)

// AstronomicalNight is the solar altitude, in degrees, below which the sky is
// fully dark.
const AstronomicalNight = -18.0

// Conditions describes the sky at one place and time.
type Conditions struct {
	SunAltitude      float64 `json:"sunAltitude"`      // degrees
	MoonAltitude     float64 `json:"moonAltitude"`     // degrees
	MoonIllumination float64 `json:"moonIllumination"` // 0..1
	MoonUp           bool    `json:"moonUp"`
	Dark             bool    `json:"dark"`
}

// At computes sky conditions at t for the given coordinates.
func At(t time.Time, lat, lon float64) Conditions {
	sun := suncalc.GetPosition(t, lat, lon)
	moon := suncalc.GetMoonPosition(t, lat, lon)
	illum := suncalc.GetMoonIllumination(t)

	sunAlt := degrees(sun.Altitude)
	moonAlt := round2(degrees(moon.Altitude))

	return Conditions{
		SunAltitude:      round2(sunAlt),
		MoonAltitude:     moonAlt,
		MoonIllumination: round2(illum.Fraction),
		MoonUp:           moonAlt > 0,
		Dark:             sunAlt < AstronomicalNight,
	}
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
