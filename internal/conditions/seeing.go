package conditions

import (
	"math"

	"github.com/i474232898/astro-conditions/internal/common"
)

// Seeing score weights.
const (
	weightTempDew   = 0.30
	weightWind      = 0.30
	weightHumidity  = 0.20
	weightStability = 0.20
)

// EstimateSeeing derives a 0-100 seeing score for every hour of s from the
// temperature/dew-point spread, wind, humidity and the change in temperature
// since the previous hour. Hours with an unknown or out-of-range input come
// back unknown, and only a scored hour serves as the previous hour.
func EstimateSeeing(s HourlySeries) []*float64 {
	out := make([]*float64, s.Len())

	var prevTemp *float64
	for i := range out {
		temp := at(s.Temperature, i)
		dew := at(s.DewPoint, i)
		wind := at(s.WindSpeed, i)
		humidity := at(s.Humidity, i)

		if !seeingInputs(temp, dew, wind, humidity) {
			prevTemp = nil
			continue
		}
		score := seeingScore(*temp, *dew, *wind, *humidity, prevTemp)
		out[i] = &score
		prevTemp = temp
	}
	return out
}

// seeingInputs reports whether one hour's samples are known and physically
// possible: wind speed non-negative, relative humidity within 0-100 %.
func seeingInputs(temp, dew, wind, humidity *float64) bool {
	if !common.Finite(temp) || !common.Finite(dew) || !common.Finite(wind) || !common.Finite(humidity) {
		return false
	}
	return *wind >= 0 && common.InRange(*humidity, 0, 100)
}

func seeingScore(temp, dew, wind, humidity float64, prevTemp *float64) float64 {
	tempScore := common.Clamp(60+math.Abs(temp-dew)*2, 0, 100)

	windScore := 100.0
	if wind < 5 {
		windScore = math.Max(60, wind*12)
	} else if wind > 10 {
		windScore = math.Max(0, 100-(wind-10)*5)
	}

	humidityScore := math.Max(0, 100-humidity*0.8)

	// No comparable prior hour scores as perfectly stable.
	stability := 100.0
	if prevTemp != nil {
		stability = math.Max(0, 100-math.Abs(temp-*prevTemp)*10)
	}

	score := tempScore*weightTempDew +
		windScore*weightWind +
		humidityScore*weightHumidity +
		stability*weightStability

	return math.Round(common.Clamp(score, 0, 100))
}
