package conditions

import (
	"fmt"
	"math"

	"github.com/i474232898/astro-conditions/internal/common"
)

// Rating bounds.
const (
	MinRating = -100.0
	MaxRating = 100.0
)

// Dial geometry of the circular gauge: a circle of this radius drawn in a
// 36x36 view box.
const (
	DialRadius        = 15.9155
	DialCircumference = 2 * math.Pi * DialRadius
)

// Class is the categorical bucket of a rating.
type Class string

const (
	ClassPoor     Class = "poor"
	ClassModerate Class = "moderate"
	ClassGood     Class = "good"
	ClassGreat    Class = "great"
)

// Descriptor returns the label shown under a gauge. The vocabulary differs
// from the class names: moderate reads as "Marginal".
func (c Class) Descriptor() string {
	switch c {
	case ClassGreat:
		return "Great"
	case ClassGood:
		return "Good"
	case ClassModerate:
		return "Marginal"
	default:
		return "Poor"
	}
}

// Classify buckets a rating: >=80 great, >=50 good, >=0 moderate, else poor.
func Classify(rating float64) Class {
	switch {
	case rating >= 80:
		return ClassGreat
	case rating >= 50:
		return ClassGood
	case rating >= 0:
		return ClassModerate
	default:
		return ClassPoor
	}
}

// Rating is a signed score in [-100, 100]; positive is favourable.
type Rating struct {
	Value float64 `json:"rating"`
	Class Class   `json:"class"`
}

// Rate maps a raw value in native units (%, km/h) to a Rating. Passing a
// Metric outside the defined set is a programming error and panics.
func Rate(value float64, m Metric) Rating {
	var r float64
	switch m {
	case Clouds:
		r = 100 - value*2
	case Seeing:
		// Values from 50 up are used as-is, not rescaled.
		if value < 50 {
			r = value*2 - 100
		} else {
			r = value
		}
	case Wind:
		switch {
		case value <= 5:
			r = 100
		case value > 20:
			r = -100
		default:
			// 5 km/h -> 100, 20 km/h -> -100; divide last so the anchors stay exact.
			r = 100 - (value-5)*200/15
		}
	case Humidity:
		switch {
		case value <= 40:
			r = 100
		case value > 80:
			r = -100
		default:
			r = 100 - (value-40)*5
		}
	default:
		panic(fmt.Sprintf("conditions: rate unknown metric %d", int(m)))
	}

	r = common.Clamp(r, MinRating, MaxRating)
	return Rating{Value: r, Class: Classify(r)}
}

// Descriptor is the label for the rating's class.
func (r Rating) Descriptor() string {
	return r.Class.Descriptor()
}

// FillFraction is how much of the dial is filled: the distance from neutral,
// regardless of sign.
func (r Rating) FillFraction() float64 {
	return math.Abs(r.Value) / 100
}

// DashOffset is the stroke-dashoffset that leaves FillFraction of the dial
// circumference drawn.
func (r Rating) DashOffset() float64 {
	return DialCircumference - r.FillFraction()*DialCircumference
}

// Display is the whole number printed inside the dial.
func (r Rating) Display() int {
	return int(math.Round(math.Abs(r.Value)))
}
