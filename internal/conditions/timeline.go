package conditions

import (
	"math"

	"github.com/i474232898/astro-conditions/internal/common"
)

// Bucket is the coarse three-level grade used by the timeline strip. It is a
// separate, simpler scale than Rate and is intentionally not reconciled with it.
type Bucket string

const (
	BucketGood        Bucket = "good"
	BucketModerate    Bucket = "moderate"
	BucketPoor        Bucket = "poor"
	BucketPlaceholder Bucket = "placeholder"
)

// Color is the fill used for a timeline cell.
func (b Bucket) Color() string {
	switch b {
	case BucketGood:
		return "rgba(0, 255, 0, 0.7)"
	case BucketModerate:
		return "rgba(255, 255, 0, 0.7)"
	case BucketPoor:
		return "rgba(255, 0, 0, 0.7)"
	default:
		return "rgba(128, 128, 128, 0.7)"
	}
}

// TimelineBucket grades one timeline cell.
func TimelineBucket(v *float64, m Metric) Bucket {
	if !common.Finite(v) {
		return BucketPlaceholder
	}

	var rating float64
	switch m {
	case Clouds:
		rating = math.Max(0, 100-*v)
	case Seeing:
		rating = *v
	case Wind:
		rating = math.Max(0, 100-*v*3)
	default:
		rating = math.Max(0, 100-*v)
	}

	switch {
	case rating >= 75:
		return BucketGood
	case rating >= 50:
		return BucketModerate
	default:
		return BucketPoor
	}
}
