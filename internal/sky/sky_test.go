package sky

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAtNoonIsNotDark(t *testing.T) {
	// Local solar noon in Greenwich around the June solstice.
	c := At(time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC), 51.48, 0)

	assert.False(t, c.Dark)
	assert.Greater(t, c.SunAltitude, 50.0)
}

func TestAtMidnightInWinterIsDark(t *testing.T) {
	c := At(time.Date(2024, 12, 21, 0, 0, 0, 0, time.UTC), 51.48, 0)

	assert.True(t, c.Dark)
	assert.Less(t, c.SunAltitude, AstronomicalNight)
}

func TestMoonIlluminationBounded(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for d := 0; d < 30; d++ {
		c := At(start.AddDate(0, 0, d), 40, -105)
		assert.GreaterOrEqual(t, c.MoonIllumination, 0.0)
		assert.LessOrEqual(t, c.MoonIllumination, 1.0)
		assert.Equal(t, c.MoonAltitude > 0, c.MoonUp)
	}
}
