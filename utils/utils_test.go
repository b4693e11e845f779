package utils

import (
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUtils_MathHelpers(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(2, Min(2, 5))
	assert.Equal(2, Min(5, 2))
	assert.Equal(5, Max(2, 5))
	assert.Equal(8.0, Clamp(1.0, 8, 160))
	assert.Equal(160.0, Clamp(400.0, 8, 160))
	assert.Equal(42.0, Clamp(42.0, 8, 160))
}

func TestUtils_ParseHexColor(t *testing.T) {
	assert := assert.New(t)

	c, err := ParseHexColor("#000000bf")
	assert.NoError(err)
	assert.Equal(color.NRGBA{A: 0xbf}, c)

	c, err = ParseHexColor("fff")
	assert.NoError(err)
	assert.Equal(color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, c)

	_, err = ParseHexColor("#12345")
	assert.Error(err)
	_, err = ParseHexColor("#zzzzzz")
	assert.Error(err)
}

func TestUtils_Contains(t *testing.T) {
	assert.True(t, Contains([]string{"a", "b"}, "b"))
	assert.False(t, Contains([]string{"a", "b"}, "c"))
}

func TestUtils_FormatTime(t *testing.T) {
	assert.Equal(t, "1.50s", FormatTime(1500*time.Millisecond))
	assert.Equal(t, "2m 5.00s", FormatTime(125*time.Second))
}
