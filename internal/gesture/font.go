package gesture

import (
	"math"

	"github.com/jmylchreest/notepin/internal/model"
)

// Font scaling bounds. The base size applies at the default note
// geometry; scaling is sub-linear in area so text stays legible
// without overwhelming small notes or under-filling large ones.
const (
	BaseFontSize = 16
	MinFontSize  = 10
	MaxFontSize  = 32

	fontScaleExponent = 0.3
)

// FontSize returns the font point size for a note of the given
// dimensions: clamp(16 * (area/initialArea)^0.3, 10, 32) with the
// default note geometry as the initial area.
func FontSize(width, height int) int {
	area := float64(width) * float64(height)
	initial := float64(model.DefaultWidth) * float64(model.DefaultHeight)

	size := int(BaseFontSize * math.Pow(area/initial, fontScaleExponent))
	if size < MinFontSize {
		return MinFontSize
	}
	if size > MaxFontSize {
		return MaxFontSize
	}
	return size
}
