package tray

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log/slog"
	"os"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	iconSize   = 64
	glyphScale = 3
	glyph      = "T"
)

// iconColor is the fallback icon background (#4A90E2).
var iconColor = color.RGBA{R: 0x4A, G: 0x90, B: 0xE2, A: 0xFF}

// LoadIcon returns the PNG bytes for the tray icon: the user-provided
// file when present, otherwise the generated fallback glyph.
func LoadIcon(path string, logger *slog.Logger) []byte {
	if logger == nil {
		logger = slog.Default()
	}

	data, err := os.ReadFile(path)
	if err == nil {
		logger.Debug("loaded tray icon", "path", path)
		return data
	}
	if !os.IsNotExist(err) {
		logger.Warn("failed to read tray icon, using fallback", "path", path, "error", err)
	}

	return FallbackIcon()
}

// FallbackIcon generates the built-in tray icon: a 64x64 blue square
// with a white "T", PNG-encoded.
func FallbackIcon() []byte {
	img := image.NewRGBA(image.Rect(0, 0, iconSize, iconSize))
	draw.Draw(img, img.Bounds(), &image.Uniform{iconColor}, image.Point{}, draw.Src)

	// Render the glyph at face size, then scale it up onto the icon.
	face := basicfont.Face7x13
	small := image.NewRGBA(image.Rect(0, 0, face.Advance, face.Height))
	d := &font.Drawer{
		Dst:  small,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(glyph)

	gw := face.Advance * glyphScale
	gh := face.Height * glyphScale
	target := image.Rect((iconSize-gw)/2, (iconSize-gh)/2, (iconSize+gw)/2, (iconSize+gh)/2)
	xdraw.NearestNeighbor.Scale(img, target, small, small.Bounds(), xdraw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}
