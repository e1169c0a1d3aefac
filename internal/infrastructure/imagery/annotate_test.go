package imagery

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ImaGaf/ArucoReader/internal/domain/entity"
)

func whiteCanvas(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	return img
}

func TestAnnotator_DrawObjectBox(t *testing.T) {
	a, err := NewAnnotator()
	require.NoError(t, err)

	img := whiteCanvas(100, 100)
	a.DrawObject(img, entity.ObjectMeasurement{
		Rect:       entity.RotatedRect{Center: entity.Point2f{X: 50, Y: 50}, Width: 80, Height: 80},
		Dimensions: entity.Dimensions{Width: 4, Height: 4},
	})

	edge := img.RGBAAt(10, 80)
	require.Greater(t, edge.B, uint8(200))
	require.Less(t, edge.R, uint8(100))

	require.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, img.RGBAAt(30, 30))
}

func TestAnnotator_DrawMarkers(t *testing.T) {
	a, err := NewAnnotator()
	require.NoError(t, err)

	img := whiteCanvas(100, 100)
	a.DrawMarkers(img, []entity.Marker{{
		ID:      3,
		Corners: [4]entity.Point2f{{X: 20, Y: 20}, {X: 60, Y: 20}, {X: 60, Y: 60}, {X: 20, Y: 60}},
	}})

	edge := img.RGBAAt(20, 40)
	require.Greater(t, edge.G, uint8(200))
	require.Less(t, edge.R, uint8(100))

	corner := img.RGBAAt(20, 20)
	require.Greater(t, corner.R, uint8(200))
	require.Less(t, corner.G, uint8(100))
}

func TestLabels(t *testing.T) {
	d := entity.Dimensions{Width: 12.34, Height: 5.06}
	require.Equal(t, "Ancho: 12.3 cm", WidthLabel(d))
	require.Equal(t, "Alto: 5.1 cm", HeightLabel(d))
}
