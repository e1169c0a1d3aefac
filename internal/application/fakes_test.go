package app

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ImaGaf/ArucoReader/internal/domain/entity"
)

type callLog []string

type fakeMarkers struct {
	log     *callLog
	markers []entity.Marker
	err     error
}

func (f *fakeMarkers) DetectMarkers(ctx context.Context, img image.Image) ([]entity.Marker, error) {
	if f.log != nil {
		*f.log = append(*f.log, "detect_markers")
	}
	return f.markers, f.err
}

type fakeContours struct {
	log      *callLog
	contours []entity.Contour
	err      error
	mask     *image.Gray
}

func (f *fakeContours) FindExternalContours(ctx context.Context, mask *image.Gray) ([]entity.Contour, error) {
	if f.log != nil {
		*f.log = append(*f.log, "find_contours")
	}
	f.mask = mask
	return f.contours, f.err
}

type recordingAnnotator struct {
	log     *callLog
	markers []entity.Marker
	objects []entity.ObjectMeasurement
}

func (a *recordingAnnotator) DrawMarkers(img *image.RGBA, markers []entity.Marker) {
	if a.log != nil {
		*a.log = append(*a.log, "draw_markers")
	}
	a.markers = append(a.markers, markers...)
}

func (a *recordingAnnotator) DrawObject(img *image.RGBA, obj entity.ObjectMeasurement) {
	if a.log != nil {
		*a.log = append(*a.log, "draw_object")
	}
	a.objects = append(a.objects, obj)
}

func squareMarker(x, y, side float64) entity.Marker {
	return entity.Marker{
		ID: 1,
		Corners: [4]entity.Point2f{
			{X: x, Y: y},
			{X: x + side, Y: y},
			{X: x + side, Y: y + side},
			{X: x, Y: y + side},
		},
	}
}

// centeredRect контур прямоугольника w×h с центром в (cx, cy). Прямоугольник
// записан так, как его отдаёт minAreaRect в OpenCV 4.5+: угол 90°, стороны переставлены.
func centeredRect(cx, cy, w, h int) entity.Contour {
	x0, y0 := cx-w/2, cy-h/2
	return entity.Contour{
		Points: []image.Point{
			image.Pt(x0, y0),
			image.Pt(x0, y0+h),
			image.Pt(x0+w, y0+h),
			image.Pt(x0+w, y0),
		},
		Area: float64(w * h),
		Rect: entity.RotatedRect{
			Center: entity.Point2f{X: float64(cx), Y: float64(cy)},
			Width:  float64(h),
			Height: float64(w),
			Angle:  90,
		},
	}
}

func whitePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
