package app

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ImaGaf/ArucoReader/internal/domain/entity"
)

func newTestObjectDetector(finder *fakeContours) *ObjectDetector {
	return NewObjectDetector(finder, DefaultBlockSize, DefaultThresholdC, DefaultMinObjectArea)
}

func TestObjectDetector_FiltersByAreaKeepingOrder(t *testing.T) {
	finder := &fakeContours{contours: []entity.Contour{
		centeredRect(100, 100, 50, 40), // ровно 2000, отбрасывается
		centeredRect(300, 100, 60, 40),
		centeredRect(200, 200, 10, 10),
		centeredRect(50, 250, 100, 30),
	}}

	objects, err := newTestObjectDetector(finder).Detect(context.Background(), image.NewRGBA(image.Rect(0, 0, 400, 300)))
	require.NoError(t, err)
	require.Len(t, objects, 2)
	require.Equal(t, finder.contours[1], objects[0])
	require.Equal(t, finder.contours[3], objects[1])
}

func TestObjectDetector_PassesMaskOfImageSize(t *testing.T) {
	finder := &fakeContours{}

	objects, err := newTestObjectDetector(finder).Detect(context.Background(), image.NewRGBA(image.Rect(0, 0, 64, 32)))
	require.NoError(t, err)
	require.Empty(t, objects)
	require.Equal(t, image.Rect(0, 0, 64, 32), finder.mask.Bounds())
}

func TestObjectDetector_FinderError(t *testing.T) {
	finder := &fakeContours{err: errors.New("boom")}

	_, err := newTestObjectDetector(finder).Detect(context.Background(), image.NewRGBA(image.Rect(0, 0, 8, 8)))
	require.ErrorContains(t, err, "boom")
}

func TestObjectDetector_MaskUniformBackground(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{R: 200, G: 200, B: 200, A: 255}}, image.Point{}, draw.Src)

	mask := newTestObjectDetector(&fakeContours{}).Mask(img)
	for _, v := range mask.Pix {
		require.Zero(t, v)
	}
}

func TestObjectDetector_MaskMarksDarkEdges(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 60, 60))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(20, 20, 40, 40), &image.Uniform{C: color.Black}, image.Point{}, draw.Src)

	mask := newTestObjectDetector(&fakeContours{}).Mask(img)
	require.Equal(t, uint8(255), mask.GrayAt(20, 30).Y)
	require.Equal(t, uint8(0), mask.GrayAt(19, 30).Y)
	require.Equal(t, uint8(0), mask.GrayAt(5, 5).Y)
	// Внутри большого однородного объекта порог не срабатывает.
	require.Equal(t, uint8(0), mask.GrayAt(30, 30).Y)
}

func TestObjectDetector_MaskColoredObject(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 60, 60))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(20, 20, 40, 40), &image.Uniform{C: color.RGBA{R: 200, G: 30, B: 30, A: 255}}, image.Point{}, draw.Src)

	mask := newTestObjectDetector(&fakeContours{}).Mask(img)
	require.Equal(t, image.Rect(0, 0, 60, 60), mask.Bounds())
	require.Equal(t, uint8(255), mask.GrayAt(20, 30).Y)
	require.Equal(t, uint8(255), mask.GrayAt(39, 30).Y)
	require.Equal(t, uint8(0), mask.GrayAt(40, 30).Y)
}
