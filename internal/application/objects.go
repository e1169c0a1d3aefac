package app

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"

	"github.com/ImaGaf/ArucoReader/internal/domain/entity"
	"github.com/ImaGaf/ArucoReader/internal/domain/port"
)

// Параметры сегментации однородного фона по умолчанию
const (
	DefaultBlockSize     = 19
	DefaultThresholdC    = 5
	DefaultMinObjectArea = 2000
)

// Веса яркости как у cv::cvtColor(BGR2GRAY)
const (
	grayWeightR = 0.299
	grayWeightG = 0.587
	grayWeightB = 0.114
)

// ObjectDetector выделяет объекты на однородном фоне: адаптивный порог по
// среднему в окне, внешние контуры и отсев по площади.
type ObjectDetector struct {
	contours  port.ContourFinder
	blockSize int
	offset    float64
	minArea   float64
}

// NewObjectDetector создаёт детектор объектов. blockSize должен быть нечётным.
func NewObjectDetector(contours port.ContourFinder, blockSize int, offset, minArea float64) *ObjectDetector {
	return &ObjectDetector{
		contours:  contours,
		blockSize: blockSize,
		offset:    offset,
		minArea:   minArea,
	}
}

// Detect возвращает контуры площадью больше minArea в порядке обхода.
func (d *ObjectDetector) Detect(ctx context.Context, img image.Image) ([]entity.Contour, error) {
	mask := d.Mask(img)

	found, err := d.contours.FindExternalContours(ctx, mask)
	if err != nil {
		return nil, fmt.Errorf("find contours: %w", err)
	}

	objects := make([]entity.Contour, 0, len(found))
	for _, c := range found {
		if c.Area > d.minArea {
			objects = append(objects, c)
		}
	}

	return objects, nil
}

// Mask строит инвертированную бинарную маску: 255 там, где пиксель темнее
// среднего по окну blockSize×blockSize хотя бы на offset.
func (d *ObjectDetector) Mask(img image.Image) *image.Gray {
	gray := effect.GrayscaleWithWeights(img, grayWeightR, grayWeightG, grayWeightB)
	mean := blur.Box(gray, float64(d.blockSize-1)/2)

	gb, mb := gray.Bounds(), mean.Bounds()
	mask := image.NewGray(image.Rect(0, 0, gb.Dx(), gb.Dy()))
	for y := 0; y < gb.Dy(); y++ {
		for x := 0; x < gb.Dx(); x++ {
			threshold := float64(mean.RGBAAt(mb.Min.X+x, mb.Min.Y+y).R) - d.offset
			if float64(gray.RGBAAt(gb.Min.X+x, gb.Min.Y+y).R) <= threshold {
				mask.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}

	return mask
}
