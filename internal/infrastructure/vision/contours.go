//go:build gocv
// +build gocv

package vision

import (
	"context"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/ImaGaf/ArucoReader/internal/domain/entity"
	"github.com/ImaGaf/ArucoReader/internal/domain/port"
)

// ContourFinder извлекает внешние контуры через cv::findContours.
type ContourFinder struct{}

// NewContourFinder создаёт поиск контуров
func NewContourFinder() *ContourFinder {
	return &ContourFinder{}
}

// FindExternalContours возвращает контуры в порядке обхода OpenCV. Площадь
// считается cv::contourArea, прямоугольник cv::minAreaRect без округления.
func (f *ContourFinder) FindExternalContours(ctx context.Context, mask *image.Gray) ([]entity.Contour, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mat, err := gocv.ImageGrayToMatGray(mask)
	if err != nil {
		return nil, fmt.Errorf("convert mask to mat: %w", err)
	}
	defer mat.Close()

	found := gocv.FindContours(mat, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer found.Close()

	contours := make([]entity.Contour, 0, found.Size())
	for i := 0; i < found.Size(); i++ {
		pv := found.At(i)
		r := gocv.MinAreaRect2f(pv)
		contours = append(contours, entity.Contour{
			Points: pv.ToPoints(),
			Area:   gocv.ContourArea(pv),
			Rect: entity.RotatedRect{
				Center: entity.Point2f{X: float64(r.Center.X), Y: float64(r.Center.Y)},
				Width:  float64(r.Width),
				Height: float64(r.Height),
				Angle:  r.Angle,
			},
		})
	}

	return contours, nil
}

// Проверка реализации интерфейса
var _ port.ContourFinder = (*ContourFinder)(nil)
