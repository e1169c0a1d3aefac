//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"image"

	"go.uber.org/zap"

	"github.com/ImaGaf/ArucoReader/internal/domain/entity"
	"github.com/ImaGaf/ArucoReader/internal/domain/port"
)

// ArucoDetector заглушка детектора маркеров (без OpenCV)
type ArucoDetector struct{}

// NewArucoDetector создаёт детектор-заглушку
func NewArucoDetector(dict entity.MarkerDictionary, logger *zap.Logger) (*ArucoDetector, error) {
	_ = dict
	_ = logger
	return &ArucoDetector{}, nil
}

// DetectMarkers возвращает ошибку, если сборка без тега gocv.
func (d *ArucoDetector) DetectMarkers(ctx context.Context, img image.Image) ([]entity.Marker, error) {
	_ = ctx
	_ = img
	return nil, ErrVisionUnavailable
}

// Close ничего не освобождает
func (d *ArucoDetector) Close() error {
	return nil
}

// ContourFinder заглушка поиска контуров (без OpenCV)
type ContourFinder struct{}

// NewContourFinder создаёт заглушку поиска контуров
func NewContourFinder() *ContourFinder {
	return &ContourFinder{}
}

// FindExternalContours возвращает ошибку, если сборка без тега gocv.
func (f *ContourFinder) FindExternalContours(ctx context.Context, mask *image.Gray) ([]entity.Contour, error) {
	_ = ctx
	_ = mask
	return nil, ErrVisionUnavailable
}

var (
	_ port.MarkerDetector = (*ArucoDetector)(nil)
	_ port.ContourFinder  = (*ContourFinder)(nil)
)
