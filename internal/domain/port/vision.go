package port

import (
	"context"
	"image"

	"github.com/ImaGaf/ArucoReader/internal/domain/entity"
)

// MarkerDetector интерфейс детектора маркеров ArUco
type MarkerDetector interface {
	// DetectMarkers возвращает найденные маркеры в порядке, который отдаёт библиотека.
	// Словарь задаётся при создании детектора.
	DetectMarkers(ctx context.Context, img image.Image) ([]entity.Marker, error)
}

// ContourFinder интерфейс поиска внешних контуров на бинарной маске
type ContourFinder interface {
	// FindExternalContours возвращает только внешние границы со сжатием коллинеарных точек,
	// для каждой сразу площадь и описанный прямоугольник минимальной площади
	FindExternalContours(ctx context.Context, mask *image.Gray) ([]entity.Contour, error)
}
