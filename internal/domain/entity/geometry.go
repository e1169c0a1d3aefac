package entity

import (
	"image"
	"math"
)

// Point2f точка с вещественными координатами в пикселях
type Point2f struct {
	X float64
	Y float64
}

// PointFrom переводит целочисленную точку в Point2f
func PointFrom(p image.Point) Point2f {
	return Point2f{X: float64(p.X), Y: float64(p.Y)}
}

// Distance возвращает евклидово расстояние между точками
func Distance(a, b Point2f) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Truncate отбрасывает дробную часть координат (как int() для центра прямоугольника)
func (p Point2f) Truncate() image.Point {
	return image.Pt(int(p.X), int(p.Y))
}
