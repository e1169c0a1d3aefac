package entity

import (
	"image"
	"math"
)

// Contour внешняя граница объекта вместе с площадью и описанным
// прямоугольником минимальной площади, посчитанными адаптером поиска контуров.
type Contour struct {
	Points []image.Point
	Area   float64
	Rect   RotatedRect
}

// RotatedRect повёрнутый прямоугольник: центр, стороны в пикселях и угол в градусах.
// Width сторона вдоль направления Angle.
type RotatedRect struct {
	Center Point2f
	Width  float64
	Height float64
	Angle  float64
}

// Points возвращает четыре угла прямоугольника по обходу
func (r RotatedRect) Points() [4]Point2f {
	rad := r.Angle * math.Pi / 180
	ux, uy := math.Cos(rad), math.Sin(rad)
	hw, hh := r.Width/2, r.Height/2

	corner := func(su, sv float64) Point2f {
		return Point2f{
			X: r.Center.X + su*hw*ux - sv*hh*uy,
			Y: r.Center.Y + su*hw*uy + sv*hh*ux,
		}
	}
	return [4]Point2f{corner(-1, 1), corner(-1, -1), corner(1, -1), corner(1, 1)}
}

// Normalize приводит угол к [-45, 45), меняя стороны местами при повороте на 90°.
// После этого Width сторона, ближайшая к горизонтали.
func (r RotatedRect) Normalize() RotatedRect {
	for r.Angle >= 45 {
		r.Angle -= 90
		r.Width, r.Height = r.Height, r.Width
	}
	for r.Angle < -45 {
		r.Angle += 90
		r.Width, r.Height = r.Height, r.Width
	}
	return r
}
