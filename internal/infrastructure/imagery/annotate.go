package imagery

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/gobold"

	"github.com/ImaGaf/ArucoReader/internal/domain/entity"
	"github.com/ImaGaf/ArucoReader/internal/domain/port"
)

var (
	centerColor      = color.RGBA{R: 255, A: 255}
	boxColor         = color.RGBA{B: 255, A: 255}
	widthLabelColor  = color.RGBA{R: 255, B: 150, A: 255}
	heightLabelColor = color.RGBA{R: 200, B: 200, A: 255}
	markerColor      = color.RGBA{G: 255, A: 255}
	markerCornerCol  = color.RGBA{R: 255, A: 255}
	markerIDColor    = color.RGBA{B: 255, A: 255}
)

const (
	labelSize    = 48
	markerIDSize = 24
	labelOffset  = 15
	centerRadius = 5
)

// Annotator рисует разметку поверх кадра через fogleman/gg
type Annotator struct {
	font *truetype.Font
}

// NewAnnotator разбирает встроенный шрифт Go Bold
func NewAnnotator() (*Annotator, error) {
	f, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &Annotator{font: f}, nil
}

// DrawMarkers обводит маркеры зелёным, отмечает первый угол и подписывает id.
func (a *Annotator) DrawMarkers(img *image.RGBA, markers []entity.Marker) {
	dc := gg.NewContextForRGBA(img)
	dc.SetFontFace(truetype.NewFace(a.font, &truetype.Options{Size: markerIDSize}))

	for _, m := range markers {
		polygon(dc, m.Corners[:])
		dc.SetColor(markerColor)
		dc.SetLineWidth(2)
		dc.Stroke()

		first := m.Corners[0]
		dc.DrawRectangle(first.X-3, first.Y-3, 6, 6)
		dc.SetColor(markerCornerCol)
		dc.Fill()

		dc.SetColor(markerIDColor)
		dc.DrawString(fmt.Sprintf("id=%d", m.ID), first.X, first.Y-labelOffset)
	}
}

// DrawObject рисует центр, повёрнутый прямоугольник и подписи ширины и высоты.
func (a *Annotator) DrawObject(img *image.RGBA, obj entity.ObjectMeasurement) {
	dc := gg.NewContextForRGBA(img)
	center := obj.Rect.Center.Truncate()
	x, y := float64(center.X), float64(center.Y)

	dc.DrawCircle(x, y, centerRadius)
	dc.SetColor(centerColor)
	dc.Fill()

	box := obj.Rect.Points()
	polygon(dc, box[:])
	dc.SetColor(boxColor)
	dc.SetLineWidth(2)
	dc.Stroke()

	dc.SetFontFace(truetype.NewFace(a.font, &truetype.Options{Size: labelSize}))
	dc.SetColor(widthLabelColor)
	dc.DrawString(WidthLabel(obj.Dimensions), x, y-labelOffset)
	dc.SetColor(heightLabelColor)
	dc.DrawString(HeightLabel(obj.Dimensions), x, y+labelOffset)
}

// WidthLabel подпись ширины на кадре
func WidthLabel(d entity.Dimensions) string {
	return fmt.Sprintf("Ancho: %.1f cm", d.Width)
}

// HeightLabel подпись высоты на кадре
func HeightLabel(d entity.Dimensions) string {
	return fmt.Sprintf("Alto: %.1f cm", d.Height)
}

func polygon(dc *gg.Context, pts []entity.Point2f) {
	dc.NewSubPath()
	for i, p := range pts {
		if i == 0 {
			dc.MoveTo(p.X, p.Y)
			continue
		}
		dc.LineTo(p.X, p.Y)
	}
	dc.ClosePath()
}

// Проверка реализации интерфейса
var _ port.Annotator = (*Annotator)(nil)
