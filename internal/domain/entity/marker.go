package entity

import (
	"errors"
	"fmt"
)

// DefaultMarkerSizeCM физическая сторона маркера по умолчанию
const DefaultMarkerSizeCM = 3.3

// ErrDegenerateMarker возвращается, если по маркеру нельзя получить масштаб
var ErrDegenerateMarker = errors.New("aruco marker has zero side length")

// MarkerDictionary имя предопределённого словаря ArUco
type MarkerDictionary string

const (
	Dict4x4_50   MarkerDictionary = "4x4_50"
	Dict4x4_100  MarkerDictionary = "4x4_100"
	Dict4x4_250  MarkerDictionary = "4x4_250"
	Dict4x4_1000 MarkerDictionary = "4x4_1000"
	Dict5x5_50   MarkerDictionary = "5x5_50"
	Dict5x5_100  MarkerDictionary = "5x5_100"
	Dict5x5_250  MarkerDictionary = "5x5_250"
	Dict5x5_1000 MarkerDictionary = "5x5_1000"
	Dict6x6_50   MarkerDictionary = "6x6_50"
	Dict6x6_100  MarkerDictionary = "6x6_100"
	Dict6x6_250  MarkerDictionary = "6x6_250"
	Dict6x6_1000 MarkerDictionary = "6x6_1000"
	Dict7x7_50   MarkerDictionary = "7x7_50"
	Dict7x7_100  MarkerDictionary = "7x7_100"
	Dict7x7_250  MarkerDictionary = "7x7_250"
	Dict7x7_1000 MarkerDictionary = "7x7_1000"
	DictOriginal MarkerDictionary = "original"
)

// DefaultMarker словарь по умолчанию: 5×5 бит, 100 символов
const DefaultMarker = Dict5x5_100

var knownDictionaries = map[MarkerDictionary]struct{}{
	Dict4x4_50: {}, Dict4x4_100: {}, Dict4x4_250: {}, Dict4x4_1000: {},
	Dict5x5_50: {}, Dict5x5_100: {}, Dict5x5_250: {}, Dict5x5_1000: {},
	Dict6x6_50: {}, Dict6x6_100: {}, Dict6x6_250: {}, Dict6x6_1000: {},
	Dict7x7_50: {}, Dict7x7_100: {}, Dict7x7_250: {}, Dict7x7_1000: {},
	DictOriginal: {},
}

// ParseMarkerDictionary проверяет имя словаря
func ParseMarkerDictionary(name string) (MarkerDictionary, error) {
	d := MarkerDictionary(name)
	if _, ok := knownDictionaries[d]; !ok {
		return "", fmt.Errorf("unknown marker dictionary %q", name)
	}
	return d, nil
}

// Marker найденный маркер: идентификатор и четыре угла по порядку обхода
type Marker struct {
	ID      int
	Corners [4]Point2f
}

// SideLength длина стороны между первым и вторым углом
func (m Marker) SideLength() float64 {
	return Distance(m.Corners[0], m.Corners[1])
}

// Scale соотношение пикселей и сантиметров для одного кадра
type Scale struct {
	PixelsPerCM float64
}

// NewScale считает масштаб по стороне маркера известного размера.
func NewScale(m Marker, sizeCM float64) (Scale, error) {
	side := m.SideLength()
	if side <= 0 || sizeCM <= 0 {
		return Scale{}, ErrDegenerateMarker
	}
	return Scale{PixelsPerCM: side / sizeCM}, nil
}

// ToCM переводит пиксели в сантиметры
func (s Scale) ToCM(px float64) float64 {
	return px / s.PixelsPerCM
}
