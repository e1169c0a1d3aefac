package entity

// Dimensions размеры объекта в сантиметрах
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ObjectMeasurement измерение одного найденного контура
type ObjectMeasurement struct {
	Rect       RotatedRect
	Dimensions Dimensions
	Distance   float64 // расстояние от центра прямоугольника до центра кадра
}

// Measurement итог обработки одного изображения.
type Measurement struct {
	Image      []byte              // аннотированный JPEG
	Dimensions Dimensions          // размеры объекта, ближайшего к центру
	Marker     Marker              // маркер, по которому считался масштаб
	Scale      Scale               // пикселей на сантиметр
	Objects    []ObjectMeasurement // все объекты в порядке обхода контуров
	Closest    int                 // индекс ближайшего объекта в Objects
}
