package port

import (
	"image"

	"github.com/ImaGaf/ArucoReader/internal/domain/entity"
)

// FrameCodec декодирует загруженные байты и кодирует результат
type FrameCodec interface {
	// Decode возвращает непрозрачный трёхканальный буфер
	Decode(data []byte) (*image.RGBA, error)

	// EncodeJPEG кодирует буфер в JPEG
	EncodeJPEG(img image.Image) ([]byte, error)
}

// Annotator рисует разметку прямо в буфере кадра
type Annotator interface {
	// DrawMarkers обводит найденные маркеры
	DrawMarkers(img *image.RGBA, markers []entity.Marker)

	// DrawObject рисует центр, повёрнутый прямоугольник и подписи размеров
	DrawObject(img *image.RGBA, obj entity.ObjectMeasurement)
}
