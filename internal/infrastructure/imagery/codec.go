package imagery

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP format decoder

	"github.com/ImaGaf/ArucoReader/internal/domain/port"
)

// DefaultJPEGQuality совпадает с качеством cv::imencode по умолчанию
const DefaultJPEGQuality = 95

// ErrEmptyImage возвращается для пустых данных или изображения нулевого размера
var ErrEmptyImage = errors.New("empty image")

// Codec реализует port.FrameCodec
type Codec struct {
	quality int
}

// NewCodec создаёт кодек с заданным качеством JPEG (1..100)
func NewCodec(quality int) *Codec {
	if quality < 1 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	return &Codec{quality: quality}
}

// Decode декодирует байты и приводит кадр к трём каналам без прозрачности.
func (c *Codec) Decode(data []byte) (*image.RGBA, error) {
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}

	return Opaque(img), nil
}

// EncodeJPEG кодирует кадр в JPEG
func (c *Codec) EncodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(c.quality)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// Opaque копирует изображение в RGBA с нулевым началом координат.
// Серый канал повторяется в R, G и B, альфа выставляется в 255.
func Opaque(img image.Image) *image.RGBA {
	src := imaging.Clone(img)
	dst := image.NewRGBA(src.Rect)
	for i := 0; i+3 < len(src.Pix); i += 4 {
		dst.Pix[i] = src.Pix[i]
		dst.Pix[i+1] = src.Pix[i+1]
		dst.Pix[i+2] = src.Pix[i+2]
		dst.Pix[i+3] = 0xff
	}
	return dst
}

// Проверка реализации интерфейса
var _ port.FrameCodec = (*Codec)(nil)
