package app

import (
	"context"
	"fmt"
	"image"
	"math"

	"github.com/ImaGaf/ArucoReader/internal/domain/entity"
	"github.com/ImaGaf/ArucoReader/internal/domain/port"
)

// MeasureOptions неизменяемые параметры измерения, собираются при старте
type MeasureOptions struct {
	MarkerSizeCM float64
}

// MeasurementService измеряет объект, ближайший к центру кадра, по маркеру известного размера.
type MeasurementService struct {
	opts      MeasureOptions
	codec     port.FrameCodec
	markers   port.MarkerDetector
	objects   *ObjectDetector
	annotator port.Annotator
}

// NewMeasurementService создаёт сервис измерений.
func NewMeasurementService(opts MeasureOptions, codec port.FrameCodec, markers port.MarkerDetector, objects *ObjectDetector, annotator port.Annotator) *MeasurementService {
	return &MeasurementService{
		opts:      opts,
		codec:     codec,
		markers:   markers,
		objects:   objects,
		annotator: annotator,
	}
}

// Measure прогоняет кадр по цепочке: декодирование, маркер, масштаб, объекты,
// выбор ближайшего к центру, разметка и кодирование в JPEG.
func (s *MeasurementService) Measure(ctx context.Context, data []byte) (*entity.Measurement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := s.codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	markers, err := s.markers.DetectMarkers(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("detect markers: %w", err)
	}
	if len(markers) == 0 {
		return nil, ErrNoMarker
	}

	s.annotator.DrawMarkers(img, markers)

	marker := markers[0]
	scale, err := entity.NewScale(marker, s.opts.MarkerSizeCM)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	center := entity.PointFrom(image.Pt(b.Dx()/2, b.Dy()/2))

	// Объекты ищутся на кадре, где уже нарисованы маркеры.
	contours, err := s.objects.Detect(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("detect objects: %w", err)
	}
	if len(contours) == 0 {
		return nil, ErrNoObjects
	}

	objects := make([]entity.ObjectMeasurement, 0, len(contours))
	closest := -1
	minDistance := math.Inf(1)
	for _, c := range contours {
		rect := c.Rect.Normalize()
		obj := entity.ObjectMeasurement{
			Rect: rect,
			Dimensions: entity.Dimensions{
				Width:  scale.ToCM(rect.Width),
				Height: scale.ToCM(rect.Height),
			},
			Distance: entity.Distance(entity.PointFrom(rect.Center.Truncate()), center),
		}

		if obj.Distance < minDistance {
			minDistance = obj.Distance
			closest = len(objects)
		}

		s.annotator.DrawObject(img, obj)
		objects = append(objects, obj)
	}

	if closest < 0 {
		return nil, ErrNoCenteredObject
	}

	encoded, err := s.codec.EncodeJPEG(img)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}

	return &entity.Measurement{
		Image:      encoded,
		Dimensions: objects[closest].Dimensions,
		Marker:     marker,
		Scale:      scale,
		Objects:    objects,
		Closest:    closest,
	}, nil
}
