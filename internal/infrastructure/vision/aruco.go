//go:build gocv
// +build gocv

package vision

import (
	"context"
	"fmt"
	"image"
	"sync"

	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"github.com/ImaGaf/ArucoReader/internal/domain/entity"
	"github.com/ImaGaf/ArucoReader/internal/domain/port"
)

var arucoDictionaries = map[entity.MarkerDictionary]gocv.ArucoDictionaryCode{
	entity.Dict4x4_50:   gocv.ArucoDict4x4_50,
	entity.Dict4x4_100:  gocv.ArucoDict4x4_100,
	entity.Dict4x4_250:  gocv.ArucoDict4x4_250,
	entity.Dict4x4_1000: gocv.ArucoDict4x4_1000,
	entity.Dict5x5_50:   gocv.ArucoDict5x5_50,
	entity.Dict5x5_100:  gocv.ArucoDict5x5_100,
	entity.Dict5x5_250:  gocv.ArucoDict5x5_250,
	entity.Dict5x5_1000: gocv.ArucoDict5x5_1000,
	entity.Dict6x6_50:   gocv.ArucoDict6x6_50,
	entity.Dict6x6_100:  gocv.ArucoDict6x6_100,
	entity.Dict6x6_250:  gocv.ArucoDict6x6_250,
	entity.Dict6x6_1000: gocv.ArucoDict6x6_1000,
	entity.Dict7x7_50:   gocv.ArucoDict7x7_50,
	entity.Dict7x7_100:  gocv.ArucoDict7x7_100,
	entity.Dict7x7_250:  gocv.ArucoDict7x7_250,
	entity.Dict7x7_1000: gocv.ArucoDict7x7_1000,
	entity.DictOriginal: gocv.ArucoDictArucoOriginal,
}

// ArucoDetector ищет маркеры одного словаря параметрами детектора по умолчанию.
// Детектор OpenCV создаётся один раз и живёт до Close.
type ArucoDetector struct {
	mu       sync.Mutex
	detector gocv.ArucoDetector
	closed   bool
	logger   *zap.Logger
}

// NewArucoDetector создаёт детектор маркеров для словаря dict
func NewArucoDetector(dict entity.MarkerDictionary, logger *zap.Logger) (*ArucoDetector, error) {
	code, ok := arucoDictionaries[dict]
	if !ok {
		return nil, fmt.Errorf("unsupported marker dictionary %q", dict)
	}

	return &ArucoDetector{
		detector: gocv.NewArucoDetectorWithParams(gocv.GetPredefinedDictionary(code), gocv.NewArucoDetectorParameters()),
		logger:   logger,
	}, nil
}

// DetectMarkers переводит кадр в BGR Mat и запускает cv::aruco::ArucoDetector.
func (d *ArucoDetector) DetectMarkers(ctx context.Context, img image.Image) ([]entity.Marker, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("convert image to mat: %w", err)
	}
	defer mat.Close()

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil, ErrDetectorClosed
	}
	corners, ids, rejected := d.detector.DetectMarkers(mat)
	d.mu.Unlock()

	d.logger.Debug("aruco detection",
		zap.Int("markers", len(ids)),
		zap.Int("rejected_candidates", len(rejected)),
	)

	markers := make([]entity.Marker, 0, len(ids))
	for i, id := range ids {
		if i >= len(corners) || len(corners[i]) < 4 {
			continue
		}
		m := entity.Marker{ID: id}
		for j := 0; j < 4; j++ {
			m.Corners[j] = entity.Point2f{X: float64(corners[i][j].X), Y: float64(corners[i][j].Y)}
		}
		markers = append(markers, m)
	}

	return markers, nil
}

// Close освобождает детектор OpenCV. Повторный вызов ничего не делает.
func (d *ArucoDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	return d.detector.Close()
}

// Проверка реализации интерфейса
var _ port.MarkerDetector = (*ArucoDetector)(nil)
