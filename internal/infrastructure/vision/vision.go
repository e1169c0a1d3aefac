// Package vision содержит адаптеры к OpenCV (gocv) для поиска маркеров и контуров.
// Без тега сборки gocv подключаются заглушки, которые возвращают ErrVisionUnavailable.
package vision

import "errors"

var (
	// ErrVisionUnavailable возвращается, если сборка без тега gocv
	ErrVisionUnavailable = errors.New("gocv build tag is not enabled")

	// ErrDetectorClosed возвращается после Close детектора
	ErrDetectorClosed = errors.New("aruco detector is closed")
)
