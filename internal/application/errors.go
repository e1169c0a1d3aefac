package app

import "errors"

// Ошибки, о которых сообщается клиенту как о неверном входе.
var (
	ErrInvalidImage     = errors.New("invalid image file")
	ErrNoMarker         = errors.New("no aruco marker detected")
	ErrNoObjects        = errors.New("no objects detected")
	ErrNoCenteredObject = errors.New("no objects close to center detected")
)
