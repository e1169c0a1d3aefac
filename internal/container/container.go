package container

import (
	"fmt"

	"github.com/ImaGaf/ArucoReader/config"
	app "github.com/ImaGaf/ArucoReader/internal/application"
	"github.com/ImaGaf/ArucoReader/internal/domain/port"
	"github.com/ImaGaf/ArucoReader/internal/infrastructure/imagery"
)

type Container struct {
	MeasurementService *app.MeasurementService
	SessionService     *app.SessionService
}

// Ports внешние зависимости, которые подставляются при сборке
type Ports struct {
	Markers  port.MarkerDetector
	Contours port.ContourFinder
	Sessions port.SessionRepository
}

func New(cfg config.Measurement, ports Ports) (*Container, error) {
	annotator, err := imagery.NewAnnotator()
	if err != nil {
		return nil, fmt.Errorf("create annotator: %w", err)
	}

	objects := app.NewObjectDetector(ports.Contours, cfg.ThresholdBlockSize, cfg.ThresholdC, cfg.MinObjectArea)
	measurementService := app.NewMeasurementService(
		app.MeasureOptions{MarkerSizeCM: cfg.MarkerSizeCM},
		imagery.NewCodec(cfg.JPEGQuality),
		ports.Markers,
		objects,
		annotator,
	)

	return &Container{
		MeasurementService: measurementService,
		SessionService:     app.NewSessionService(ports.Sessions),
	}, nil
}
