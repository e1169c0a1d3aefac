package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/ImaGaf/ArucoReader/config"
	"github.com/ImaGaf/ArucoReader/internal/api/rest"
	"github.com/ImaGaf/ArucoReader/internal/api/telegram"
	"github.com/ImaGaf/ArucoReader/internal/container"
	"github.com/ImaGaf/ArucoReader/internal/domain/entity"
	"github.com/ImaGaf/ArucoReader/internal/infrastructure/storage"
	"github.com/ImaGaf/ArucoReader/internal/infrastructure/vision"
)

// Version задаётся через ldflags при сборке
var Version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	app := &cli.App{
		Name:    "aruco-measure",
		Usage:   "measure objects on photos using an ArUco marker as a scale reference",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env-file", Usage: "path to .env file (default: ./.env if present)"},
			&cli.StringFlag{Name: "config", Usage: "YAML file with measurement parameters", EnvVars: []string{"MEASURE_CONFIG"}},
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the HTTP API and, when TELEGRAM_TOKEN is set, the Telegram bot",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "addr", Usage: "listen address, overrides HTTP_ADDR"},
				},
				Action: serve,
			},
			{
				Name:      "measure",
				Usage:     "measure a single image file and print the result as JSON",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Usage: "write the annotated JPEG to this path"},
				},
				Action: measure,
			},
		},
		Action: serve,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("aruco-measure: %v", err)
	}
}

func serve(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if addr := c.String("addr"); addr != "" {
		cfg.HTTPAddr = addr
	}

	logger, err := newLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctr, closeVision, err := newContainer(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeVision(); err != nil {
			logger.Warn("close vision adapters", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := rest.NewHandler(ctr.MeasurementService, cfg.MaxUploadBytes, logger)
	srv := rest.NewServer(cfg.HTTPAddr, rest.NewRouter(handler, logger))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr), zap.String("version", Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, ctr.SessionService, ctr.MeasurementService, logger)
		if err != nil {
			stop()
			return multierr.Append(fmt.Errorf("create bot: %w", err), g.Wait())
		}
		g.Go(func() error { return bot.Run(gctx) })
	} else {
		logger.Info("TELEGRAM_TOKEN is not set, telegram bot disabled")
	}

	return g.Wait()
}

// report вывод команды measure
type report struct {
	Dimensions  entity.Dimensions `json:"dimensions"`
	MarkerID    int               `json:"marker_id"`
	PixelsPerCM float64           `json:"pixels_per_cm"`
	Objects     int               `json:"objects"`
}

func measure(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("measure requires exactly one FILE argument", 2)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctr, closeVision, err := newContainer(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = closeVision() }()

	data, err := os.ReadFile(c.Args().First())
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}

	result, err := ctr.MeasurementService.Measure(c.Context, data)
	if err != nil {
		return err
	}

	if out := c.String("out"); out != "" {
		if err := os.WriteFile(out, result.Image, 0o644); err != nil {
			return fmt.Errorf("write annotated image: %w", err)
		}
	}

	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(report{
		Dimensions:  result.Dimensions,
		MarkerID:    result.Marker.ID,
		PixelsPerCM: result.Scale.PixelsPerCM,
		Objects:     len(result.Objects),
	})
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("env-file"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if path := c.String("config"); path != "" {
		if err := cfg.LoadMeasurementFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newContainer собирает сервисы; возвращённая функция освобождает детектор OpenCV
func newContainer(cfg *config.Config, logger *zap.Logger) (*container.Container, func() error, error) {
	dict, err := entity.ParseMarkerDictionary(cfg.Measurement.MarkerDictionary)
	if err != nil {
		return nil, nil, err
	}

	markers, err := vision.NewArucoDetector(dict, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("create marker detector: %w", err)
	}

	ctr, err := container.New(cfg.Measurement, container.Ports{
		Markers:  markers,
		Contours: vision.NewContourFinder(),
		Sessions: storage.NewMemorySessionRepository(),
	})
	if err != nil {
		return nil, nil, multierr.Append(err, markers.Close())
	}

	return ctr, markers.Close, nil
}

// newLogger собирает zap: JSON по умолчанию, консольный вывод при LOG_FORMAT=console
func newLogger(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	zc := zap.NewProductionConfig()
	if format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)

	return zc.Build()
}
