package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/ImaGaf/ArucoReader/internal/domain/entity"
)

// Значения по умолчанию
const (
	DefaultHTTPAddr       = "0.0.0.0:5000"
	DefaultMaxUploadBytes = 50 << 20
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "json"
)

type Config struct {
	HTTPAddr       string
	MaxUploadBytes int64
	LogLevel       string
	LogFormat      string
	TelegramToken  string
	Measurement    Measurement
}

// Measurement параметры измерения; могут переопределяться YAML-файлом
type Measurement struct {
	MarkerSizeCM       float64 `yaml:"marker_size_cm"`
	MarkerDictionary   string  `yaml:"marker_dictionary"`
	MinObjectArea      float64 `yaml:"min_object_area"`
	ThresholdBlockSize int     `yaml:"threshold_block_size"`
	ThresholdC         float64 `yaml:"threshold_c"`
	JPEGQuality        int     `yaml:"jpeg_quality"`
}

// Default возвращает конфигурацию со значениями по умолчанию
func Default() *Config {
	return &Config{
		HTTPAddr:       DefaultHTTPAddr,
		MaxUploadBytes: DefaultMaxUploadBytes,
		LogLevel:       DefaultLogLevel,
		LogFormat:      DefaultLogFormat,
		Measurement: Measurement{
			MarkerSizeCM:       entity.DefaultMarkerSizeCM,
			MarkerDictionary:   string(entity.DefaultMarker),
			MinObjectArea:      2000,
			ThresholdBlockSize: 19,
			ThresholdC:         5,
			JPEGQuality:        95,
		},
	}
}

// Load собирает конфигурацию: значения по умолчанию, .env, переменные окружения,
// затем YAML-файл из MEASURE_CONFIG (если задан).
func Load(envFile string) (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	if envFile != "" {
		_ = godotenv.Load(envFile)
	} else {
		_ = godotenv.Load()
	}

	cfg := Default()
	cfg.HTTPAddr = getEnv("HTTP_ADDR", cfg.HTTPAddr)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)
	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	cfg.Measurement.MarkerDictionary = getEnv("MARKER_DICTIONARY", cfg.Measurement.MarkerDictionary)

	var err error
	if cfg.MaxUploadBytes, err = getInt64("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes); err != nil {
		return nil, err
	}
	if cfg.Measurement.MarkerSizeCM, err = getFloat("MARKER_SIZE_CM", cfg.Measurement.MarkerSizeCM); err != nil {
		return nil, err
	}
	if cfg.Measurement.MinObjectArea, err = getFloat("MIN_OBJECT_AREA", cfg.Measurement.MinObjectArea); err != nil {
		return nil, err
	}
	if cfg.Measurement.ThresholdC, err = getFloat("THRESHOLD_C", cfg.Measurement.ThresholdC); err != nil {
		return nil, err
	}
	if cfg.Measurement.ThresholdBlockSize, err = getInt("THRESHOLD_BLOCK_SIZE", cfg.Measurement.ThresholdBlockSize); err != nil {
		return nil, err
	}
	if cfg.Measurement.JPEGQuality, err = getInt("JPEG_QUALITY", cfg.Measurement.JPEGQuality); err != nil {
		return nil, err
	}

	if path := os.Getenv("MEASURE_CONFIG"); path != "" {
		if err := cfg.LoadMeasurementFile(path); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// LoadMeasurementFile переопределяет параметры измерения из YAML.
// Отсутствующие в файле ключи сохраняют текущие значения.
func (c *Config) LoadMeasurementFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read measurement config: %w", err)
	}
	if err := yaml.Unmarshal(data, &c.Measurement); err != nil {
		return fmt.Errorf("parse measurement config %s: %w", path, err)
	}
	return nil
}

// Validate проверяет согласованность параметров
func (c *Config) Validate() error {
	m := c.Measurement
	var err error
	if c.HTTPAddr == "" {
		err = multierr.Append(err, errors.New("http address is empty"))
	}
	if c.MaxUploadBytes <= 0 {
		err = multierr.Append(err, fmt.Errorf("max upload size must be positive, got %d", c.MaxUploadBytes))
	}
	if m.MarkerSizeCM <= 0 {
		err = multierr.Append(err, fmt.Errorf("marker size must be positive, got %v", m.MarkerSizeCM))
	}
	if _, perr := entity.ParseMarkerDictionary(m.MarkerDictionary); perr != nil {
		err = multierr.Append(err, perr)
	}
	if m.MinObjectArea < 0 {
		err = multierr.Append(err, fmt.Errorf("min object area must not be negative, got %v", m.MinObjectArea))
	}
	if m.ThresholdBlockSize < 3 || m.ThresholdBlockSize%2 == 0 {
		err = multierr.Append(err, fmt.Errorf("threshold block size must be odd and >= 3, got %d", m.ThresholdBlockSize))
	}
	if m.JPEGQuality < 1 || m.JPEGQuality > 100 {
		err = multierr.Append(err, fmt.Errorf("jpeg quality must be within 1..100, got %d", m.JPEGQuality))
	}
	return err
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getInt64(key string, defaultVal int64) (int64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, defaultVal float64) (float64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}
