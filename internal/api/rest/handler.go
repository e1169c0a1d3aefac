package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"go.uber.org/zap"

	app "github.com/ImaGaf/ArucoReader/internal/application"
	"github.com/ImaGaf/ArucoReader/internal/domain/entity"
)

const (
	msgNoFilePart        = "No file part"
	msgNoSelectedFile    = "No selected file"
	msgInvalidImage      = "Invalid image file"
	msgNoMarker          = "No Aruco marker detected"
	msgDegenerateMarker  = "Aruco marker has zero side length"
	msgNoObjects         = "No objects detected"
	msgNoCenteredObject  = "No objects close to center detected"
	msgInternal          = "Internal server error"
	formFileField        = "file"
	defaultMaxUploadSize = 50 << 20
)

// Measurer измеряет объект на изображении
type Measurer interface {
	Measure(ctx context.Context, data []byte) (*entity.Measurement, error)
}

// ProcessImageResponse тело успешного ответа. []byte кодируется в base64.
type ProcessImageResponse struct {
	Image      []byte            `json:"image"`
	Dimensions entity.Dimensions `json:"dimensions"`
}

type Handler struct {
	measurer  Measurer
	maxUpload int64
	logger    *zap.Logger
}

func NewHandler(measurer Measurer, maxUpload int64, logger *zap.Logger) *Handler {
	if maxUpload <= 0 {
		maxUpload = defaultMaxUploadSize
	}
	return &Handler{
		measurer:  measurer,
		maxUpload: maxUpload,
		logger:    logger,
	}
}

// ProcessImage обрабатывает POST /process_image
func (h *Handler) ProcessImage(w http.ResponseWriter, r *http.Request) {
	data, msg, err := h.readUpload(w, r)
	if err != nil {
		h.logger.Debug("rejected upload", zap.String("reason", msg), zap.Error(err))
		respondError(w, msg, http.StatusBadRequest)
		return
	}

	result, err := h.measurer.Measure(r.Context(), data)
	if err != nil {
		status, msg := classify(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("measurement failed", zap.Error(err))
		} else {
			h.logger.Info("measurement rejected", zap.String("reason", msg), zap.Error(err))
		}
		respondError(w, msg, status)
		return
	}

	h.logger.Info("object measured",
		zap.Float64("width_cm", result.Dimensions.Width),
		zap.Float64("height_cm", result.Dimensions.Height),
		zap.Int("marker_id", result.Marker.ID),
		zap.Int("objects", len(result.Objects)),
	)

	respondJSON(w, ProcessImageResponse{Image: result.Image, Dimensions: result.Dimensions}, http.StatusOK)
}

// HealthHandler проверка здоровья сервиса
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// readUpload читает первую часть file с атрибутом filename. Часть без
// filename считается обычным полем формы и файлом не является.
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, msgNoFilePart, err
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, msgNoFilePart, http.ErrMissingFile
		}
		if err != nil {
			return nil, msgNoFilePart, err
		}

		filename, isFile := uploadFilename(part)
		if part.FormName() != formFileField || !isFile {
			_ = part.Close()
			continue
		}

		if filename == "" {
			_ = part.Close()
			return nil, msgNoSelectedFile, errors.New("empty filename")
		}

		data, err := io.ReadAll(part)
		_ = part.Close()
		if err != nil {
			return nil, msgNoFilePart, err
		}
		return data, "", nil
	}
}

// uploadFilename возвращает filename из Content-Disposition и признак его наличия
func uploadFilename(part *multipart.Part) (string, bool) {
	_, params, err := mime.ParseMediaType(part.Header.Get("Content-Disposition"))
	if err != nil {
		return "", false
	}
	name, ok := params["filename"]
	return name, ok
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, app.ErrInvalidImage):
		return http.StatusBadRequest, msgInvalidImage
	case errors.Is(err, app.ErrNoMarker):
		return http.StatusBadRequest, msgNoMarker
	case errors.Is(err, entity.ErrDegenerateMarker):
		return http.StatusBadRequest, msgDegenerateMarker
	case errors.Is(err, app.ErrNoObjects):
		return http.StatusBadRequest, msgNoObjects
	case errors.Is(err, app.ErrNoCenteredObject):
		return http.StatusBadRequest, msgNoCenteredObject
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

func respondJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, map[string]string{"error": message}, status)
}
