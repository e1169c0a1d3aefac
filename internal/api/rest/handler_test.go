package rest

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	app "github.com/ImaGaf/ArucoReader/internal/application"
	"github.com/ImaGaf/ArucoReader/internal/domain/entity"
)

type fakeMeasurer struct {
	result *entity.Measurement
	err    error
	got    []byte
	calls  int
}

func (f *fakeMeasurer) Measure(ctx context.Context, data []byte) (*entity.Measurement, error) {
	f.calls++
	f.got = data
	return f.result, f.err
}

func newTestRouter(m Measurer) http.Handler {
	logger := zap.NewNop()
	return NewRouter(NewHandler(m, 1<<20, logger), logger)
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, filename))
	h.Set("Content-Type", "application/octet-stream")
	part, err := writer.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func postImage(t *testing.T, handler http.Handler, field, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, field, filename, content)
	req := httptest.NewRequest(http.MethodPost, "/process_image", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var payload map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload["error"]
}

func TestProcessImage_Success(t *testing.T) {
	m := &fakeMeasurer{result: &entity.Measurement{
		Image:      []byte{0xff, 0xd8, 0xff, 0xd9},
		Dimensions: entity.Dimensions{Width: 6, Height: 3},
	}}

	rec := postImage(t, newTestRouter(m), "file", "photo.jpg", []byte("raw-bytes"))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.Equal(t, []byte("raw-bytes"), m.got)

	var payload struct {
		Image      string             `json:"image"`
		Dimensions map[string]float64 `json:"dimensions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, base64.StdEncoding.EncodeToString([]byte{0xff, 0xd8, 0xff, 0xd9}), payload.Image)
	require.Equal(t, map[string]float64{"width": 6, "height": 3}, payload.Dimensions)
}

func TestProcessImage_MissingFilePart(t *testing.T) {
	m := &fakeMeasurer{}

	rec := postImage(t, newTestRouter(m), "other", "photo.jpg", []byte("x"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "No file part", decodeError(t, rec))
	require.Zero(t, m.calls)
}

func TestProcessImage_NotMultipart(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/process_image", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	newTestRouter(&fakeMeasurer{}).ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "No file part", decodeError(t, rec))
}

func TestProcessImage_EmptyFilename(t *testing.T) {
	m := &fakeMeasurer{}

	rec := postImage(t, newTestRouter(m), "file", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "No selected file", decodeError(t, rec))
	require.Zero(t, m.calls)
}

func TestProcessImage_PlainFieldIsNotFile(t *testing.T) {
	m := &fakeMeasurer{}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("file", "not-a-file"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/process_image", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()

	newTestRouter(m).ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "No file part", decodeError(t, rec))
	require.Zero(t, m.calls)
}

func TestProcessImage_FileAfterPlainField(t *testing.T) {
	m := &fakeMeasurer{result: &entity.Measurement{Image: []byte{1}}}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("file", "not-a-file"))
	part, err := writer.CreateFormFile("file", "photo.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("raw-bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/process_image", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()

	newTestRouter(m).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []byte("raw-bytes"), m.got)
}

func TestProcessImage_MeasurementErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{fmt.Errorf("%w: bad header", app.ErrInvalidImage), http.StatusBadRequest, "Invalid image file"},
		{app.ErrNoMarker, http.StatusBadRequest, "No Aruco marker detected"},
		{entity.ErrDegenerateMarker, http.StatusBadRequest, "Aruco marker has zero side length"},
		{app.ErrNoObjects, http.StatusBadRequest, "No objects detected"},
		{app.ErrNoCenteredObject, http.StatusBadRequest, "No objects close to center detected"},
		{errors.New("gocv build tag is not enabled"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.msg, func(t *testing.T) {
			rec := postImage(t, newTestRouter(&fakeMeasurer{err: tc.err}), "file", "photo.png", []byte("x"))
			require.Equal(t, tc.status, rec.Code)
			require.Equal(t, tc.msg, decodeError(t, rec))
		})
	}
}

func TestProcessImage_MethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/process_image", nil)
	rec := httptest.NewRecorder()

	newTestRouter(&fakeMeasurer{}).ServeHTTP(rec, req)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCORS_AnyOrigin(t *testing.T) {
	handler := newTestRouter(&fakeMeasurer{})

	req := httptest.NewRequest(http.MethodOptions, "/process_image", nil)
	req.Header.Set("Origin", "https://example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Less(t, rec.Code, 300)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = postImage(t, handler, "other", "a.jpg", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthAndRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc")
	rec := httptest.NewRecorder()

	newTestRouter(&fakeMeasurer{}).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	require.Equal(t, "abc", rec.Header().Get("X-Request-ID"))
}
