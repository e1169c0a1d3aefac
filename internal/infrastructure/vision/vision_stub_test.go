//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ImaGaf/ArucoReader/internal/domain/entity"
)

func TestStubsReportMissingBuildTag(t *testing.T) {
	ctx := context.Background()

	markers, err := NewArucoDetector(entity.DefaultMarker, zap.NewNop())
	require.NoError(t, err)
	defer markers.Close()

	_, err = markers.DetectMarkers(ctx, image.NewRGBA(image.Rect(0, 0, 4, 4)))
	require.ErrorIs(t, err, ErrVisionUnavailable)

	_, err = NewContourFinder().FindExternalContours(ctx, image.NewGray(image.Rect(0, 0, 4, 4)))
	require.ErrorIs(t, err, ErrVisionUnavailable)
}
