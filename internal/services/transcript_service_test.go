// internal/services/transcript_service_test.go
package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/Corphon/TubeScribe/internal/errors"
	"github.com/Corphon/TubeScribe/internal/youtube"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTranscriptServer 模拟watch页面与timedtext接口
func newTranscriptServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	var server *httptest.Server

	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"playabilityStatus":{"status":"OK"},"captions":{"playerCaptionsTracklistRenderer":{"captionTracks":[{"baseUrl":"%s/timedtext","languageCode":"en"}]}}}`, server.URL)
	})
	mux.HandleFunc("/timedtext", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<transcript><text start="0" dur="1">hello</text><text start="1" dur="1">world</text></transcript>`)
	})

	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestExtractTranscript(t *testing.T) {
	server := newTranscriptServer(t)
	client := youtube.NewClient(youtube.WithBaseURL(server.URL), youtube.WithHTTPClient(server.Client()))
	service := NewTranscriptService(client)

	transcript, videoID, err := service.ExtractTranscript(context.Background(), "https://youtu.be/abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", videoID)
	assert.Equal(t, "hello world", transcript)
}

func TestExtractTranscriptInvalidURL(t *testing.T) {
	service := NewTranscriptService(youtube.NewClient())

	_, _, err := service.ExtractTranscript(context.Background(), "not a url")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))
	assert.Equal(t, "Invalid YouTube URL", err.(*apperrors.AppError).Message)
}

func TestExtractTranscriptUpstreamFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := youtube.NewClient(youtube.WithBaseURL(server.URL), youtube.WithHTTPClient(server.Client()))
	service := NewTranscriptService(client)

	_, _, err := service.ExtractTranscript(context.Background(), "https://youtu.be/abc123")
	require.Error(t, err)
	assert.True(t, apperrors.IsUpstreamError(err))
	assert.False(t, apperrors.IsValidationError(err))
}
