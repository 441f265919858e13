// internal/youtube/client_test.go
package youtube

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Corphon/TubeScribe/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFakeYouTube 启动一个模拟watch页面与timedtext接口的服务器
func newFakeYouTube(t *testing.T, timedtextXML string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	var server *httptest.Server

	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		page := fmt.Sprintf(`<html><script>var ytInitialPlayerResponse = {"playabilityStatus":{"status":"OK"},"captions":{"playerCaptionsTracklistRenderer":{"captionTracks":[{"baseUrl":"%s/timedtext?lang=de","languageCode":"de"},{"baseUrl":"%s/timedtext?lang=en","languageCode":"en","kind":"asr"}]}},"videoDetails":{}};</script></html>`,
			server.URL, server.URL)
		fmt.Fprint(w, page)
	})

	mux.HandleFunc("/timedtext", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml")
		fmt.Fprint(w, timedtextXML)
	})

	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestGetTranscript(t *testing.T) {
	xmlBody := `<?xml version="1.0" encoding="utf-8"?>
<transcript>
  <text start="0.5" dur="2.1">Hello world</text>
  <text start="2.6" dur="1.4">this is &amp;quot;quoted&amp;quot;</text>
  <text start="4.0" dur="3.0">the end.</text>
</transcript>`

	server := newFakeYouTube(t, xmlBody)
	client := NewClient(WithBaseURL(server.URL), WithHTTPClient(server.Client()))

	segments, err := client.GetTranscript(context.Background(), "abc123")
	require.NoError(t, err)
	require.Len(t, segments, 3)

	// 片段顺序与时间轴保持一致
	assert.Equal(t, "Hello world", segments[0].Text)
	assert.Equal(t, 0.5, segments[0].Start)
	assert.Equal(t, 2.1, segments[0].Duration)

	// HTML实体被还原
	assert.Equal(t, `this is "quoted"`, segments[1].Text)
	assert.Equal(t, "the end.", segments[2].Text)
}

func TestGetTranscriptPrefersEnglishTrack(t *testing.T) {
	xmlBody := `<transcript><text start="0" dur="1">english track</text></transcript>`

	mux := http.NewServeMux()
	var server *httptest.Server
	var requestedLang string

	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		page := fmt.Sprintf(`{"playabilityStatus":{"status":"OK"},"captions":{"playerCaptionsTracklistRenderer":{"captionTracks":[{"baseUrl":"%s/timedtext?lang=fr","languageCode":"fr"},{"baseUrl":"%s/timedtext?lang=en-US","languageCode":"en-US"}]}}}`,
			server.URL, server.URL)
		fmt.Fprint(w, page)
	})
	mux.HandleFunc("/timedtext", func(w http.ResponseWriter, r *http.Request) {
		requestedLang = r.URL.Query().Get("lang")
		fmt.Fprint(w, xmlBody)
	})

	server = httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithHTTPClient(server.Client()))
	_, err := client.GetTranscript(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "en-US", requestedLang)
}

func TestGetTranscriptNoCaptions(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		// 页面存在但没有captions字段
		fmt.Fprint(w, `{"playabilityStatus":{"status":"OK"},"videoDetails":{}}`)
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithHTTPClient(server.Client()))
	_, err := client.GetTranscript(context.Background(), "abc123")

	var disabledErr *ErrTranscriptsDisabled
	require.ErrorAs(t, err, &disabledErr)
	assert.Equal(t, "abc123", disabledErr.VideoID)
}

func TestGetTranscriptVideoUnavailable(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithHTTPClient(server.Client()))
	_, err := client.GetTranscript(context.Background(), "missing")

	var unavailableErr *ErrVideoUnavailable
	require.ErrorAs(t, err, &unavailableErr)
}

func TestGetTranscriptEmptyVideoID(t *testing.T) {
	client := NewClient()
	_, err := client.GetTranscript(context.Background(), "  ")

	var unavailableErr *ErrVideoUnavailable
	require.ErrorAs(t, err, &unavailableErr)
}

func TestConcatenateSegments(t *testing.T) {
	segments := []models.TranscriptSegment{
		{Text: "first", Start: 0, Duration: 1},
		{Text: "second", Start: 1, Duration: 1},
		{Text: "third", Start: 2, Duration: 1},
	}

	// 片段之间恰好一个空格，顺序保持不变
	assert.Equal(t, "first second third", ConcatenateSegments(segments))
	assert.Equal(t, "", ConcatenateSegments(nil))
	assert.Equal(t, "only", ConcatenateSegments(segments[:1]))
}
