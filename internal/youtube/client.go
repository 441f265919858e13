// internal/youtube/client.go
package youtube

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"

	"github.com/Corphon/TubeScribe/internal/models"
)

const defaultWatchBaseURL = "https://www.youtube.com"

// Client 字幕服务客户端。
// 通过抓取watch页面提取captionTracks，再下载timedtext XML。
type Client struct {
	httpClient   *http.Client
	watchBaseURL string
}

// captionTrack 描述一条可用的字幕轨道
type captionTrack struct {
	BaseURL      string
	LanguageCode string
	IsGenerated  bool
}

// ClientOption 客户端配置函数
type ClientOption func(*Client)

// WithHTTPClient 替换底层HTTP客户端
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL 替换watch页面基础地址（测试用）
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.watchBaseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// NewClient 创建字幕服务客户端
func NewClient(options ...ClientOption) *Client {
	c := &Client{
		httpClient:   &http.Client{},
		watchBaseURL: defaultWatchBaseURL,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// GetTranscript 获取指定视频的字幕片段，优先选择英文轨道
func (c *Client) GetTranscript(ctx context.Context, videoID string) ([]models.TranscriptSegment, error) {
	if strings.TrimSpace(videoID) == "" {
		return nil, &ErrVideoUnavailable{VideoID: videoID}
	}

	videoInfo, err := c.fetchVideoInfo(ctx, videoID)
	if err != nil {
		return nil, err
	}

	tracks, err := extractCaptionTracks(videoInfo, videoID)
	if err != nil {
		return nil, err
	}

	if len(tracks) == 0 {
		return nil, &ErrNoTranscriptFound{VideoID: videoID}
	}

	// 优先英文轨道（en、en-US、en-GB等），否则退回第一条
	selected := tracks[0]
	for _, t := range tracks {
		if strings.HasPrefix(t.LanguageCode, "en") {
			selected = t
			break
		}
	}

	return c.fetchTrack(ctx, selected)
}

// GetTranscriptText 获取字幕并拼接为单个文本
func (c *Client) GetTranscriptText(ctx context.Context, videoID string) (string, error) {
	segments, err := c.GetTranscript(ctx, videoID)
	if err != nil {
		return "", err
	}
	return ConcatenateSegments(segments), nil
}

// ConcatenateSegments 按原始顺序拼接字幕片段，片段之间恰好一个空格
func ConcatenateSegments(segments []models.TranscriptSegment) string {
	var builder strings.Builder
	for i, segment := range segments {
		if i > 0 {
			builder.WriteString(" ")
		}
		builder.WriteString(segment.Text)
	}
	return builder.String()
}

// fetchVideoInfo 抓取watch页面原始HTML
func (c *Client) fetchVideoInfo(ctx context.Context, videoID string) (string, error) {
	videoURL := fmt.Sprintf("%s/watch?v=%s", c.watchBaseURL, videoID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, videoURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &ErrVideoUnavailable{VideoID: videoID}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &ErrVideoUnavailable{VideoID: videoID}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// extractCaptionTracks 从页面HTML中定位 "captions": 后的JSON对象并解析轨道列表
func extractCaptionTracks(videoInfo, videoID string) ([]captionTrack, error) {
	startMarker := `"captions":`
	startIndex := strings.Index(videoInfo, startMarker)
	if startIndex == -1 {
		// 页面存在但没有captions字段，说明该视频关闭了字幕
		if strings.Contains(videoInfo, `"playabilityStatus":`) {
			return nil, &ErrTranscriptsDisabled{VideoID: videoID}
		}
		return nil, &ErrVideoUnavailable{VideoID: videoID}
	}

	jsonStart := strings.Index(videoInfo[startIndex:], "{")
	if jsonStart == -1 {
		return nil, fmt.Errorf("could not find the start of captions JSON")
	}
	jsonStart += startIndex

	// 括号配对找到JSON对象的结束位置
	braceCount := 1
	jsonEnd := -1
	for i := jsonStart + 1; i < len(videoInfo); i++ {
		switch videoInfo[i] {
		case '{':
			braceCount++
		case '}':
			braceCount--
			if braceCount == 0 {
				jsonEnd = i + 1
			}
		}
		if jsonEnd != -1 {
			break
		}
	}

	if jsonEnd == -1 {
		return nil, fmt.Errorf("could not find the end of captions JSON")
	}

	var captionsData struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []struct {
				BaseURL      string `json:"baseUrl"`
				LanguageCode string `json:"languageCode"`
				Kind         string `json:"kind"`
			} `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	}

	if err := json.Unmarshal([]byte(videoInfo[jsonStart:jsonEnd]), &captionsData); err != nil {
		return nil, fmt.Errorf("error parsing captions JSON: %w", err)
	}

	rawTracks := captionsData.PlayerCaptionsTracklistRenderer.CaptionTracks
	tracks := make([]captionTrack, 0, len(rawTracks))
	for _, track := range rawTracks {
		if track.BaseURL == "" {
			continue
		}
		tracks = append(tracks, captionTrack{
			BaseURL:      track.BaseURL,
			LanguageCode: track.LanguageCode,
			IsGenerated:  track.Kind == "asr",
		})
	}

	return tracks, nil
}

// fetchTrack 下载并解析timedtext XML
func (c *Client) fetchTrack(ctx context.Context, track captionTrack) ([]models.TranscriptSegment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, track.BaseURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var transcriptResp struct {
		XMLName xml.Name `xml:"transcript"`
		Texts   []struct {
			Start float64 `xml:"start,attr"`
			Dur   float64 `xml:"dur,attr"`
			Text  string  `xml:",chardata"`
		} `xml:"text"`
	}

	if err := xml.NewDecoder(resp.Body).Decode(&transcriptResp); err != nil {
		return nil, err
	}

	segments := make([]models.TranscriptSegment, 0, len(transcriptResp.Texts))
	for _, text := range transcriptResp.Texts {
		segments = append(segments, models.TranscriptSegment{
			Text:     html.UnescapeString(text.Text),
			Start:    text.Start,
			Duration: text.Dur,
		})
	}

	return segments, nil
}
