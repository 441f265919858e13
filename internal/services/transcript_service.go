// internal/services/transcript_service.go
package services

import (
	"context"

	apperrors "github.com/Corphon/TubeScribe/internal/errors"
	"github.com/Corphon/TubeScribe/internal/utils"
	"github.com/Corphon/TubeScribe/internal/youtube"
)

// TranscriptService 封装URL解析与字幕抓取
type TranscriptService struct {
	client *youtube.Client
	logger *utils.Logger
}

// NewTranscriptService 创建字幕服务
func NewTranscriptService(client *youtube.Client) *TranscriptService {
	return &TranscriptService{
		client: client,
		logger: utils.GetLogger(),
	}
}

// ExtractTranscript 从视频链接解析ID并抓取完整字幕文本。
// 链接无法识别时返回验证错误；字幕服务的各种失败
// （视频不存在、字幕关闭、网络错误）统一作为上游错误返回。
func (s *TranscriptService) ExtractTranscript(ctx context.Context, videoURL string) (transcript, videoID string, err error) {
	videoID = youtube.ExtractVideoID(videoURL)
	if videoID == "" {
		return "", "", apperrors.NewValidationError("Invalid YouTube URL", nil)
	}

	segments, err := s.client.GetTranscript(ctx, videoID)
	if err != nil {
		s.logger.Error("字幕抓取失败", map[string]interface{}{
			"video_id": videoID,
			"error":    err.Error(),
		})
		return "", "", apperrors.NewUpstreamError(err.Error(), err)
	}

	transcript = youtube.ConcatenateSegments(segments)
	s.logger.Info("字幕抓取成功", map[string]interface{}{
		"video_id": videoID,
		"segments": len(segments),
		"length":   len(transcript),
	})

	return transcript, videoID, nil
}
