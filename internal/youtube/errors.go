// internal/youtube/errors.go
package youtube

import "fmt"

// ErrVideoUnavailable 视频不存在或无法访问
type ErrVideoUnavailable struct {
	VideoID string
}

func (e *ErrVideoUnavailable) Error() string {
	return fmt.Sprintf("video %s is unavailable", e.VideoID)
}

// ErrNoTranscriptFound 视频存在但没有任何字幕轨道
type ErrNoTranscriptFound struct {
	VideoID string
}

func (e *ErrNoTranscriptFound) Error() string {
	return fmt.Sprintf("no transcript found for video %s", e.VideoID)
}

// ErrTranscriptsDisabled 视频关闭了字幕功能
type ErrTranscriptsDisabled struct {
	VideoID string
}

func (e *ErrTranscriptsDisabled) Error() string {
	return fmt.Sprintf("transcripts are disabled for video %s", e.VideoID)
}
