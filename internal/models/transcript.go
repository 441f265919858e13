// internal/models/transcript.go
package models

// TranscriptSegment 单条字幕片段，保持字幕服务返回的原始顺序
type TranscriptSegment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}
