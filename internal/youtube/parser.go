// internal/youtube/parser.go
package youtube

import (
	"regexp"
)

// 按顺序尝试的链接形式：标准watch页、短链、嵌入页，最后是
// 参数顺序被打乱的watch页。ID在遇到 & ? # 或换行时截断。
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([^&\n?#]+)`),
	regexp.MustCompile(`youtube\.com/watch\?.*v=([^&\n?#]+)`),
}

// ExtractVideoID 从任意形式的链接中提取视频ID。
// 无法识别时返回空字符串，空串是预期内的结果而不是错误。
func ExtractVideoID(url string) string {
	for _, pattern := range videoIDPatterns {
		if m := pattern.FindStringSubmatch(url); len(m) >= 2 {
			return m[1]
		}
	}
	return ""
}
