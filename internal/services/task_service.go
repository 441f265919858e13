// internal/services/task_service.go
package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/Corphon/TubeScribe/internal/models"
)

// 任务状态
const (
	TaskStatusRunning   = "running"
	TaskStatusCompleted = "completed"
	TaskStatusFailed    = "failed"
)

// ProgressUpdate 表示进度更新
type ProgressUpdate struct {
	Progress int    `json:"progress"` // 进度百分比 (0-100)
	Message  string `json:"message"`  // 描述性消息
	Status   string `json:"status"`   // running / completed / failed
}

// TaskTracker 跟踪一次异步流水线的进度
type TaskTracker struct {
	TaskID     string
	Progress   int
	Message    string
	Status     string
	StartTime  time.Time
	UpdateTime time.Time
	Result     *models.ProcessResponse // 完成后填充

	subscribers map[chan ProgressUpdate]bool
	done        chan struct{}
	mutex       sync.Mutex
}

// TaskService 管理所有进度跟踪器。
// 跟踪器只存在于内存中，结束后保留一段时间供查询，之后清除。
type TaskService struct {
	trackers  map[string]*TaskTracker
	mutex     sync.RWMutex
	retention time.Duration
}

// NewTaskService 创建任务服务并启动过期清理
func NewTaskService(retention time.Duration) *TaskService {
	s := &TaskService{
		trackers:  make(map[string]*TaskTracker),
		retention: retention,
	}

	go s.sweep()
	return s
}

// CreateTracker 创建新的进度跟踪器
func (s *TaskService) CreateTracker() *TaskTracker {
	tracker := &TaskTracker{
		TaskID:      generateTaskID(),
		Progress:    0,
		Message:     "Task created",
		Status:      TaskStatusRunning,
		StartTime:   time.Now(),
		UpdateTime:  time.Now(),
		subscribers: make(map[chan ProgressUpdate]bool),
		done:        make(chan struct{}),
	}

	s.mutex.Lock()
	s.trackers[tracker.TaskID] = tracker
	s.mutex.Unlock()

	return tracker
}

// GetTracker 获取进度跟踪器
func (s *TaskService) GetTracker(taskID string) (*TaskTracker, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	tracker, exists := s.trackers[taskID]
	return tracker, exists
}

// sweep 周期性清除超过保留时长的已结束任务
func (s *TaskService) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-s.retention)

		s.mutex.Lock()
		for id, tracker := range s.trackers {
			tracker.mutex.Lock()
			expired := tracker.Status != TaskStatusRunning && tracker.UpdateTime.Before(cutoff)
			tracker.mutex.Unlock()

			if expired {
				delete(s.trackers, id)
			}
		}
		s.mutex.Unlock()
	}
}

// UpdateProgress 更新任务进度并通知所有订阅者
func (t *TaskTracker) UpdateProgress(progress int, message string) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.Status != TaskStatusRunning {
		return
	}

	if progress > t.Progress {
		t.Progress = progress
	}
	if message != "" {
		t.Message = message
	}
	t.UpdateTime = time.Now()

	t.notifyLocked()
}

// Complete 标记任务成功并携带完整结果
func (t *TaskTracker) Complete(result *models.ProcessResponse) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.Status != TaskStatusRunning {
		return
	}

	t.Progress = 100
	t.Status = TaskStatusCompleted
	t.Message = "Complete processing successful"
	t.Result = result
	t.UpdateTime = time.Now()

	t.notifyLocked()
	close(t.done)
}

// Fail 标记任务失败
func (t *TaskTracker) Fail(message string) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.Status != TaskStatusRunning {
		return
	}

	t.Status = TaskStatusFailed
	t.Message = message
	t.UpdateTime = time.Now()

	t.notifyLocked()
	close(t.done)
}

// Subscribe 订阅进度更新；返回的通道在任务结束后不再收到消息
func (t *TaskTracker) Subscribe() chan ProgressUpdate {
	ch := make(chan ProgressUpdate, 16)

	t.mutex.Lock()
	t.subscribers[ch] = true
	t.mutex.Unlock()

	return ch
}

// Unsubscribe 取消订阅
func (t *TaskTracker) Unsubscribe(ch chan ProgressUpdate) {
	t.mutex.Lock()
	delete(t.subscribers, ch)
	t.mutex.Unlock()
}

// Done 返回任务完成信号
func (t *TaskTracker) Done() <-chan struct{} {
	return t.done
}

// Snapshot 返回当前状态的响应结构
func (t *TaskTracker) Snapshot() models.TaskStatusResponse {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	return models.TaskStatusResponse{
		TaskID:   t.TaskID,
		Status:   t.Status,
		Progress: t.Progress,
		Message:  t.Message,
		Result:   t.Result,
	}
}

// notifyLocked 向所有订阅者非阻塞发送当前进度，调用方必须持有锁
func (t *TaskTracker) notifyLocked() {
	update := ProgressUpdate{
		Progress: t.Progress,
		Message:  t.Message,
		Status:   t.Status,
	}

	for subscriber := range t.subscribers {
		// 非阻塞发送，通道已满则跳过本次更新
		select {
		case subscriber <- update:
		default:
		}
	}
}

// generateTaskID 生成任务唯一标识
func generateTaskID() string {
	buf := make([]byte, 4)
	rand.Read(buf)
	return fmt.Sprintf("task_%d_%s", time.Now().UnixNano(), hex.EncodeToString(buf))
}
