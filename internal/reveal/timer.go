package reveal

import (
	"sync"
	"time"
)

// Scheduler 可取消的单槽定时器
// 每次调度使上一代失效，组件销毁后到期的定时器不会再触发回调。
type Scheduler struct {
	mu    sync.Mutex
	gen   uint64
	timer *time.Timer
}

// NewScheduler 创建定时器
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Schedule 延迟执行回调，替换尚未触发的上一次调度
func (s *Scheduler) Schedule(delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	gen := s.gen
	if s.timer != nil {
		s.timer.Stop()
	}
	if delay <= 0 {
		delay = time.Nanosecond
	}
	s.timer = time.AfterFunc(delay, func() {
		if !s.alive(gen) {
			return
		}
		fn()
	})
}

// Cancel 取消未触发的调度
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Scheduler) alive(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen == s.gen
}
