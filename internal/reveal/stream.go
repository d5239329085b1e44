package reveal

import (
	"sync"
	"time"
)

// Streamer 逐条定时揭示器
// MessageReveal 与 Conversation 共用：每条内容在上一条之后固定间隔出现，
// 全部出现是推进的必要条件，但仍需用户确认（必要而不充分）。
type Streamer struct {
	mu       sync.Mutex
	lines    []string
	shown    int
	interval time.Duration
	sched    *Scheduler
	onLine   func(index int, line string)
	onDone   func()
	done     bool
	started  bool
}

// NewStreamer 创建揭示器
func NewStreamer(lines []string, interval time.Duration, onLine func(int, string), onDone func()) *Streamer {
	return &Streamer{
		lines:    lines,
		interval: interval,
		sched:    NewScheduler(),
		onLine:   onLine,
		onDone:   onDone,
	}
}

// Start 开始流式揭示，内容为空时立即完成
func (s *Streamer) Start() {
	s.mu.Lock()
	if s.started || s.done {
		s.mu.Unlock()
		return
	}
	s.started = true
	if len(s.lines) == 0 {
		s.done = true
		done := s.onDone
		s.mu.Unlock()
		if done != nil {
			done()
		}
		return
	}
	s.mu.Unlock()
	s.sched.Schedule(s.interval, s.step)
}

func (s *Streamer) step() {
	s.mu.Lock()
	if s.done || s.shown >= len(s.lines) {
		s.mu.Unlock()
		return
	}
	index := s.shown
	line := s.lines[index]
	s.shown++
	finished := s.shown >= len(s.lines)
	if finished {
		s.done = true
	}
	onLine := s.onLine
	onDone := s.onDone
	s.mu.Unlock()

	if onLine != nil {
		onLine(index, line)
	}
	if finished {
		if onDone != nil {
			onDone()
		}
		return
	}
	s.sched.Schedule(s.interval, s.step)
}

// Cancel 停止揭示，未出现的内容不再出现
func (s *Streamer) Cancel() {
	s.sched.Cancel()
}

// Done 是否全部内容已出现
func (s *Streamer) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Shown 已出现的内容条数
func (s *Streamer) Shown() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shown
}

// CompleteAll 直接标记全部内容已出现（回退重入时不重放流式效果）
func (s *Streamer) CompleteAll() {
	s.sched.Cancel()
	s.mu.Lock()
	s.shown = len(s.lines)
	s.done = true
	s.started = true
	s.mu.Unlock()
}
