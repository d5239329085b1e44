package reveal

import (
	"errors"
	"sync"
	"time"

	"github.com/liwu-next/internal/models"
)

// 状态机事件错误
var (
	ErrTornDown        = errors.New("reveal machine torn down")
	ErrInvalidEvent    = errors.New("event not valid in current stage")
	ErrStageIncomplete = errors.New("stage content not fully revealed")
	ErrStageNotInPlan  = errors.New("stage not in plan")
	ErrJumpNotAllowed  = errors.New("jump not allowed")
	ErrUnlockRequired  = errors.New("unlock required")
	ErrAlreadyFinished = errors.New("reveal already finished")
)

const (
	defaultLineInterval = 900 * time.Millisecond
	defaultStageDelay   = 2800 * time.Millisecond
)

// Options 状态机配置
type Options struct {
	Config models.GiftConfig
	// Locked 为真时序列以 Unlock 阶段开始
	Locked bool
	// LineInterval 流式揭示的行间隔
	LineInterval time.Duration
	// StageDelay 定时阶段的自动推进延迟
	StageDelay time.Duration

	// 以下回调均可为 nil，一律在不持有状态机锁时调用
	OnStage      func(stage Stage, firstVisit bool)
	OnLine       func(stage Stage, index int, line string)
	OnStreamDone func(stage Stage)
	OnDeclined   func(count int)
	OnFinished   func()
}

// Machine 接收端揭示状态机
// 单线程协作式：事件（用户输入、定时器、动画完成）逐个驱动，
// 任意时刻只有一个阶段处于活动状态。
type Machine struct {
	mu   sync.Mutex
	opts Options
	plan []Stage
	idx  int

	// maxIdx 已到达过的最远阶段下标，章节跳转以此为上界
	maxIdx    int
	visited   map[Stage]bool
	completed map[Stage]bool
	streams   map[Stage]*Streamer
	sched     *Scheduler
	unlocked  bool
	declines  int
	finished  bool
	torn      bool
}

// NewMachine 创建状态机并进入首阶段
func NewMachine(opts Options) *Machine {
	if opts.LineInterval <= 0 {
		opts.LineInterval = defaultLineInterval
	}
	if opts.StageDelay <= 0 {
		opts.StageDelay = defaultStageDelay
	}
	m := &Machine{
		opts:      opts,
		plan:      Plan(opts.Config, opts.Locked),
		visited:   make(map[Stage]bool),
		completed: make(map[Stage]bool),
		streams:   make(map[Stage]*Streamer),
		sched:     NewScheduler(),
	}

	m.mu.Lock()
	notes := m.enterLocked(0)
	m.mu.Unlock()
	fire(notes)
	return m
}

// Current 当前阶段
func (m *Machine) Current() Stage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.plan[m.idx]
}

// Plan 阶段序列副本
func (m *Machine) Plan() []Stage {
	m.mu.Lock()
	defer m.mu.Unlock()
	plan := make([]Stage, len(m.plan))
	copy(plan, m.plan)
	return plan
}

// Unlocked 是否已通过解锁
func (m *Machine) Unlocked() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unlocked || !m.opts.Locked
}

// DeclineCount 告白阶段被拒绝的次数（仅会话内存，不持久化）
func (m *Machine) DeclineCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.declines
}

// StreamDone 流式阶段内容是否已全部出现
func (m *Machine) StreamDone(stage Stage) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.completed[stage]
}

// Finished 是否已从终态退出
func (m *Machine) Finished() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.finished
}

// Unlock 解锁成功事件（答案校验由锁服务完成，这里只接收结果）
func (m *Machine) Unlock() error {
	m.mu.Lock()
	if err := m.eventAllowed(); err != nil {
		m.mu.Unlock()
		return err
	}
	if m.plan[m.idx] != StageUnlock {
		m.mu.Unlock()
		return ErrInvalidEvent
	}
	m.unlocked = true
	m.completed[StageUnlock] = true
	notes := m.advanceLocked()
	m.mu.Unlock()
	fire(notes)
	return nil
}

// Confirm 用户确认推进
func (m *Machine) Confirm() error {
	m.mu.Lock()
	if err := m.eventAllowed(); err != nil {
		m.mu.Unlock()
		return err
	}
	stage := m.plan[m.idx]
	switch ModeOf(stage) {
	case AdvanceConfirm:
		if stage == StageUnlock {
			m.mu.Unlock()
			return ErrInvalidEvent
		}
	case AdvanceStream, AdvanceTimedConfirm:
		// 内容全部出现是必要条件，确认才是充分条件
		if !m.completed[stage] {
			m.mu.Unlock()
			return ErrStageIncomplete
		}
	case AdvanceTimed, AdvanceAnimation:
		// 仅回退重入后允许手动离开，首次进入由定时/动画驱动
		if !m.completed[stage] {
			m.mu.Unlock()
			return ErrInvalidEvent
		}
	default:
		m.mu.Unlock()
		return ErrInvalidEvent
	}
	notes := m.advanceLocked()
	m.mu.Unlock()
	fire(notes)
	return nil
}

// AnimationComplete 动画完成回调
func (m *Machine) AnimationComplete() error {
	m.mu.Lock()
	if err := m.eventAllowed(); err != nil {
		m.mu.Unlock()
		return err
	}
	stage := m.plan[m.idx]
	if ModeOf(stage) != AdvanceAnimation {
		m.mu.Unlock()
		return ErrInvalidEvent
	}
	m.completed[stage] = true
	notes := m.advanceLocked()
	m.mu.Unlock()
	fire(notes)
	return nil
}

// Accept 接受告白，向前推进
func (m *Machine) Accept() error {
	m.mu.Lock()
	if err := m.eventAllowed(); err != nil {
		m.mu.Unlock()
		return err
	}
	if m.plan[m.idx] != StageProposal {
		m.mu.Unlock()
		return ErrInvalidEvent
	}
	m.completed[StageProposal] = true
	notes := m.advanceLocked()
	m.mu.Unlock()
	fire(notes)
	return nil
}

// Decline 拒绝告白，原地重入同一阶段（软拒绝，不是死路）
func (m *Machine) Decline() error {
	m.mu.Lock()
	if err := m.eventAllowed(); err != nil {
		m.mu.Unlock()
		return err
	}
	if m.plan[m.idx] != StageProposal {
		m.mu.Unlock()
		return ErrInvalidEvent
	}
	m.declines++
	count := m.declines
	notes := []func(){}
	if m.opts.OnDeclined != nil {
		cb := m.opts.OnDeclined
		notes = append(notes, func() { cb(count) })
	}
	if m.opts.OnStage != nil {
		cb := m.opts.OnStage
		notes = append(notes, func() { cb(StageProposal, false) })
	}
	m.mu.Unlock()
	fire(notes)
	return nil
}

// Back 回到上一阶段，重入不重放一次性副作用
func (m *Machine) Back() error {
	m.mu.Lock()
	if err := m.eventAllowed(); err != nil {
		m.mu.Unlock()
		return err
	}
	if m.idx == 0 {
		m.mu.Unlock()
		return ErrJumpNotAllowed
	}
	target := m.idx - 1
	if m.plan[target] == StageUnlock && m.unlocked {
		m.mu.Unlock()
		return ErrJumpNotAllowed
	}
	m.sched.Cancel()
	m.idx = target
	notes := m.enterLocked(target)
	m.mu.Unlock()
	fire(notes)
	return nil
}

// JumpTo 章节跳转，按同样的门禁规则重新校验
// 只能跳到曾经到达过的阶段，未解锁时不可越过 Unlock。
func (m *Machine) JumpTo(stage Stage) error {
	m.mu.Lock()
	if err := m.eventAllowed(); err != nil {
		m.mu.Unlock()
		return err
	}
	target := -1
	for i, s := range m.plan {
		if s == stage {
			target = i
			break
		}
	}
	if target < 0 {
		m.mu.Unlock()
		return ErrStageNotInPlan
	}
	if m.opts.Locked && !m.unlocked && stage != StageUnlock {
		m.mu.Unlock()
		return ErrUnlockRequired
	}
	if stage == StageUnlock && m.unlocked {
		m.mu.Unlock()
		return ErrJumpNotAllowed
	}
	if target > m.maxIdx {
		m.mu.Unlock()
		return ErrJumpNotAllowed
	}
	m.sched.Cancel()
	m.idx = target
	notes := m.enterLocked(target)
	m.mu.Unlock()
	fire(notes)
	return nil
}

// Exit 从终态退出
func (m *Machine) Exit() error {
	m.mu.Lock()
	if err := m.eventAllowed(); err != nil {
		m.mu.Unlock()
		return err
	}
	if m.plan[m.idx] != StageCelebration {
		m.mu.Unlock()
		return ErrInvalidEvent
	}
	m.finished = true
	m.teardownLocked()
	var notes []func()
	if m.opts.OnFinished != nil {
		cb := m.opts.OnFinished
		notes = append(notes, cb)
	}
	m.mu.Unlock()
	fire(notes)
	return nil
}

// Teardown 销毁状态机，取消所有未触发的定时推进
func (m *Machine) Teardown() {
	m.mu.Lock()
	m.teardownLocked()
	m.torn = true
	m.mu.Unlock()
}

func (m *Machine) teardownLocked() {
	m.sched.Cancel()
	for _, stream := range m.streams {
		stream.Cancel()
	}
}

func (m *Machine) eventAllowed() error {
	if m.torn {
		return ErrTornDown
	}
	if m.finished {
		return ErrAlreadyFinished
	}
	return nil
}

func (m *Machine) advanceLocked() []func() {
	m.sched.Cancel()
	if m.idx+1 >= len(m.plan) {
		return nil
	}
	m.idx++
	return m.enterLocked(m.idx)
}

// enterLocked 进入阶段并按推进方式布置副作用，返回待触发的回调
func (m *Machine) enterLocked(idx int) []func() {
	stage := m.plan[idx]
	firstVisit := !m.visited[stage]
	m.visited[stage] = true
	if idx > m.maxIdx {
		m.maxIdx = idx
	}

	var notes []func()
	if m.opts.OnStage != nil {
		cb := m.opts.OnStage
		notes = append(notes, func() { cb(stage, firstVisit) })
	}

	switch ModeOf(stage) {
	case AdvanceTimed:
		if firstVisit && !m.completed[stage] {
			m.sched.Schedule(m.opts.StageDelay, func() { m.timerFired(stage) })
		}
	case AdvanceTimedConfirm:
		if !m.completed[stage] {
			m.sched.Schedule(m.opts.StageDelay, func() { m.timerFired(stage) })
		}
	case AdvanceStream:
		stream := m.streams[stage]
		if stream == nil {
			stream = m.newStream(stage)
			m.streams[stage] = stream
		}
		if firstVisit {
			notes = append(notes, stream.Start)
		} else {
			// 回退重入：内容一次性出齐，不重放流式效果
			stream.CompleteAll()
			m.completed[stage] = true
		}
	}
	return notes
}

// timerFired 定时推进回调，阶段已切换或机器销毁时静默丢弃
func (m *Machine) timerFired(stage Stage) {
	m.mu.Lock()
	if m.torn || m.finished || m.plan[m.idx] != stage {
		m.mu.Unlock()
		return
	}
	m.completed[stage] = true
	var notes []func()
	if ModeOf(stage) == AdvanceTimed {
		notes = m.advanceLocked()
	} else if m.opts.OnStreamDone != nil {
		cb := m.opts.OnStreamDone
		notes = append(notes, func() { cb(stage) })
	}
	m.mu.Unlock()
	fire(notes)
}

func (m *Machine) newStream(stage Stage) *Streamer {
	lines := streamLines(stage, m.opts.Config)
	onLine := func(index int, line string) {
		m.mu.Lock()
		stale := m.torn || m.finished
		m.mu.Unlock()
		if stale {
			return
		}
		if m.opts.OnLine != nil {
			m.opts.OnLine(stage, index, line)
		}
	}
	onDone := func() {
		m.mu.Lock()
		if m.torn || m.finished {
			m.mu.Unlock()
			return
		}
		m.completed[stage] = true
		m.mu.Unlock()
		if m.opts.OnStreamDone != nil {
			m.opts.OnStreamDone(stage)
		}
	}
	return NewStreamer(lines, m.opts.LineInterval, onLine, onDone)
}

func fire(notes []func()) {
	for _, note := range notes {
		note()
	}
}
