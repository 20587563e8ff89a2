package viewstate

import (
	"sync"
	"time"
)

// Clock 抽象计时器来源，测试用假时钟推进而不是真实等待
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer 可取消的延时任务
type Timer interface {
	Stop() bool
}

// systemClock 生产环境时钟
type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock 返回基于真实时间的时钟
func SystemClock() Clock {
	return systemClock{}
}

// Debouncer 搜索输入防抖状态机
//
// 两个状态：空闲、等待提交。击键立即更新待提交文本（输入框保持响应），
// 同时重启防抖计时器；计时器触发或显式提交时，若待提交文本与已提交
// 搜索词不同则调用提交回调（回调负责写位置描述符并把页码重置为第一页）。
// 外部位置变化（如前进/后退导航）以位置描述符为准，覆盖本地待提交文本。
// 每个搜索框至多一个挂起的计时器，新击键取消并重启旧计时器。
type Debouncer struct {
	mu        sync.Mutex
	clock     Clock
	interval  time.Duration
	commit    func(search string)
	committed string
	pending   string
	timer     Timer
}

// NewDebouncer 创建防抖器
// commit在持锁外调用，负责把新搜索词写入位置描述符
func NewDebouncer(clock Clock, interval time.Duration, commit func(search string)) *Debouncer {
	return &Debouncer{
		clock:    clock,
		interval: interval,
		commit:   commit,
	}
}

// Keystroke 处理一次击键：更新待提交文本并重启计时器
func (d *Debouncer) Keystroke(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = text
	d.restartTimerLocked()
}

// Submit 显式提交（如按下回车），跳过剩余等待
func (d *Debouncer) Submit() {
	d.mu.Lock()
	d.stopTimerLocked()
	text, changed := d.commitPendingLocked()
	d.mu.Unlock()

	if changed {
		d.commit(text)
	}
}

// ExternalChange 位置描述符被外部改写（前进/后退导航）
// 此时描述符是事实来源，覆盖本地待提交文本并取消挂起的提交
func (d *Debouncer) ExternalChange(search string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopTimerLocked()
	d.committed = search
	if d.pending != search {
		d.pending = search
	}
}

// Pending 当前待提交文本（驱动输入框显示）
func (d *Debouncer) Pending() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.pending
}

// Committed 最近一次提交的搜索词
func (d *Debouncer) Committed() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.committed
}

// restartTimerLocked 重启防抖计时器，调用方必须持锁
func (d *Debouncer) restartTimerLocked() {
	d.stopTimerLocked()
	d.timer = d.clock.AfterFunc(d.interval, d.fire)
}

// stopTimerLocked 取消挂起的计时器，调用方必须持锁
func (d *Debouncer) stopTimerLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// commitPendingLocked 若待提交文本有变化则标记提交，调用方必须持锁
func (d *Debouncer) commitPendingLocked() (string, bool) {
	if d.pending == d.committed {
		return "", false
	}
	d.committed = d.pending
	return d.committed, true
}

// fire 计时器触发回调
func (d *Debouncer) fire() {
	d.mu.Lock()
	d.timer = nil
	text, changed := d.commitPendingLocked()
	d.mu.Unlock()

	if changed {
		d.commit(text)
	}
}
