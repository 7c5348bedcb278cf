package motion

import "time"

// DefaultFrameInterval approximates a 30 fps render loop.
const DefaultFrameInterval = 33 * time.Millisecond

// Scheduler schedules a single upcoming animation frame and returns a handle
// that cancels it. Animations re-arm themselves each frame until they settle,
// so cancellation simply stops the chain; there is no preemption.
type Scheduler interface {
	ScheduleFrame(fn func(now time.Time)) (cancel func())
}

// TickerScheduler fires frames on a fixed interval. It is the headless
// equivalent of a per-frame render callback.
type TickerScheduler struct {
	Interval time.Duration
}

// ScheduleFrame arms a one-shot timer for the next frame.
func (s TickerScheduler) ScheduleFrame(fn func(now time.Time)) func() {
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	t := time.AfterFunc(interval, func() { fn(time.Now()) })
	return func() { t.Stop() }
}
