package uploader

import (
	"sync"
	"time"
)

// progressTask advances a fake percentage on a ticker until it reaches the
// limit or is stopped. It has no relation to bytes actually sent.
type progressTask struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func startProgress(interval time.Duration, step, limit int, advance func(int)) *progressTask {
	t := &progressTask{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	go t.run(interval, step, limit, advance)

	return t
}

func (t *progressTask) run(interval time.Duration, step, limit int, advance func(int)) {
	defer close(t.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	value := 0
	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			if value >= limit {
				return
			}

			value += step
			if value > limit {
				value = limit
			}
			advance(value)
		}
	}
}

// Stop is safe to call more than once. After it returns advance is never
// called again.
func (t *progressTask) Stop() {
	t.once.Do(func() { close(t.stop) })
	<-t.done
}
