package timekeeper

import (
	"context"
	"sync"
	"time"
)

// Driver is a periodic producer that can be armed and disarmed any number of
// times. While armed it calls fire once per interval from its own goroutine.
type Driver struct {
	interval time.Duration
	fire     func(now time.Time)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewDriver creates a disarmed driver.
func NewDriver(interval time.Duration, fire func(now time.Time)) *Driver {
	if interval <= 0 {
		interval = time.Second
	}
	return &Driver{interval: interval, fire: fire}
}

// Arm starts the driver. Arming an armed driver is a no-op.
func (driver *Driver) Arm() {
	driver.mu.Lock()
	defer driver.mu.Unlock()
	if driver.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	driver.cancel = cancel
	driver.done = make(chan struct{})
	go driver.run(ctx, driver.done)
}

// Disarm stops the driver and waits for an in-flight fire to return.
// Disarming a disarmed driver is a no-op.
func (driver *Driver) Disarm() {
	driver.mu.Lock()
	cancel := driver.cancel
	done := driver.done
	driver.cancel = nil
	driver.done = nil
	driver.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Armed reports whether the driver is running.
func (driver *Driver) Armed() bool {
	driver.mu.Lock()
	defer driver.mu.Unlock()
	return driver.cancel != nil
}

func (driver *Driver) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(driver.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			driver.fire(now)
		}
	}
}
