package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Unix(1700000000, 0)

func TestMockClock_TimerFiresAtDeadline(t *testing.T) {
	c := NewMockClock(epoch)
	tm := c.NewTimer(30 * time.Second)
	assert.Equal(t, 1, c.PendingTimers())

	c.Advance(29 * time.Second)
	select {
	case <-tm.C():
		t.Fatal("timer fired early")
	default:
	}

	c.Advance(time.Second)
	select {
	case got := <-tm.C():
		assert.Equal(t, epoch.Add(30*time.Second), got)
	default:
		t.Fatal("timer did not fire")
	}
	assert.Equal(t, 0, c.PendingTimers())
	assert.False(t, tm.Stop())
}

func TestMockClock_StoppedTimerDoesNotFire(t *testing.T) {
	c := NewMockClock(epoch)
	tm := c.NewTimer(time.Second)
	assert.True(t, tm.Stop())

	c.Advance(time.Minute)
	select {
	case <-tm.C():
		t.Fatal("stopped timer fired")
	default:
	}
	assert.Equal(t, 0, c.PendingTimers())
}

func TestMockClock_Ticker(t *testing.T) {
	c := NewMockClock(epoch)
	tk := c.NewTicker(2 * time.Minute)
	assert.Equal(t, 1, c.Tickers())

	c.Advance(2 * time.Minute)
	assert.Len(t, tk.C(), 1)
	<-tk.C()

	c.Tick()
	assert.Len(t, tk.C(), 1)
	<-tk.C()

	tk.Stop()
	c.Tick()
	c.Advance(10 * time.Minute)
	assert.Len(t, tk.C(), 0)
	assert.Equal(t, 0, c.Tickers())
}

func TestRealClock(t *testing.T) {
	var c Clock = RealClock{}
	tm := c.NewTimer(time.Millisecond)
	defer tm.Stop()

	select {
	case <-tm.C():
	case <-time.After(time.Second):
		t.Fatal("real timer did not fire")
	}
	assert.WithinDuration(t, time.Now(), c.Now(), time.Second)
}
