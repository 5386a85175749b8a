package creature

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestActionTimer_Fires(t *testing.T) {
	var fired atomic.Int32
	StartActionTimer(10*time.Millisecond, func() { fired.Add(1) })

	assert.Eventually(t, func() bool { return fired.Load() == 1 },
		time.Second, 5*time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load(), "timer must fire exactly once")
}

func TestActionTimer_StopPreventsFiring(t *testing.T) {
	var fired atomic.Int32
	at := StartActionTimer(20*time.Millisecond, func() { fired.Add(1) })
	at.Stop()

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}

func TestActionTimer_StopIsIdempotent(t *testing.T) {
	at := StartActionTimer(20*time.Millisecond, func() {})
	at.Stop()
	at.Stop()
}
