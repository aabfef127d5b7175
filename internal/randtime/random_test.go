package randtime

import (
	"fmt"
	"runtime"
	"testing"
	"time"
)

func newAsserter(t *testing.T) func(cond bool, msg string, args ...interface{}) {
	return func(cond bool, msg string, args ...interface{}) {
		if cond {
			return
		}
		_, file, line, ok := runtime.Caller(1)
		if !ok {
			file = "???"
			line = 0
		}
		s := fmt.Sprintf(msg, args...)
		t.Fatalf("\n%s: %d: Assertion failed: %s\n", file, line, s)
	}
}

func TestRandomRange(t *testing.T) {
	assert := newAsserter(t)

	for i := 1; i < 10000; i++ {
		x := Random(0, i)
		assert(x >= 0 && x < i, "Random(0, %d) = %d out of range", i, x)
	}
	for i := 1; i < 10000; i++ {
		x := Random(-i, 0)
		assert(x >= -i && x < 0, "Random(-%d, 0) = %d out of range", i, x)
	}
}

func TestTimerDisabled(t *testing.T) {
	assert := newAsserter(t)

	timer := NewTimer(0, 0)
	assert(!timer.Elapsed(), "Timer(0,*) should never elapse")
	time.Sleep(10 * time.Millisecond)
	assert(!timer.Elapsed(), "Timer(0,*) should never elapse")
	timer.Reset()
	assert(!timer.Elapsed(), "Timer(0,*) should never elapse")
}

func TestTimerOneSecond(t *testing.T) {
	assert := newAsserter(t)

	timer := NewTimer(1, 0)
	assert(!timer.Elapsed(), "Timer(1,0) should not elapse immediately")
	time.Sleep(1100 * time.Millisecond)
	assert(timer.Elapsed(), "Timer(1,0) should elapse after >=1s")
	assert(timer.Elapsed(), "Timer(1,0) should remain elapsed")
	timer.Reset()
	assert(!timer.Elapsed(), "Timer(1,0) should reset to unelapsed")
}

func TestTimerTwoSeconds(t *testing.T) {
	assert := newAsserter(t)

	timer := NewTimer(2, 0)
	assert(!timer.Elapsed(), "Timer(2,0) should not elapse immediately")
	time.Sleep(1 * time.Second)
	assert(!timer.Elapsed(), "Timer(2,0) should not elapse after 1s")
}

func TestTimerFrequencyGate(t *testing.T) {
	assert := newAsserter(t)

	timer := NewTimer(1, 1000)
	time.Sleep(1100 * time.Millisecond)
	for i := 0; i < 999; i++ {
		assert(!timer.Elapsed(), "Timer(*,1000) should not elapse before 1000 polls")
	}
}
