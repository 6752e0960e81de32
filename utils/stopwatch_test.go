package utils

import (
	"testing"
	"time"
)

func Test_Watch(t *testing.T) {
	watch := Watch{}

	watch.Start()
	time.Sleep(200 * time.Millisecond)
	lap := watch.Lap()
	if lap < 200*time.Millisecond {
		t.Error("lap too short", lap.Seconds())
	}
	time.Sleep(100 * time.Millisecond)
	lap2 := watch.Lap()
	if lap2 < 100*time.Millisecond || lap2 >= lap+100*time.Millisecond {
		t.Error("second lap mismatch", lap2.Seconds())
	}
	if total := watch.Elapsed(); total < lap+lap2 {
		t.Error("elapsed shorter than laps", total.Seconds())
	}
}
