package globe

import "testing"

func TestLatchFiresOnceOnly(t *testing.T) {
	var l Latch
	if l.Fired() {
		t.Fatal("zero latch should not be fired")
	}
	calls := 0
	if !l.Fire(func() { calls++ }) {
		t.Error("first Fire should report true")
	}
	if l.Fire(func() { calls++ }) {
		t.Error("second Fire should report false")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if !l.Fired() {
		t.Error("Fired should be true after Fire")
	}
}

func TestLatchNilActionIgnored(t *testing.T) {
	var l Latch
	if !l.Fire(nil) {
		t.Fatal("Fire(nil) should trip the latch")
	}
	ran := false
	l.Fire(func() { ran = true })
	if ran {
		t.Error("action ran after the latch tripped")
	}
}
