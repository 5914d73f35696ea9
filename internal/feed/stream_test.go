package feed

import (
	"testing"
	"time"
)

func TestDeliverSplitsFrames(t *testing.T) {
	st := NewStream("wss://feed.invalid/stream")
	frame := []byte("!AIVDM,1,1,,A,one,0*00\r\n\r\n!AIVDM,1,1,,B,two,0*00\n")

	got := make(chan string, 4)
	go func() {
		for line := range st.Lines {
			got <- string(line)
		}
	}()

	if !st.deliver(frame) {
		t.Fatal("deliver with a live receiver should succeed")
	}
	close(st.Lines)

	want := []string{"!AIVDM,1,1,,A,one,0*00", "!AIVDM,1,1,,B,two,0*00"}
	for _, w := range want {
		select {
		case line := <-got:
			if line != w {
				t.Errorf("line = %q, want %q", line, w)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for a delivered line")
		}
	}
}

func TestDeliverUnblocksAfterStop(t *testing.T) {
	// A consumer that has stopped receiving must not strand the stream
	// goroutine on the unbuffered Lines send once Quit is closed.
	st := NewStream("wss://feed.invalid/stream")
	close(st.Quit)

	done := make(chan bool, 1)
	go func() { done <- st.deliver([]byte("!AIVDM,1,1,,B,x,0*00\n")) }()

	select {
	case ok := <-done:
		if ok {
			t.Error("deliver after Quit closed should report cancellation")
		}
	case <-time.After(time.Second):
		t.Fatal("deliver blocked with no receiver after Quit closed")
	}
}
