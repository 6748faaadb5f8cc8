package wsutil

import "testing"

func TestSafeSendQueues(t *testing.T) {
	ch := make(chan []byte, 1)
	if !SafeSend(ch, []byte("a")) {
		t.Fatal("expected send to succeed")
	}
	if got := string(<-ch); got != "a" {
		t.Errorf("expected 'a', got %q", got)
	}
}

func TestSafeSendFullChannel(t *testing.T) {
	ch := make(chan []byte, 1)
	SafeSend(ch, []byte("a"))
	if SafeSend(ch, []byte("b")) {
		t.Error("send on a full channel should be dropped")
	}
}

func TestSafeSendClosedChannel(t *testing.T) {
	ch := make(chan []byte, 1)
	close(ch)
	if SafeSend(ch, []byte("a")) {
		t.Error("send on a closed channel should report false")
	}
}
