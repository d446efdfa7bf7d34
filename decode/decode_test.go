package decode

import "testing"

func TestSinkCountsValidAndFailedFrames(t *testing.T) {
	s := New(4)
	s.Callback(0, 10, []byte("hello world"), true)
	s.Callback(0, 10, nil, false)
	s.Callback(2, 20, []byte("twelve bytes"), true)

	stats := s.Stats()
	if stats[0].Received != 1 || stats[0].FECFailed != 1 {
		t.Fatalf("rate 0 stats = %+v", stats[0])
	}
	if stats[2].Received != 1 {
		t.Fatalf("rate 2 stats = %+v", stats[2])
	}

	received, failed := s.Totals()
	if received != 2 || failed != 1 {
		t.Fatalf("Totals() = (%d, %d), want (2, 1)", received, failed)
	}
}

func TestSinkIgnoresOutOfRangeRateIndex(t *testing.T) {
	s := New(4)
	s.Callback(-1, 10, nil, true)
	s.Callback(99, 10, nil, true)
	received, failed := s.Totals()
	if received != 0 || failed != 0 {
		t.Fatalf("Totals() = (%d, %d), want (0, 0)", received, failed)
	}
}

func TestSinkForwardsValidPayloadsToChannel(t *testing.T) {
	s := New(2)
	payload := []byte("a valid frame")
	s.Callback(0, len(payload), payload, true)

	select {
	case got := <-s.Payloads:
		if string(got) != string(payload) {
			t.Fatalf("got %q, want %q", got, payload)
		}
	default:
		t.Fatal("expected a payload on the channel")
	}
}

func TestSinkDoesNotForwardInvalidFrames(t *testing.T) {
	s := New(2)
	s.Callback(0, 10, []byte("garbage"), false)

	select {
	case got := <-s.Payloads:
		t.Fatalf("did not expect a payload, got %q", got)
	default:
	}
}
