package events

import "testing"

func TestEmit_NilSinkIsSafe(t *testing.T) {
	// Must not panic.
	Emit(nil, KindPromptGenerated, map[string]any{"user_id": "u"})
}

func TestEmit_StampsTime(t *testing.T) {
	rec := &Recorder{}
	Emit(rec, KindInputCorrected, map[string]any{"field": "tone"})

	got := rec.Events()
	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	if got[0].Time.IsZero() {
		t.Error("event time not stamped")
	}
	if got[0].Kind != KindInputCorrected {
		t.Errorf("unexpected kind %q", got[0].Kind)
	}
}

func TestRecorder_ByKind(t *testing.T) {
	rec := &Recorder{}
	Emit(rec, KindInputCorrected, nil)
	Emit(rec, KindUpgradePrompted, nil)
	Emit(rec, KindInputCorrected, nil)

	if n := len(rec.ByKind(KindInputCorrected)); n != 2 {
		t.Errorf("expected 2 corrections, got %d", n)
	}
	if n := len(rec.ByKind(KindQuotaExceeded)); n != 0 {
		t.Errorf("expected 0, got %d", n)
	}
}

func TestChannelSink_DropsWhenFull(t *testing.T) {
	ch := make(chan Event, 1)
	sink := ChannelSink{Ch: ch}

	Emit(sink, KindPromptGenerated, nil)
	// Buffer is full now; the second emit must not block.
	Emit(sink, KindPromptGenerated, nil)

	if len(ch) != 1 {
		t.Errorf("expected 1 buffered event, got %d", len(ch))
	}
}

func TestChannelSink_NilChannelIsSafe(t *testing.T) {
	Emit(ChannelSink{}, KindPromptGenerated, nil)
}

func TestLogSink_NilLoggerIsSafe(t *testing.T) {
	Emit(LogSink{}, KindPromptGenerated, map[string]any{"k": "v"})
}
