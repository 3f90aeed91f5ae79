package events

import "testing"

func TestQueueDrain(t *testing.T) {
	var q Queue
	q.Emit(Event{Kind: Kill, Headshot: true})
	q.Emit(Event{Kind: Explosion, Intensity: 10})
	if q.Len() != 2 {
		t.Fatalf("Expected 2 events, got %d", q.Len())
	}

	got := q.Drain()
	if len(got) != 2 || got[0].Kind != Kill || got[1].Kind != Explosion {
		t.Errorf("Expected kill then explosion, got %+v", got)
	}
	if q.Len() != 0 || q.Drain() != nil {
		t.Error("Expected the queue to be empty after draining")
	}
}

func TestKindString(t *testing.T) {
	if Kill.String() != "kill" || ReloadStarted.String() != "reload_started" {
		t.Errorf("Unexpected names: %s, %s", Kill, ReloadStarted)
	}
	if Kind(999).String() != "unknown" {
		t.Error("Expected unknown for out-of-range kinds")
	}
}
