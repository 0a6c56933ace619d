package core

import "testing"

func TestQueue(t *testing.T) {
	q := &Queue{
		Tracks:       []Track{{ID: 1}, {ID: 2}, {ID: 3}},
		CurrentIndex: 1,
	}

	if c := q.Current(); c == nil || c.ID != 2 {
		t.Errorf("Current = %v, want 2", c)
	}
	if up := q.Upcoming(); len(up) != 1 || up[0].ID != 3 {
		t.Errorf("Upcoming = %v, want [3]", up)
	}

	q.CurrentIndex = -1
	if q.Current() != nil {
		t.Error("Current should be nil with no position")
	}
	if len(q.Upcoming()) != 3 {
		t.Error("all entries should be upcoming with no position")
	}

	var nilQueue *Queue
	if !nilQueue.IsEmpty() {
		t.Error("nil queue should be empty")
	}
}
