package validation

import "testing"

func TestDeduperBatch(t *testing.T) {
	d := NewDeduper()

	if _, seen := d.SeenInBatch("Tomato Soup"); seen {
		t.Fatal("fresh deduper should not know any title")
	}

	d.MarkSeen("Tomato Soup", 2)

	row, seen := d.SeenInBatch("tomato soup")
	if !seen {
		t.Fatal("lookup should be case-insensitive")
	}
	if row != 2 {
		t.Errorf("first-seen row = %d, want 2", row)
	}

	if _, seen := d.SeenInBatch("  TOMATO SOUP  "); !seen {
		t.Error("lookup should ignore surrounding whitespace")
	}
}

func TestDeduperExisting(t *testing.T) {
	d := NewDeduper()
	d.SetExistingTitles(map[string]int64{"beef stew": 41})

	id, ok := d.FindExisting("Beef Stew")
	if !ok {
		t.Fatal("persisted title should be found case-insensitively")
	}
	if id != 41 {
		t.Errorf("existing id = %d, want 41", id)
	}

	if _, ok := d.FindExisting("Chicken Stew"); ok {
		t.Error("unknown title should not match")
	}
}
