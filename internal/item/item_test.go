package item

import (
	"encoding/json"
	"testing"
)

func TestAllocate_EmptyUniverse(t *testing.T) {
	id := Allocate(map[ID]struct{}{})
	if id != AllocationFloor {
		t.Errorf("expected first id %d, got %d", AllocationFloor, id)
	}
}

func TestAllocate_SkipsTakenIds(t *testing.T) {
	known := map[ID]struct{}{
		1000: {},
		1001: {},
		1003: {},
	}
	if id := Allocate(known); id != 1002 {
		t.Errorf("expected first gap 1002, got %d", id)
	}
}

func TestAllocate_IgnoresIdsBelowFloor(t *testing.T) {
	known := map[ID]struct{}{1: {}, 7: {}, 500: {}}
	if id := Allocate(known); id != 1000 {
		t.Errorf("expected %d, got %d", AllocationFloor, id)
	}
}

func TestParseType(t *testing.T) {
	cases := []struct {
		in   string
		want Type
	}{
		{"event", TypeEvent},
		{"status", TypeStatus},
		{"scene", TypeScene},
		{"group", TypeGroup},
		{"label", TypeLabel},
		{"none", TypeNone},
		{"something-new", TypeUnresolved},
		{"", TypeUnresolved},
	}
	for _, c := range cases {
		if got := ParseType(c.in); got != c.want {
			t.Errorf("ParseType(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestDisplay_RoundTrip(t *testing.T) {
	d := Display{Kind: DisplayWith, EditPos: &Position{Left: 120, Top: 80}}
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back Display
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Kind != DisplayWith {
		t.Errorf("expected DisplayWith, got %v", back.Kind)
	}
	if back.EditPos == nil || back.EditPos.Left != 120 || back.EditPos.Top != 80 {
		t.Errorf("edit position lost: %+v", back.EditPos)
	}
}

func TestDisplay_UnknownTagDecodesHidden(t *testing.T) {
	var d Display
	if err := json.Unmarshal([]byte(`{"FutureVariant":{}}`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.Kind != DisplayHidden {
		t.Errorf("expected hidden fallback, got %v", d.Kind)
	}
}

func TestSortedIDs(t *testing.T) {
	in := []ID{30, 10, 20}
	out := SortedIDs(in)
	if out[0] != 10 || out[1] != 20 || out[2] != 30 {
		t.Errorf("unexpected order: %v", out)
	}
	if in[0] != 30 {
		t.Errorf("input mutated: %v", in)
	}
}
