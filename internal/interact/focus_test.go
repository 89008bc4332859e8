package interact

import (
	"testing"

	"github.com/decode-detroit/minerva-sub000/internal/item"
)

func TestFocus_SetReplacesPrevious(t *testing.T) {
	f := NewFocus([]item.ID{1, 2, 3})

	f.Set(1)
	f.Set(2)

	id, held := f.Focused()
	if !held || id != 2 {
		t.Errorf("expected focus on 2, got %d (held=%v)", id, held)
	}
}

func TestFocus_MaterializesOffscreenID(t *testing.T) {
	f := NewFocus([]item.ID{1, 2})

	f.Set(42)

	found := false
	for _, id := range f.Visible() {
		if id == 42 {
			found = true
		}
	}
	if !found {
		t.Error("focused id missing from visible list")
	}
}

func TestFocus_ClearReleases(t *testing.T) {
	f := NewFocus([]item.ID{1})
	f.Set(1)
	f.Clear()

	if _, held := f.Focused(); held {
		t.Error("focus survived clear")
	}
}

func TestFocus_SetVisibleKeepsFocusedMaterialized(t *testing.T) {
	f := NewFocus([]item.ID{1, 2})
	f.Set(2)

	f.SetVisible([]item.ID{5, 6})

	found := false
	for _, id := range f.Visible() {
		if id == 2 {
			found = true
		}
	}
	if !found {
		t.Error("visible replacement dropped the focused id")
	}
}
