package member

import (
	"sync"
	"testing"

	"github.com/decode-detroit/minerva-sub000/internal/item"
	"github.com/decode-detroit/minerva-sub000/internal/style"
)

// mockServer applies scene and group edits to its own maps, so successive
// operations observe each other's writes.
type mockServer struct {
	mu      sync.Mutex
	scenes  map[item.ID]item.Scene
	groups  map[item.ID]item.Group
	batches []item.Batch
	styles  []map[string]string
}

func newMockServer() *mockServer {
	return &mockServer{
		scenes: make(map[item.ID]item.Scene),
		groups: make(map[item.ID]item.Group),
	}
}

func (m *mockServer) GetScene(id item.ID) (item.Scene, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.scenes[id]
	return s, ok
}

func (m *mockServer) GetGroup(id item.ID) (item.Group, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.groups[id]
	return g, ok
}

func (m *mockServer) Edit(batch item.Batch) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches = append(m.batches, batch)
	for _, mod := range batch {
		switch mod.Kind {
		case item.ModifyScene:
			m.scenes[mod.ItemID] = *mod.Scene
		case item.ModifyGroup:
			m.groups[mod.ItemID] = *mod.Group
		}
	}
}

func (m *mockServer) SaveStyles(styles map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.styles = append(m.styles, styles)
}

func (m *mockServer) batchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.batches)
}

func newOps(server *mockServer) *Ops {
	return NewOps(server, style.NewSheet(server))
}

func TestAdd_AppendsAndReplacesWholeList(t *testing.T) {
	server := newMockServer()
	server.scenes[7] = item.Scene{Events: []item.ID{1, 2}}
	ops := newOps(server)

	ops.Add(7, 42, KindScene)

	scene := server.scenes[7]
	if len(scene.Events) != 3 || scene.Events[2] != 42 {
		t.Errorf("unexpected members: %v", scene.Events)
	}
	if server.batchCount() != 1 {
		t.Errorf("expected one whole-list replace, got %d batches", server.batchCount())
	}
	mod := server.batches[0][0]
	if mod.Kind != item.ModifyScene || len(mod.Scene.Events) != 3 {
		t.Errorf("batch is not a whole-list replace: %+v", mod)
	}
}

func TestAdd_Idempotent(t *testing.T) {
	server := newMockServer()
	server.scenes[7] = item.Scene{Events: []item.ID{1, 42}}
	ops := newOps(server)

	ops.Add(7, 42, KindScene)

	if server.batchCount() != 0 {
		t.Errorf("re-adding a member must be a no-op, got %d batches", server.batchCount())
	}
}

func TestRemoveUndoesAdd(t *testing.T) {
	server := newMockServer()
	server.scenes[7] = item.Scene{Events: []item.ID{1, 2}}
	ops := newOps(server)

	ops.Add(7, 42, KindScene)
	ops.Remove(7, 42, KindScene)

	scene := server.scenes[7]
	if len(scene.Events) != 2 || scene.Events[0] != 1 || scene.Events[1] != 2 {
		t.Errorf("remove(add(S)) != S: %v", scene.Events)
	}
}

func TestRemove_AbsentMemberIsNoOp(t *testing.T) {
	server := newMockServer()
	server.groups[9] = item.Group{Items: []item.ID{1}}
	ops := newOps(server)

	ops.Remove(9, 42, KindGroup)

	if server.batchCount() != 0 {
		t.Errorf("removing an absent member must be a no-op, got %d batches", server.batchCount())
	}
}

func TestGroupEdit_PreservesOtherFields(t *testing.T) {
	server := newMockServer()
	server.groups[9] = item.Group{Items: []item.ID{1}, Hidden: true, Width: 400, Height: 300}
	ops := newOps(server)

	ops.Add(9, 42, KindGroup)

	group := server.groups[9]
	if !group.Hidden || group.Width != 400 || group.Height != 300 {
		t.Errorf("whole-list replace dropped group fields: %+v", group)
	}
}

func TestMembers_ExcludesOwnID(t *testing.T) {
	server := newMockServer()
	server.groups[9] = item.Group{Items: []item.ID{1, 9, 2}}
	ops := newOps(server)

	members, ok := ops.Members(9, KindGroup)
	if !ok {
		t.Fatal("expected members")
	}
	for _, m := range members {
		if m == 9 {
			t.Errorf("container id leaked into its member list: %v", members)
		}
	}
	if len(members) != 2 {
		t.Errorf("expected 2 members, got %v", members)
	}
}

func TestDropPosition(t *testing.T) {
	cases := []struct {
		name                   string
		sx, sy, zoom, panX, panY float64
		wantLeft, wantTop      float64
	}{
		{"unit zoom no pan", 120, 80, 1, 0, 0, 120, 80},
		{"half zoom doubles", 120, 80, 0.5, 0, 0, 240, 160},
		{"pan subtracts after unzoom", 120, 80, 1, 20, 30, 100, 50},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			pos := DropPosition(c.sx, c.sy, c.zoom, c.panX, c.panY)
			if pos.Left != c.wantLeft || pos.Top != c.wantTop {
				t.Errorf("got (%v, %v), want (%v, %v)", pos.Left, pos.Top, c.wantLeft, c.wantTop)
			}
		})
	}
}

func TestAddAt_PersistsMembershipAndPosition(t *testing.T) {
	server := newMockServer()
	server.scenes[7] = item.Scene{Events: []item.ID{1}}
	ops := newOps(server)

	ops.AddAt(7, 42, KindScene, 120, 80, 1, 0, 0)

	scene := server.scenes[7]
	if len(scene.Events) != 2 || scene.Events[1] != 42 {
		t.Errorf("membership not persisted: %v", scene.Events)
	}
	if len(server.styles) != 1 {
		t.Fatalf("expected one style mirror, got %d", len(server.styles))
	}
	rule, ok := server.styles[0]["#scene-7 #id-42"]
	if !ok {
		t.Fatalf("missing position rule: %v", server.styles[0])
	}
	if rule != "left: 120px; top: 80px;" {
		t.Errorf("unexpected rule: %q", rule)
	}
}

func TestAddAt_HalfZoomDoublesPersistedPosition(t *testing.T) {
	server := newMockServer()
	server.scenes[7] = item.Scene{Events: nil}
	ops := newOps(server)

	ops.AddAt(7, 42, KindScene, 120, 80, 0.5, 0, 0)

	rule := server.styles[0]["#scene-7 #id-42"]
	if rule != "left: 240px; top: 160px;" {
		t.Errorf("unexpected rule: %q", rule)
	}
}
