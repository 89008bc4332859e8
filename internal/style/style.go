// Package style is the layout side-channel: per-scene item positions are
// persisted as CSS-like rules of the form
//
//	#scene-7 #id-42 { left: 120px; top: 80px; }
//
// applied to a live local sheet and mirrored to the server so they survive
// reloads.
package style

import (
	"fmt"
	"regexp"
	"strconv"
	"sync"

	"github.com/decode-detroit/minerva-sub000/internal/item"
)

// Rule positions one item within one scene.
type Rule struct {
	SceneID item.ID
	ItemID  item.ID
	Left    float64
	Top     float64
}

// Selector returns the scene-and-item scoped selector.
func (r Rule) Selector() string {
	return fmt.Sprintf("#scene-%d #id-%d", r.SceneID, r.ItemID)
}

// Declarations returns the rule body without braces.
func (r Rule) Declarations() string {
	return fmt.Sprintf("left: %spx; top: %spx;", px(r.Left), px(r.Top))
}

// String returns the full rule text.
func (r Rule) String() string {
	return r.Selector() + " { " + r.Declarations() + " }"
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var rulePattern = regexp.MustCompile(
	`^#scene-(\d+) #id-(\d+) \{ left: (-?[\d.]+)px; top: (-?[\d.]+)px; \}$`)

// Parse reads a full rule text back into a Rule.
func Parse(text string) (Rule, error) {
	m := rulePattern.FindStringSubmatch(text)
	if m == nil {
		return Rule{}, fmt.Errorf("malformed position rule: %q", text)
	}
	scene, err := strconv.ParseUint(m[1], 10, 32)
	if err != nil {
		return Rule{}, err
	}
	id, err := strconv.ParseUint(m[2], 10, 32)
	if err != nil {
		return Rule{}, err
	}
	left, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return Rule{}, err
	}
	top, err := strconv.ParseFloat(m[4], 64)
	if err != nil {
		return Rule{}, err
	}
	return Rule{SceneID: item.ID(scene), ItemID: item.ID(id), Left: left, Top: top}, nil
}

// Saver mirrors selector-to-declaration pairs to the server. *api.Client
// satisfies it.
type Saver interface {
	SaveStyles(styles map[string]string)
}

// Sheet is the live local stylesheet. The latest rule per scene-and-item
// wins; every application is mirrored to the server for durability.
type Sheet struct {
	mu    sync.RWMutex
	saver Saver
	rules map[string]Rule
}

// NewSheet creates an empty sheet mirroring through saver.
func NewSheet(saver Saver) *Sheet {
	return &Sheet{
		saver: saver,
		rules: make(map[string]Rule),
	}
}

// Apply stores the rule locally and mirrors it to the server.
func (s *Sheet) Apply(r Rule) {
	s.mu.Lock()
	s.rules[r.Selector()] = r
	s.mu.Unlock()

	s.saver.SaveStyles(map[string]string{r.Selector(): r.Declarations()})
}

// Lookup returns the current position rule for scene and id, if any.
func (s *Sheet) Lookup(sceneID, itemID item.ID) (Rule, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rules[Rule{SceneID: sceneID, ItemID: itemID}.Selector()]
	return r, ok
}

// Snapshot returns every rule as selector-to-declaration pairs.
func (s *Sheet) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.rules))
	for sel, r := range s.rules {
		out[sel] = r.Declarations()
	}
	return out
}
