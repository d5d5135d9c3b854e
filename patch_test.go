package vdom

import (
	"bytes"
	"errors"
	"log/slog"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
)

func snapshotOf(t *testing.T, live *liveNode) *Node {
	t.Helper()
	snap, err := BuildSnapshot[*liveNode](&fakeTree{}, live)
	if err != nil {
		t.Fatalf("BuildSnapshot() error = %v", err)
	}
	return snap
}

func TestPatchRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		oldNode *Node
		newNode *Node
	}{
		{
			name:    "Text change",
			oldNode: Element("div", nil, Element("p", nil, "Hello")),
			newNode: Element("div", nil, Element("p", nil, "World")),
		},
		{
			name:    "Attribute change",
			oldNode: Element("div", Attrs("class", "a")),
			newNode: Element("div", Attrs("class", "b")),
		},
		{
			name:    "Insert node",
			oldNode: Element("ul", nil, Element("li", nil, "A")),
			newNode: Element("ul", nil, Element("li", nil, "A"), Element("li", nil, "B")),
		},
		{
			name:    "Delete node",
			oldNode: Element("ul", nil, Element("li", nil, "A"), Element("li", nil, "B")),
			newNode: Element("ul", nil, Element("li", nil, "A")),
		},
		{
			name: "Complex structural change",
			oldNode: Element("div", Attrs("id", "main"),
				Element("h1", nil, "Title"), Element("p", nil, "Text")),
			newNode: Element("div", Attrs("id", "main"),
				Element("h1", nil, "New Title"), Element("p", nil, "Text"), Element("p", nil, "Footer")),
		},
		{
			name: "Replace inside removed tail",
			oldNode: Element("div", nil,
				Element("span", nil, "a"), Element("b", nil, "x"), Element("i", nil, "y"), "z"),
			newNode: Element("div", nil,
				Element("em", nil, "a")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			live := mustLive(tt.oldNode)
			patches := Diff(tt.oldNode, tt.newNode)

			if err := Patch(live, patches, &fakeTree{}); err != nil {
				t.Fatalf("Patch() error = %v", err)
			}
			if got := snapshotOf(t, live); !got.Equal(tt.newNode) {
				t.Errorf("RoundTrip failed (-want +got):\n%s\n%s", cmp.Diff(tt.newNode, got), spew.Sdump(patches))
			}
		})
	}
}

func TestPatchRandomRoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 1024))
	for i := 0; i < 300; i++ {
		oldNode := randomTree(r, 3)
		newNode := mutate(r, oldNode, 2)

		live := mustLive(oldNode)
		patches := Diff(snapshotOf(t, live), newNode)
		if err := Patch(live, patches, &fakeTree{}); err != nil {
			t.Fatalf("iteration %d: Patch() error = %v", i, err)
		}
		if got := snapshotOf(t, live); !got.Equal(newNode) {
			t.Fatalf("iteration %d: round trip mismatch (-want +got):\n%s\npatches: %s",
				i, cmp.Diff(newNode, got), spew.Sdump(patches))
		}
	}
}

func TestPatchRemovalsShiftIndices(t *testing.T) {
	live := mustLive(Element("ul", nil,
		Element("li", nil, "A"), Element("li", nil, "B"), Element("li", nil, "C"), Element("li", nil, "D")))

	patches := PatchSet{0: {{Type: OpRemove, Index: 1}, {Type: OpRemove, Index: 2}}}
	if err := Patch(live, patches, &fakeTree{}); err != nil {
		t.Fatalf("Patch() error = %v", err)
	}

	want := Element("ul", nil, Element("li", nil, "A"), Element("li", nil, "D"))
	if got := snapshotOf(t, live); !got.Equal(want) {
		t.Errorf("Patch() mismatch (-want +got):\n%s", cmp.Diff(want, got))
	}
}

func TestPatchEmptyPatchSetWritesNothing(t *testing.T) {
	tree := &fakeTree{}
	live := mustLive(Element("div", nil, "x"))
	if err := Patch(live, PatchSet{}, tree); err != nil {
		t.Fatalf("Patch() error = %v", err)
	}
	if tree.writes != 0 {
		t.Errorf("Patch() performed %d writes, want 0", tree.writes)
	}
}

type countingTree struct {
	fakeTree
	childrenCalls int
}

func (c *countingTree) Children(n *liveNode) ([]*liveNode, error) {
	c.childrenCalls++
	return n.children, nil
}

func TestPatchStopsAfterLastPosition(t *testing.T) {
	live := mustLive(Element("ul", nil,
		Element("li", nil, "A"), Element("li", nil, Element("b", nil, "B")), Element("li", nil, "C")))

	tree := &countingTree{}
	patches := PatchSet{1: {{Type: OpProps, Props: map[string]*Value{"class": strPtr("first")}}}}
	if err := Patch(live, patches, tree); err != nil {
		t.Fatalf("Patch() error = %v", err)
	}

	// Only the root and the first item are expanded.
	if tree.childrenCalls != 2 {
		t.Errorf("Children called %d times, want 2", tree.childrenCalls)
	}
	if got := live.children[0].attrs["class"]; got.Str != "first" {
		t.Errorf("class = %q, want %q", got.Str, "first")
	}
}

type brokenTree struct {
	fakeTree
	err error
}

func (b *brokenTree) WriteText(n *liveNode, text string) error {
	return b.err
}

func TestPatchPropagatesRendererErrors(t *testing.T) {
	boom := errors.New("boom")
	oldNode := Element("p", nil, "a")
	live := mustLive(oldNode)

	err := Patch(live, Diff(oldNode, Element("p", nil, "b")), &brokenTree{err: boom})
	if err != boom {
		t.Errorf("Patch() error = %v, want the renderer's error unchanged", err)
	}
}

func TestPatchLogsOperations(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	oldNode := Element("p", Attrs("class", "a"), "x")
	live := mustLive(oldNode)
	patches := Diff(oldNode, Element("p", Attrs("class", "b"), "y"), WithLogger(logger))
	if err := Patch(live, patches, &fakeTree{}, WithLogger(logger)); err != nil {
		t.Fatalf("Patch() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"diff computed", "op=PROPS", "op=TEXT", "position=1"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestPatchDelta(t *testing.T) {
	oldNode := Element("div", Attrs("class", "a"), "x")
	newNode := Element("div", Attrs("class", "b"), "y")

	delta, err := NewDelta(oldNode, newNode, "tester")
	if err != nil {
		t.Fatalf("NewDelta() error = %v", err)
	}

	t.Run("matching base", func(t *testing.T) {
		live := mustLive(oldNode)
		if err := PatchDelta(live, delta, &fakeTree{}); err != nil {
			t.Fatalf("PatchDelta() error = %v", err)
		}
		if got := snapshotOf(t, live); !got.Equal(newNode) {
			t.Errorf("PatchDelta() mismatch (-want +got):\n%s", cmp.Diff(newNode, got))
		}
	})

	t.Run("stale base", func(t *testing.T) {
		tree := &fakeTree{}
		live := mustLive(Element("div", Attrs("class", "z"), "x"))
		err := PatchDelta(live, delta, tree)
		if !errors.Is(err, ErrBaseMismatch) {
			t.Fatalf("PatchDelta() error = %v, want ErrBaseMismatch", err)
		}
		if tree.writes != 0 {
			t.Errorf("PatchDelta() performed %d writes on a stale base", tree.writes)
		}
	})
}
