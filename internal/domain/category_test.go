package domain

import (
	"errors"
	"sort"
	"testing"
)

func ptr(s string) *string { return &s }

func TestCategoryTree_SubtreeIDs(t *testing.T) {
	tree := NewCategoryTree([]*Category{
		{ID: "root"},
		{ID: "a", ParentID: ptr("root")},
		{ID: "b", ParentID: ptr("root")},
		{ID: "a1", ParentID: ptr("a")},
		{ID: "other"},
	})

	ids, err := tree.SubtreeIDs("root")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sort.Strings(ids)
	want := []string{"a", "a1", "b", "root"}
	if len(ids) != len(want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, ids)
		}
	}

	leaf, err := tree.SubtreeIDs("a1")
	if err != nil || len(leaf) != 1 {
		t.Fatalf("leaf subtree should only contain itself, got %v, %v", leaf, err)
	}

	if _, err := tree.SubtreeIDs("missing"); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestCategoryTree_SubtreeIDsDetectsCycle(t *testing.T) {
	tree := NewCategoryTree([]*Category{
		{ID: "x", ParentID: ptr("z")},
		{ID: "y", ParentID: ptr("x")},
		{ID: "z", ParentID: ptr("y")},
	})

	_, err := tree.SubtreeIDs("x")
	if !errors.Is(err, ErrCategoryCycle) {
		t.Fatalf("expected ErrCategoryCycle, got %v", err)
	}
}

func TestCategoryTree_CheckReparent(t *testing.T) {
	tree := NewCategoryTree([]*Category{
		{ID: "root"},
		{ID: "a", ParentID: ptr("root")},
		{ID: "a1", ParentID: ptr("a")},
		{ID: "b"},
	})

	tests := []struct {
		name        string
		id          string
		parent      *string
		expectError error
	}{
		{name: "detach to top level", id: "a", parent: nil},
		{name: "move under sibling tree", id: "b", parent: ptr("a1")},
		{name: "self parent", id: "a", parent: ptr("a"), expectError: ErrCategoryCycle},
		{name: "under own descendant", id: "root", parent: ptr("a1"), expectError: ErrCategoryCycle},
		{name: "unknown parent", id: "a", parent: ptr("nope"), expectError: ErrCategoryNotFound},
		{name: "unknown category", id: "nope", parent: nil, expectError: ErrCategoryNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tree.CheckReparent(tt.id, tt.parent)
			if tt.expectError == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.expectError != nil && !errors.Is(err, tt.expectError) {
				t.Fatalf("expected %v, got %v", tt.expectError, err)
			}
		})
	}
}

func TestCategoryTree_AncestorIDs(t *testing.T) {
	tree := NewCategoryTree([]*Category{
		{ID: "root"},
		{ID: "a", ParentID: ptr("root")},
		{ID: "a1", ParentID: ptr("a")},
	})

	ids, err := tree.AncestorIDs("a1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 3 || ids[0] != "a1" || ids[2] != "root" {
		t.Fatalf("unexpected chain %v", ids)
	}

	loop := NewCategoryTree([]*Category{
		{ID: "p", ParentID: ptr("q")},
		{ID: "q", ParentID: ptr("p")},
	})
	if _, err := loop.AncestorIDs("p"); !errors.Is(err, ErrCategoryCycle) {
		t.Fatalf("expected ErrCategoryCycle, got %v", err)
	}
}
