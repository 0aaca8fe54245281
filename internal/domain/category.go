package domain

import (
	"fmt"
	"time"
)

// Category is a node in the accounting category tree.
type Category struct {
	ID        string
	Name      string
	Type      string
	ParentID  *string
	CreatedAt time.Time
}

// CategoryTree is an in-memory index of the category hierarchy.
type CategoryTree struct {
	nodes    map[string]*Category
	children map[string][]string
}

// NewCategoryTree indexes the given categories by id and by parent.
func NewCategoryTree(categories []*Category) *CategoryTree {
	t := &CategoryTree{
		nodes:    make(map[string]*Category, len(categories)),
		children: make(map[string][]string),
	}

	for _, c := range categories {
		t.nodes[c.ID] = c
		if c.ParentID != nil {
			t.children[*c.ParentID] = append(t.children[*c.ParentID], c.ID)
		}
	}

	return t
}

// SubtreeIDs returns rootID and every descendant. A node reached twice means
// the parent links form a cycle.
func (t *CategoryTree) SubtreeIDs(rootID string) ([]string, error) {
	if _, ok := t.nodes[rootID]; !ok {
		return nil, ErrCategoryNotFound
	}

	visited := make(map[string]bool)
	ids := make([]string, 0, 1)

	var walk func(id string) error
	walk = func(id string) error {
		if visited[id] {
			return fmt.Errorf("%w: %s reached twice", ErrCategoryCycle, id)
		}
		visited[id] = true
		ids = append(ids, id)

		for _, child := range t.children[id] {
			if err := walk(child); err != nil {
				return err
			}
		}

		return nil
	}

	if err := walk(rootID); err != nil {
		return nil, err
	}

	return ids, nil
}

// CheckReparent fails with ErrCategoryCycle when making newParentID the
// parent of id would put id among its own ancestors.
func (t *CategoryTree) CheckReparent(id string, newParentID *string) error {
	if _, ok := t.nodes[id]; !ok {
		return ErrCategoryNotFound
	}

	if newParentID == nil {
		return nil
	}

	if _, ok := t.nodes[*newParentID]; !ok {
		return ErrCategoryNotFound
	}

	visited := make(map[string]bool)
	for cur := newParentID; cur != nil; {
		if *cur == id {
			return fmt.Errorf("%w: %s would become its own ancestor", ErrCategoryCycle, id)
		}
		if visited[*cur] {
			return fmt.Errorf("%w: existing loop through %s", ErrCategoryCycle, *cur)
		}
		visited[*cur] = true

		node, ok := t.nodes[*cur]
		if !ok {
			break
		}
		cur = node.ParentID
	}

	return nil
}

// AncestorIDs returns id followed by its parent chain up to the root.
func (t *CategoryTree) AncestorIDs(id string) ([]string, error) {
	if _, ok := t.nodes[id]; !ok {
		return nil, ErrCategoryNotFound
	}

	visited := make(map[string]bool)
	var ids []string
	for cur := &id; cur != nil; {
		if visited[*cur] {
			return nil, fmt.Errorf("%w: %s reached twice", ErrCategoryCycle, *cur)
		}
		visited[*cur] = true
		ids = append(ids, *cur)

		node, ok := t.nodes[*cur]
		if !ok {
			break
		}
		cur = node.ParentID
	}

	return ids, nil
}
