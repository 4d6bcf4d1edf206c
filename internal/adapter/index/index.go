// Package index builds ordered key indexes over object members. An object is
// a linked list, so [accessor.Item] is linear; an index trades one pass over
// the members for logarithmic lookups afterwards.
package index

import (
	"slices"

	"github.com/vinicius-lino-figueiredo/bst"
	"github.com/vinicius-lino-figueiredo/bst/adapter/comparer"
	"github.com/vinicius-lino-figueiredo/bst/adapter/unbalanced"

	"github.com/vinicius-lino-figueiredo/nanojson/domain"
	"github.com/vinicius-lino-figueiredo/nanojson/internal/adapter/accessor"
)

// Index implements [domain.KeyIndex].
type Index struct {
	// Exported to allow testing. Should not be a problem because Index is
	// used as interface.
	Tree bst.BST[string, int]
	keys []string
}

// NewIndex indexes the members of the object at the given index. Members
// sharing a key are all kept, and Lookup returns the one appearing first, the
// same member [accessor.Item] would find.
func NewIndex(t *domain.Tree, at int) (domain.KeyIndex, error) {
	if accessor.TypeOf(t, at) != domain.TypeObject {
		return nil, domain.ErrNotObject
	}

	i := &Index{
		Tree: unbalanced.NewBST[string, int](false, 0, comparer.NewComparer[string, int]()),
	}
	for _, child := range accessor.Children(t, at) {
		key, _ := accessor.Key(t, child)
		node, err := i.Tree.Search(key)
		if err != nil {
			return nil, err
		}
		if node == nil {
			i.keys = append(i.keys, key)
		}
		if err := i.Tree.Insert(key, child); err != nil {
			return nil, err
		}
	}
	slices.Sort(i.keys)
	return i, nil
}

// Lookup implements [domain.KeyIndex].
func (i *Index) Lookup(key string) int {
	node, err := i.Tree.Search(key)
	if err != nil || node == nil || len(node.Values) == 0 {
		return -1
	}
	return slices.Min(node.Values)
}

// Keys implements [domain.KeyIndex].
func (i *Index) Keys() []string {
	return slices.Clone(i.keys)
}

// Len implements [domain.KeyIndex].
func (i *Index) Len() int {
	return i.Tree.GetNumberOfKeys()
}
