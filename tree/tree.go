// Package tree converts between the flat record list (canonical storage form)
// and a nested tree keyed by dot-separated path segments (canonical view form).
package tree

import (
	"fmt"
	"sort"
	"strings"

	"lokali/domain"
)

// Node is either a Branch (nested container) or a Leaf (one record).
// Using a closed union instead of shape-sniffing makes a key that is a strict
// prefix of another key a representable conflict instead of a silent overwrite.
type Node interface {
	isNode()
}

// Branch maps a path segment to its subtree.
type Branch map[string]Node

// Leaf holds one record at its final path segment.
type Leaf struct {
	Record *domain.Record
}

func (Branch) isNode() {}
func (Leaf) isNode()   {}

// Build assembles a tree from records. Keys must be valid dotted paths and no
// key may be a strict prefix of another; violations return ErrKeyConflict or
// ErrInvalidKey naming the offending key.
func Build(records []*domain.Record) (Branch, error) {
	root := Branch{}
	for _, r := range records {
		var err error
		root, err = insert(root, r)
		if err != nil {
			return nil, err
		}
	}
	return root, nil
}

// Insert returns a new tree with the record added. The input tree is never
// modified; unchanged subtrees are shared between the old and new tree.
// Inserting at an existing leaf path replaces that leaf.
func Insert(root Branch, r *domain.Record) (Branch, error) {
	return insert(root, r)
}

func insert(root Branch, r *domain.Record) (Branch, error) {
	if err := domain.ValidateKey(r.Key); err != nil {
		return nil, fmt.Errorf("%w: %q", err, r.Key)
	}
	segs := strings.Split(r.Key, ".")
	node, err := insertAt(root, segs, r)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, r.Key)
	}
	return node.(Branch), nil
}

func insertAt(n Node, segs []string, r *domain.Record) (Node, error) {
	if len(segs) == 0 {
		return Leaf{Record: r}, nil
	}
	b, ok := n.(Branch)
	if !ok {
		// A leaf sits where the path needs a branch.
		return nil, domain.ErrKeyConflict
	}
	child, exists := b[segs[0]]
	if !exists {
		child = Branch{}
	}
	if len(segs) == 1 {
		if _, isBranch := child.(Branch); isBranch && exists {
			// A branch sits where the leaf should go.
			return nil, domain.ErrKeyConflict
		}
		child = Branch{}
	}
	sub, err := insertAt(child, segs[1:], r)
	if err != nil {
		return nil, err
	}
	out := make(Branch, len(b)+1)
	for k, v := range b {
		out[k] = v
	}
	out[segs[0]] = sub
	return out, nil
}

// Remove returns a new tree without the leaf at key, pruning branches left
// empty. Removing an absent key returns an equivalent tree.
func Remove(root Branch, key string) Branch {
	out, _ := removeAt(root, strings.Split(key, "."))
	if out == nil {
		return Branch{}
	}
	return out.(Branch)
}

// removeAt returns the replacement node, or nil when the node became empty.
func removeAt(n Node, segs []string) (Node, bool) {
	b, ok := n.(Branch)
	if !ok {
		return n, false
	}
	child, exists := b[segs[0]]
	if !exists {
		return b, false
	}
	var sub Node
	var removed bool
	if len(segs) == 1 {
		if _, isLeaf := child.(Leaf); !isLeaf {
			return b, false
		}
		sub, removed = nil, true
	} else {
		sub, removed = removeAt(child, segs[1:])
	}
	if !removed {
		return b, false
	}
	out := make(Branch, len(b))
	for k, v := range b {
		out[k] = v
	}
	if sub == nil {
		delete(out, segs[0])
	} else {
		out[segs[0]] = sub
	}
	if len(out) == 0 {
		return nil, true
	}
	return out, true
}

// Flatten collects every leaf into a flat list sorted by key.
// Flatten(Build(x)) reproduces x as a set.
func Flatten(root Branch) []*domain.Record {
	var out []*domain.Record
	walk(root, func(_ string, r *domain.Record) {
		out = append(out, r)
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func walk(n Node, visit func(path string, r *domain.Record)) {
	walkPrefix(n, "", visit)
}

func walkPrefix(n Node, prefix string, visit func(string, *domain.Record)) {
	switch v := n.(type) {
	case Leaf:
		visit(prefix, v.Record)
	case Branch:
		for seg, child := range v {
			p := seg
			if prefix != "" {
				p = prefix + "." + seg
			}
			walkPrefix(child, p, visit)
		}
	}
}

// Has reports whether a branch or leaf exists at the dotted path.
func Has(root Branch, path string) bool {
	_, ok := at(root, path)
	return ok
}

// ChildKeys lists the immediate child segments under path, sorted.
// An empty path addresses the root.
func ChildKeys(root Branch, path string) []string {
	n, ok := at(root, path)
	if !ok {
		return nil
	}
	b, ok := n.(Branch)
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Leaves lists every descendant record under path, sorted by key.
func Leaves(root Branch, path string) []*domain.Record {
	n, ok := at(root, path)
	if !ok {
		return nil
	}
	var out []*domain.Record
	walk(n, func(_ string, r *domain.Record) {
		out = append(out, r)
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Depth returns the number of levels in the tree: 0 for an empty tree, 1 for
// root-level leaves only.
func Depth(root Branch) int {
	if len(root) == 0 {
		return 0
	}
	deepest := 0
	for _, child := range root {
		d := 1
		if b, ok := child.(Branch); ok {
			d += Depth(b)
		}
		if d > deepest {
			deepest = d
		}
	}
	return deepest
}

func at(root Branch, path string) (Node, bool) {
	if path == "" {
		return root, true
	}
	var n Node = root
	for _, seg := range strings.Split(path, ".") {
		b, ok := n.(Branch)
		if !ok {
			return nil, false
		}
		n, ok = b[seg]
		if !ok {
			return nil, false
		}
	}
	return n, true
}

// LocaleTree projects one locale's strings into a plain nested map for export
// and locale files. Blank values are omitted. Unlike Build, a key that is a
// prefix of another is resolved last-write-wins in sorted key order, so a
// projection of any stored collection always succeeds.
func LocaleTree(records []*domain.Record, locale string) map[string]any {
	sorted := make([]*domain.Record, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

	out := map[string]any{}
	for _, r := range sorted {
		val := r.Translations[locale]
		if strings.TrimSpace(val) == "" {
			continue
		}
		segs := strings.Split(r.Key, ".")
		cur := out
		for _, seg := range segs[:len(segs)-1] {
			next, ok := cur[seg].(map[string]any)
			if !ok {
				next = map[string]any{}
				cur[seg] = next
			}
			cur = next
		}
		cur[segs[len(segs)-1]] = val
	}
	return out
}
