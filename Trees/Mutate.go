package Trees

import "golang.org/x/exp/constraints"

// ModKind classifies what a Modifier did at the target key.
type ModKind byte

const (
	//Identity left the entry untouched.
	Identity ModKind = iota
	//Rebuilding changed the entry's count without adding or removing it; the
	//tree keeps its shape, no rebalancing needed.
	Rebuilding
	//Rebalancing inserted or deleted the entry; the edited path must be
	//rebalanced.
	Rebalancing
)

// Modification is the outcome of a Modifier at one key: the entry before
// (nil if absent), the entry after (nil if deleted), and the kind of change.
// Build Modifications only with Unchanged, Rebuilt and Rebalanced, which
// enforce the per-kind invariants.
type Modification[T any, S constraints.Unsigned] struct {
	orig, changed *Node[T, S]
	kind          ModKind
}

// Unchanged is the identity Modification for orig.
func Unchanged[T any, S constraints.Unsigned](orig *Node[T, S]) Modification[T, S] {
	return Modification[T, S]{orig, orig, Identity}
}

// Rebuilt is a count-only change from orig to changed; both must be present.
func Rebuilt[T any, S constraints.Unsigned](orig, changed *Node[T, S]) Modification[T, S] {
	if orig == nil || changed == nil {
		panic("Trees: a rebuilding change must keep an entry on both sides")
	}
	return Modification[T, S]{orig, changed, Rebuilding}
}

// Rebalanced is an insertion (orig nil) or deletion (changed nil) at the key.
func Rebalanced[T any, S constraints.Unsigned](orig, changed *Node[T, S]) Modification[T, S] {
	return Modification[T, S]{orig, changed, Rebalancing}
}

func (u Modification[T, S]) Orig() *Node[T, S] {
	return u.orig
}
func (u Modification[T, S]) Changed() *Node[T, S] {
	return u.changed
}
func (u Modification[T, S]) Kind() ModKind {
	return u.kind
}

// Mutation is the whole-tree result of one Mutate call: the root before and
// after, plus the target-entry Modification. OrigRoot==NewRoot exactly when
// the modification was an identity; callers use the pair as the expected and
// new values of their atomic root swap.
type Mutation[T any, S constraints.Unsigned] struct {
	origRoot, newRoot *Node[T, S]
	mod               Modification[T, S]
}

func (u Mutation[T, S]) OrigRoot() *Node[T, S] {
	return u.origRoot
}
func (u Mutation[T, S]) NewRoot() *Node[T, S] {
	return u.newRoot
}

// OrigEntry at the target key before the mutation, nil if it was absent.
func (u Mutation[T, S]) OrigEntry() *Node[T, S] {
	return u.mod.orig
}

// NewEntry at the target key after the mutation, nil if deleted.
func (u Mutation[T, S]) NewEntry() *Node[T, S] {
	return u.mod.changed
}
func (u Mutation[T, S]) Kind() ModKind {
	return u.mod.kind
}

// lift recomputes the parent one level up: the child subtree on side s was
// this mutation's original root and is substituted with its new root,
// rebalancing through the rule's policy when the modification demands it.
func (u Mutation[T, S]) lift(rule MutationRule[T, S], parent *Node[T, S], s Side) Mutation[T, S] {
	if u.mod.kind == Identity {
		return Mutation[T, S]{parent, parent, u.mod}
	}
	l, r := parent.l, parent.r
	if s == Left {
		l = u.newRoot
	} else {
		r = u.newRoot
	}
	var np *Node[T, S]
	if u.mod.kind == Rebuilding {
		np = rule.Factory.Node(parent, l, r)
	} else {
		np = rule.Policy.Balance(rule.Factory, parent, l, r)
	}
	return Mutation[T, S]{parent, np, u.mod}
}

// Mutate walks from root toward v by cmp, applies rule.Mod at the key's
// position, and unwinds back up with lift. Only the walked path (plus nodes
// touched by rotations) is reallocated; every subtree off that path is shared
// by reference with the original tree, so root remains a valid snapshot.
// Recursive.
// Time: O(D)
func Mutate[T any, S constraints.Unsigned](cmp func(T, T) int, rule MutationRule[T, S], root *Node[T, S], v T) Mutation[T, S] {
	if root != nil {
		if c := cmp(v, root.v); c < 0 {
			return Mutate(cmp, rule, root.l, v).lift(rule, root, Left)
		} else if c > 0 {
			return Mutate(cmp, rule, root.r, v).lift(rule, root, Right)
		}
	}
	mod := rule.Mod.Modify(v, root)
	if mod.orig != root {
		panic("Trees: modifier must echo the entry it was given")
	}
	res := Mutation[T, S]{origRoot: root, mod: mod}
	var l, r *Node[T, S]
	if root != nil {
		l, r = root.l, root.r
	}
	switch mod.kind {
	case Identity:
		res.newRoot = root
	case Rebuilding:
		res.newRoot = rule.Factory.Node(mod.changed, l, r)
	default:
		if mod.changed != nil {
			res.newRoot = rule.Policy.Balance(rule.Factory, mod.changed, l, r)
		} else {
			res.newRoot = rule.Policy.Combine(rule.Factory, l, r)
		}
	}
	return res
}
