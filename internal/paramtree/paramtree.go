// Package paramtree implements the C1 Score/Parameter Registry: a rooted
// tree of named nodes holding typed, restricted, described leaf entries
// (§3 "Parameter Tree"). Every other component (C3-C7) is parameterized
// through a *Node subtree.
package paramtree

import (
	"sort"
	"strconv"
	"strings"

	apperrors "github.com/msplatform/mscore/internal/errors"
)

// ValueType is the closed enumeration of entry value kinds.
type ValueType uint8

const (
	TypeInt ValueType = iota
	TypeFloat
	TypeString
	TypeIntList
	TypeFloatList
	TypeStringList
)

// Restriction bounds a numeric entry (Min/Max) or whitelists a string entry.
type Restriction struct {
	HasMin    bool
	Min       float64
	HasMax    bool
	Max       float64
	Whitelist []string // valid only for TypeString / TypeStringList
}

// Entry is a single typed, described, optionally-restricted leaf value.
type Entry struct {
	Name        string
	Type        ValueType
	IntValue    int64
	FloatValue  float64
	StringValue string
	IntList     []int64
	FloatList   []float64
	StringList  []string
	Description string
	Tags        []string
	Restriction *Restriction
}

// Valid reports whether the entry satisfies its own restriction, if any.
// A restriction violation renders the entry invalid (§3 invariant); it
// does not remove the entry, only flags it.
func (e *Entry) Valid() bool {
	if e.Restriction == nil {
		return true
	}
	r := e.Restriction
	switch e.Type {
	case TypeInt:
		return checkNumeric(float64(e.IntValue), r)
	case TypeFloat:
		return checkNumeric(e.FloatValue, r)
	case TypeString:
		return checkWhitelist(e.StringValue, r)
	case TypeIntList:
		for _, v := range e.IntList {
			if !checkNumeric(float64(v), r) {
				return false
			}
		}
		return true
	case TypeFloatList:
		for _, v := range e.FloatList {
			if !checkNumeric(v, r) {
				return false
			}
		}
		return true
	case TypeStringList:
		for _, v := range e.StringList {
			if !checkWhitelist(v, r) {
				return false
			}
		}
		return true
	}
	return true
}

func checkNumeric(v float64, r *Restriction) bool {
	if r.HasMin && v < r.Min {
		return false
	}
	if r.HasMax && v > r.Max {
		return false
	}
	return true
}

func checkWhitelist(v string, r *Restriction) bool {
	if len(r.Whitelist) == 0 {
		return true
	}
	for _, w := range r.Whitelist {
		if w == v {
			return true
		}
	}
	return false
}

// Node is a single level of the parameter tree. Every node has a unique
// local name among its siblings; names may not contain ':' (the path
// separator).
type Node struct {
	Name        string
	Description string
	Entries     map[string]*Entry
	Children    map[string]*Node
	parent      *Node
}

// NewNode creates an empty node with the given local name.
func NewNode(name string) (*Node, error) {
	if strings.Contains(name, ":") {
		return nil, apperrors.E(apperrors.Op("paramtree.NewNode"), apperrors.KindInvalidValue,
			"node name may not contain ':': "+name)
	}
	return &Node{
		Name:     name,
		Entries:  make(map[string]*Entry),
		Children: make(map[string]*Node),
	}, nil
}

// NewTree creates a root node, conventionally named "root".
func NewTree(rootName string) *Node {
	n, err := NewNode(rootName)
	apperrors.MustHandle(err)
	return n
}

// split divides a ':'-separated path into segments.
func split(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ":")
}

// childNode navigates to (creating if necessary) the node addressed by
// the given segments relative to n.
func (n *Node) childNode(segments []string, create bool) (*Node, error) {
	cur := n
	for _, seg := range segments {
		child, ok := cur.Children[seg]
		if !ok {
			if !create {
				return nil, apperrors.E(apperrors.Op("paramtree.childNode"), apperrors.KindNotFound,
					"no such node: "+seg)
			}
			var err error
			child, err = NewNode(seg)
			if err != nil {
				return nil, err
			}
			child.parent = cur
			cur.Children[seg] = child
		}
		cur = child
	}
	return cur, nil
}

// SetEntry inserts or replaces the entry at path (e.g. "mrm:peak_picking:sgolay_frame_length"),
// creating intermediate nodes as needed.
func (n *Node) SetEntry(path string, e *Entry) error {
	segs := split(path)
	if len(segs) == 0 {
		return apperrors.E(apperrors.Op("paramtree.SetEntry"), apperrors.KindInvalidValue, "empty path")
	}
	nodePath, leaf := segs[:len(segs)-1], segs[len(segs)-1]
	if strings.Contains(leaf, ",") {
		return apperrors.E(apperrors.Op("paramtree.SetEntry"), apperrors.KindInvalidValue,
			"entry name may not contain ','")
	}
	for _, tag := range e.Tags {
		if strings.Contains(tag, ",") {
			return apperrors.E(apperrors.Op("paramtree.SetEntry"), apperrors.KindInvalidValue,
				"tag may not contain ','")
		}
	}
	node, err := n.childNode(nodePath, true)
	if err != nil {
		return err
	}
	e.Name = leaf
	node.Entries[leaf] = e
	return nil
}

// GetEntry looks up the entry at path.
func (n *Node) GetEntry(path string) (*Entry, error) {
	segs := split(path)
	if len(segs) == 0 {
		return nil, apperrors.E(apperrors.Op("paramtree.GetEntry"), apperrors.KindInvalidValue, "empty path")
	}
	nodePath, leaf := segs[:len(segs)-1], segs[len(segs)-1]
	node, err := n.childNode(nodePath, false)
	if err != nil {
		return nil, err
	}
	e, ok := node.Entries[leaf]
	if !ok {
		return nil, apperrors.E(apperrors.Op("paramtree.GetEntry"), apperrors.KindNotFound, "no such entry: "+path)
	}
	return e, nil
}

// GetNode looks up the node at path.
func (n *Node) GetNode(path string) (*Node, error) {
	return n.childNode(split(path), false)
}

// RemoveEntry deletes the entry at path, then prunes any node that
// becomes empty of entries and subnodes, walking up toward the root.
func (n *Node) RemoveEntry(path string) error {
	segs := split(path)
	if len(segs) == 0 {
		return apperrors.E(apperrors.Op("paramtree.RemoveEntry"), apperrors.KindInvalidValue, "empty path")
	}
	nodePath, leaf := segs[:len(segs)-1], segs[len(segs)-1]
	node, err := n.childNode(nodePath, false)
	if err != nil {
		return err
	}
	if _, ok := node.Entries[leaf]; !ok {
		return apperrors.E(apperrors.Op("paramtree.RemoveEntry"), apperrors.KindNotFound, "no such entry: "+path)
	}
	delete(node.Entries, leaf)
	node.pruneUpward()
	return nil
}

// empty reports whether the node has no entries and no children.
func (n *Node) empty() bool {
	return len(n.Entries) == 0 && len(n.Children) == 0
}

// pruneUpward removes n from its parent if n is now empty, and repeats
// for each successive ancestor.
func (n *Node) pruneUpward() {
	cur := n
	for cur.parent != nil && cur.empty() {
		p := cur.parent
		delete(p.Children, cur.Name)
		cur = p
	}
}

// Validate walks the whole tree and returns the paths of every entry
// that currently violates its own restriction.
func (n *Node) Validate() []string {
	var invalid []string
	n.walk("", func(path string, e *Entry) {
		if !e.Valid() {
			invalid = append(invalid, path)
		}
	})
	sort.Strings(invalid)
	return invalid
}

// walk performs a deterministic (name-sorted) pre-order traversal of all
// entries reachable from n, invoking fn with the full ':'-joined path.
func (n *Node) walk(prefix string, fn func(path string, e *Entry)) {
	names := make([]string, 0, len(n.Entries))
	for name := range n.Entries {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		path := name
		if prefix != "" {
			path = prefix + ":" + name
		}
		fn(path, n.Entries[name])
	}

	childNames := make([]string, 0, len(n.Children))
	for name := range n.Children {
		childNames = append(childNames, name)
	}
	sort.Strings(childNames)
	for _, name := range childNames {
		path := name
		if prefix != "" {
			path = prefix + ":" + name
		}
		n.Children[name].walk(path, fn)
	}
}

// --- convenience typed accessors, used pervasively by C3-C7 ---

// GetIntOr returns the int value at path, or def if absent/wrong type.
func (n *Node) GetIntOr(path string, def int64) int64 {
	e, err := n.GetEntry(path)
	if err != nil || e.Type != TypeInt {
		return def
	}
	return e.IntValue
}

// GetFloatOr returns the float value at path, or def if absent/wrong type.
func (n *Node) GetFloatOr(path string, def float64) float64 {
	e, err := n.GetEntry(path)
	if err != nil || e.Type != TypeFloat {
		return def
	}
	return e.FloatValue
}

// GetStringOr returns the string value at path, or def if absent/wrong type.
func (n *Node) GetStringOr(path string, def string) string {
	e, err := n.GetEntry(path)
	if err != nil || e.Type != TypeString {
		return def
	}
	return e.StringValue
}

// GetBoolOr interprets a string entry ("true"/"false") as a boolean,
// matching OpenMS's convention of representing booleans as restricted
// strings.
func (n *Node) GetBoolOr(path string, def bool) bool {
	e, err := n.GetEntry(path)
	if err != nil || e.Type != TypeString {
		return def
	}
	switch strings.ToLower(e.StringValue) {
	case "true":
		return true
	case "false":
		return false
	default:
		return def
	}
}

// SetInt is a convenience wrapper around SetEntry for int entries.
func (n *Node) SetInt(path string, v int64, description string) {
	apperrors.MustHandle(n.SetEntry(path, &Entry{Type: TypeInt, IntValue: v, Description: description}))
}

// SetFloat is a convenience wrapper around SetEntry for float entries.
func (n *Node) SetFloat(path string, v float64, description string) {
	apperrors.MustHandle(n.SetEntry(path, &Entry{Type: TypeFloat, FloatValue: v, Description: description}))
}

// SetString is a convenience wrapper around SetEntry for string entries.
func (n *Node) SetString(path string, v string, description string) {
	apperrors.MustHandle(n.SetEntry(path, &Entry{Type: TypeString, StringValue: v, Description: description}))
}

// formatFloat renders a float the way the round-trip codec expects: the
// shortest representation that reparses to the same value.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
