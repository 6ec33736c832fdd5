package workspace

import (
	"sort"
	"strings"
)

// NodeKind distinguishes folders from files in the explorer tree.
type NodeKind int

const (
	NodeFolder NodeKind = iota
	NodeFile
)

// Node is one entry in the file tree. Folders carry children keyed by name;
// files are leaves.
type Node struct {
	Name     string
	Path     string
	Kind     NodeKind
	Children map[string]*Node
}

// BuildTree projects a flat list of slash-separated paths into a folder/file
// tree rooted at an unnamed folder. The tree is rebuilt from scratch on every
// file-list change, never mutated incrementally. Empty path segments are
// discarded; a duplicate file path overwrites the earlier node.
func BuildTree(paths []string) *Node {
	root := &Node{Kind: NodeFolder, Children: make(map[string]*Node)}
	for _, p := range paths {
		parts := splitPath(p)
		if len(parts) == 0 {
			continue
		}
		node := root
		current := ""
		for i, part := range parts {
			if current == "" {
				current = part
			} else {
				current = current + "/" + part
			}
			if i == len(parts)-1 {
				node.Children[part] = &Node{Name: part, Path: current, Kind: NodeFile}
				continue
			}
			child, ok := node.Children[part]
			if !ok || child.Kind != NodeFolder {
				child = &Node{
					Name:     part,
					Path:     current,
					Kind:     NodeFolder,
					Children: make(map[string]*Node),
				}
				node.Children[part] = child
			}
			node = child
		}
	}
	return root
}

func splitPath(p string) []string {
	var parts []string
	for _, part := range strings.Split(p, "/") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

// SortedChildren returns the node's children in display order: folders before
// files, each group lexically by name. This ordering is part of the contract
// with the explorer and with navigation, not a rendering nicety.
func (n *Node) SortedChildren() []*Node {
	children := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		children = append(children, c)
	}
	sort.Slice(children, func(i, j int) bool {
		a, b := children[i], children[j]
		if a.Kind != b.Kind {
			return a.Kind == NodeFolder
		}
		return a.Name < b.Name
	})
	return children
}

// ExpandedByDefault reports the default expansion for a folder at the given
// depth: top-level folders start open, deeper ones collapsed.
func ExpandedByDefault(depth int) bool {
	return depth < 1
}
