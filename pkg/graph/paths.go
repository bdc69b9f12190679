package graph

import (
	"github.com/OFFIS-RIT/gift/backend/pkg/common"
)

// Path is one maximal simple path, as the ordered sequence of edges walked
// from the core entity.
type Path []common.Edge

type pathFrame struct {
	node       string
	successors []common.Edge
	next       int
}

// EnumeratePaths returns every maximal simple path starting at root,
// via explicit-stack backtracking. The root counts as visited from the
// start; a non-empty path is recorded when the current node has no outgoing
// edges or every successor is already on the current path, which is what
// makes cyclic graphs terminate. Parallel edges to the same successor
// resolve to the first-inserted one. An unknown or isolated root yields no
// paths.
func EnumeratePaths(g *Graph, root string) []Path {
	if _, ok := g.nodes[root]; !ok {
		return nil
	}

	var paths []Path
	var current []common.Edge
	visited := map[string]bool{root: true}

	stack := []*pathFrame{{node: root, successors: g.successors(root)}}

	for len(stack) > 0 {
		frame := stack[len(stack)-1]

		if frame.next == 0 && len(current) > 0 && !hasUnvisited(frame.successors, visited) {
			path := make(Path, len(current))
			copy(path, current)
			paths = append(paths, path)
		}

		descended := false
		for frame.next < len(frame.successors) {
			edge := frame.successors[frame.next]
			frame.next++
			if visited[edge.Target] {
				continue
			}
			visited[edge.Target] = true
			current = append(current, edge)
			stack = append(stack, &pathFrame{node: edge.Target, successors: g.successors(edge.Target)})
			descended = true
			break
		}
		if descended {
			continue
		}

		stack = stack[:len(stack)-1]
		if len(stack) > 0 {
			delete(visited, frame.node)
			current = current[:len(current)-1]
		}
	}

	return paths
}

func hasUnvisited(successors []common.Edge, visited map[string]bool) bool {
	for _, edge := range successors {
		if !visited[edge.Target] {
			return true
		}
	}
	return false
}
