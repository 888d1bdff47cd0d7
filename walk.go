package recfile

// Walk calls fn for each node in nodes and their descendants, depth-first, in
// the order they appear in the file. Walking stops when fn returns false.
// Walk returns false if it was stopped.
func Walk(nodes []Node, fn func(node Node) bool) bool {
	for _, node := range nodes {
		if !fn(node) {
			return false
		}
		if !Walk(node.Children(), fn) {
			return false
		}
	}
	return true
}

// Find returns every node in the tree whose kind and type match tag, such as
// "DATASDSC".
func Find(nodes []Node, tag string) []Node {
	var found []Node
	Walk(nodes, func(node Node) bool {
		if node.Header().Tag() == tag {
			found = append(found, node)
		}
		return true
	})
	return found
}

// Count returns the number of nodes in the tree.
func Count(nodes []Node) int {
	n := 0
	Walk(nodes, func(Node) bool {
		n++
		return true
	})
	return n
}
