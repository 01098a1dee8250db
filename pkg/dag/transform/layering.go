package transform

import "github.com/matzehuels/statewalk/pkg/dag"

// AssignLayers places every node one row below its lowest parent, so source
// nodes land in row 0 and every edge points downward.
//
// It is a longest-path layering computed with Kahn's topological sort.
// Existing rows are overwritten. Nodes on a cycle never reach in-degree
// zero and stay in row 0; run [BreakCycles] first.
//
// Time complexity is O(V + E).
func AssignLayers(g *dag.DAG) {
	ids := g.IDs()
	inDegree := make(map[string]int, len(ids))
	rows := make(map[string]int, len(ids))
	queue := make([]string, 0, len(ids))

	for _, id := range ids {
		rows[id] = 0
		inDegree[id] = g.InDegree(id)
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range g.Children(curr) {
			rows[child] = max(rows[child], rows[curr]+1)
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	g.SetRows(rows)
}
