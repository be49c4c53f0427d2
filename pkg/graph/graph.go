// Package graph maintains the in-memory link graph of the canvas: notes
// as nodes, connections as directed edges with a reverse index so both
// directions of a relationship are cheap to walk.
package graph

// NoteNode is a note as the graph sees it.
type NoteNode struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// LinkEdge is a connection between two notes. CreatedAt is Unix
// milliseconds, matching the store's timestamps.
type LinkEdge struct {
	ID        string `json:"id"`
	CreatedAt int64  `json:"createdAt"`
}

// NoteGraph is a directed graph of note connections.
type NoteGraph struct {
	// Node storage: ID -> Node
	Nodes map[string]*NoteNode `json:"nodes"`

	// Adjacency lists: SourceID -> TargetID -> Edge
	Outbound map[string]map[string]*LinkEdge `json:"outbound"`
	Inbound  map[string]map[string]*LinkEdge `json:"inbound"`
}

// NewGraph creates an empty graph.
func NewGraph() *NoteGraph {
	return &NoteGraph{
		Nodes:    make(map[string]*NoteNode),
		Outbound: make(map[string]map[string]*LinkEdge),
		Inbound:  make(map[string]map[string]*LinkEdge),
	}
}

// EnsureNode adds a node if it doesn't exist, returns the existing node
// otherwise. Title is updated in place so renames propagate.
func (g *NoteGraph) EnsureNode(id, title string) *NoteNode {
	if existing, exists := g.Nodes[id]; exists {
		existing.Title = title
		return existing
	}

	node := &NoteNode{ID: id, Title: title}
	g.Nodes[id] = node
	return node
}

// Connect creates a directed edge from source to target. Connecting the
// same pair twice replaces the edge.
func (g *NoteGraph) Connect(sourceID, targetID string, edge *LinkEdge) {
	if g.Outbound[sourceID] == nil {
		g.Outbound[sourceID] = make(map[string]*LinkEdge)
	}
	g.Outbound[sourceID][targetID] = edge

	// Maintain reverse index
	if g.Inbound[targetID] == nil {
		g.Inbound[targetID] = make(map[string]*LinkEdge)
	}
	g.Inbound[targetID][sourceID] = edge
}

// Disconnect removes the edge from source to target, if present.
func (g *NoteGraph) Disconnect(sourceID, targetID string) {
	delete(g.Outbound[sourceID], targetID)
	delete(g.Inbound[targetID], sourceID)
}

// Connected reports whether an edge exists from source to target.
func (g *NoteGraph) Connected(sourceID, targetID string) bool {
	_, ok := g.Outbound[sourceID][targetID]
	return ok
}

// GetNode retrieves a node by ID.
func (g *NoteGraph) GetNode(id string) *NoteNode {
	return g.Nodes[id]
}

// RemoveNode deletes a note and every edge touching it.
func (g *NoteGraph) RemoveNode(id string) {
	for targetID := range g.Outbound[id] {
		delete(g.Inbound[targetID], id)
	}
	for sourceID := range g.Inbound[id] {
		delete(g.Outbound[sourceID], id)
	}
	delete(g.Outbound, id)
	delete(g.Inbound, id)
	delete(g.Nodes, id)
}

// Neighbors returns all notes connected to the given note, in either
// direction.
func (g *NoteGraph) Neighbors(id string) []*NoteNode {
	seen := make(map[string]bool)
	var result []*NoteNode

	for targetID := range g.Outbound[id] {
		if !seen[targetID] {
			seen[targetID] = true
			if node := g.Nodes[targetID]; node != nil {
				result = append(result, node)
			}
		}
	}

	for sourceID := range g.Inbound[id] {
		if !seen[sourceID] {
			seen[sourceID] = true
			if node := g.Nodes[sourceID]; node != nil {
				result = append(result, node)
			}
		}
	}

	return result
}

// NodeCount returns the number of notes in the graph.
func (g *NoteGraph) NodeCount() int {
	return len(g.Nodes)
}

// EdgeCount returns the number of connections.
func (g *NoteGraph) EdgeCount() int {
	count := 0
	for _, targets := range g.Outbound {
		count += len(targets)
	}
	return count
}

// Clear removes all notes and connections.
func (g *NoteGraph) Clear() {
	g.Nodes = make(map[string]*NoteNode)
	g.Outbound = make(map[string]map[string]*LinkEdge)
	g.Inbound = make(map[string]map[string]*LinkEdge)
}

// DegreeCentrality computes (in+out)/(2*(n-1)) for each note. Hub notes
// score close to 1, isolated notes score 0.
func (g *NoteGraph) DegreeCentrality() map[string]float64 {
	n := len(g.Nodes)
	if n <= 1 {
		result := make(map[string]float64)
		for id := range g.Nodes {
			result[id] = 0.0
		}
		return result
	}

	normalizer := 2.0 * float64(n-1)
	result := make(map[string]float64, n)

	for id := range g.Nodes {
		outDegree := len(g.Outbound[id])
		inDegree := len(g.Inbound[id])
		result[id] = float64(outDegree+inDegree) / normalizer
	}

	return result
}

// OrphanNodes returns notes with no connections at all.
func (g *NoteGraph) OrphanNodes() []*NoteNode {
	var orphans []*NoteNode
	for id, node := range g.Nodes {
		if len(g.Outbound[id]) == 0 && len(g.Inbound[id]) == 0 {
			orphans = append(orphans, node)
		}
	}
	return orphans
}
