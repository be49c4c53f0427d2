package graph

import "testing"

func TestGraphBasics(t *testing.T) {
	g := NewGraph()

	// Add nodes
	g.EnsureNode("n1", "Project Plan")
	g.EnsureNode("n2", "Meeting Notes")
	g.EnsureNode("n3", "Reading List")

	if g.NodeCount() != 3 {
		t.Errorf("NodeCount = %d, want 3", g.NodeCount())
	}

	// Add edges
	g.Connect("n1", "n2", &LinkEdge{ID: "e-n1-n2"})
	g.Connect("n1", "n3", &LinkEdge{ID: "e-n1-n3"})

	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount = %d, want 2", g.EdgeCount())
	}

	// Query neighbors
	neighbors := g.Neighbors("n1")
	if len(neighbors) != 2 {
		t.Errorf("n1 neighbors = %d, want 2", len(neighbors))
	}
}

func TestConnectIsDirected(t *testing.T) {
	g := NewGraph()

	g.EnsureNode("a", "A")
	g.EnsureNode("b", "B")
	g.Connect("a", "b", &LinkEdge{ID: "e-a-b"})

	if !g.Connected("a", "b") {
		t.Error("a -> b should be connected")
	}
	if g.Connected("b", "a") {
		t.Error("b -> a should not be connected")
	}

	// But neighbors sees both directions
	if len(g.Neighbors("b")) != 1 {
		t.Errorf("b neighbors = %d, want 1", len(g.Neighbors("b")))
	}
}

func TestDisconnect(t *testing.T) {
	g := NewGraph()

	g.EnsureNode("a", "A")
	g.EnsureNode("b", "B")
	g.Connect("a", "b", &LinkEdge{ID: "e-a-b"})
	g.Disconnect("a", "b")

	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount = %d, want 0", g.EdgeCount())
	}
	if len(g.Neighbors("b")) != 0 {
		t.Error("reverse index should be cleaned up")
	}
}

func TestRemoveNode(t *testing.T) {
	g := NewGraph()

	g.EnsureNode("a", "A")
	g.EnsureNode("b", "B")
	g.EnsureNode("c", "C")
	g.Connect("a", "b", &LinkEdge{ID: "e-a-b"})
	g.Connect("c", "a", &LinkEdge{ID: "e-c-a"})

	g.RemoveNode("a")

	if g.NodeCount() != 2 {
		t.Errorf("NodeCount = %d, want 2", g.NodeCount())
	}
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount = %d, want 0", g.EdgeCount())
	}
	if len(g.Neighbors("b")) != 0 || len(g.Neighbors("c")) != 0 {
		t.Error("edges touching the removed note should be gone in both directions")
	}
}

func TestEnsureNodeUpdatesTitle(t *testing.T) {
	g := NewGraph()

	g.EnsureNode("n1", "Untitled")
	g.EnsureNode("n1", "Project Plan")

	if g.NodeCount() != 1 {
		t.Errorf("NodeCount = %d, want 1", g.NodeCount())
	}
	if g.GetNode("n1").Title != "Project Plan" {
		t.Errorf("Title = %q, want %q", g.GetNode("n1").Title, "Project Plan")
	}
}

func TestOrphanNodes(t *testing.T) {
	g := NewGraph()

	g.EnsureNode("connected", "Connected")
	g.EnsureNode("orphan", "Orphan")
	g.EnsureNode("target", "Target")

	g.Connect("connected", "target", &LinkEdge{ID: "e1"})

	orphans := g.OrphanNodes()
	if len(orphans) != 1 {
		t.Errorf("Orphan count = %d, want 1", len(orphans))
	}
	if orphans[0].ID != "orphan" {
		t.Errorf("Orphan ID = %s, want 'orphan'", orphans[0].ID)
	}
}

func TestDegreeCentrality(t *testing.T) {
	g := NewGraph()

	g.EnsureNode("hub", "Hub")
	g.EnsureNode("a", "A")
	g.EnsureNode("b", "B")
	g.EnsureNode("c", "C")

	// Hub connects to all
	g.Connect("hub", "a", &LinkEdge{ID: "e1"})
	g.Connect("hub", "b", &LinkEdge{ID: "e2"})
	g.Connect("hub", "c", &LinkEdge{ID: "e3"})

	centrality := g.DegreeCentrality()

	// Hub should have highest centrality
	if centrality["hub"] <= centrality["a"] {
		t.Error("Hub should have higher centrality than leaf notes")
	}
}
