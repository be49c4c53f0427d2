package main

import (
	"fmt"
	"log"
	"time"

	"github.com/nebulanotes/gonebula/internal/session"
	"github.com/nebulanotes/gonebula/internal/store"
)

func main() {
	fmt.Println("Testing MemStore...")
	testStore(store.NewMemStore())

	fmt.Println("\nTesting SQLiteStore...")
	sqlite, err := store.NewSQLiteStore()
	if err != nil {
		log.Fatalf("NewSQLiteStore failed: %v", err)
	}
	testStore(sqlite)

	fmt.Println("\nTesting task derivation...")
	testTaskDerivation()

	fmt.Println("\n✅ All checks passed!")
}

func testStore(s store.Storer) {
	defer s.Close()

	now := time.Now().UnixMilli()
	note := &store.Note{
		ID:        "test-note-1",
		Title:     "Test Note",
		Content:   "<p>hello</p>",
		PlainText: "hello",
		X:         100,
		Y:         200,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.UpsertNote(note); err != nil {
		log.Fatalf("UpsertNote failed: %v", err)
	}
	fmt.Println("  ✓ UpsertNote works")

	retrieved, err := s.GetNote("test-note-1")
	if err != nil {
		log.Fatalf("GetNote failed: %v", err)
	}
	if retrieved == nil {
		log.Fatal("GetNote returned nil")
	}
	fmt.Println("  ✓ GetNote works")

	count, err := s.CountNotes()
	if err != nil {
		log.Fatalf("CountNotes failed: %v", err)
	}
	if count != 1 {
		log.Fatalf("CountNotes expected 1, got %d", count)
	}
	fmt.Println("  ✓ CountNotes works")

	edge := &store.Edge{ID: "e-a-b", SourceID: "test-note-1", TargetID: "other", CreatedAt: now}
	if err := s.UpsertEdge(edge); err != nil {
		log.Fatalf("UpsertEdge failed: %v", err)
	}
	fmt.Println("  ✓ UpsertEdge works")
}

func testTaskDerivation() {
	sess, err := session.New(session.Config{Store: store.NewMemStore()})
	if err != nil {
		log.Fatalf("session.New failed: %v", err)
	}
	defer sess.Close()

	today := time.Now().Format("2006-01-02")
	content := fmt.Sprintf("- [ ] Review the draft @due:%s\n- [ ] Someday: learn the accordion\n- [x] Book flights", today)
	if _, err := sess.CreateNoteAt("Week plan", content, 0, 0); err != nil {
		log.Fatalf("CreateNoteAt failed: %v", err)
	}

	buckets := sess.Tasks()
	if len(buckets.Today) != 1 {
		log.Fatalf("expected 1 task due today, got %d", len(buckets.Today))
	}
	fmt.Println("  ✓ Due-today bucket works")

	if len(buckets.NoDate) != 1 {
		log.Fatalf("expected 1 undated task, got %d", len(buckets.NoDate))
	}
	fmt.Println("  ✓ No-date bucket works")

	if len(buckets.Completed) != 1 {
		log.Fatalf("expected 1 completed task, got %d", len(buckets.Completed))
	}
	fmt.Println("  ✓ Completed list works")

	if err := sess.ToggleTask(buckets.Today[0]); err != nil {
		log.Fatalf("ToggleTask failed: %v", err)
	}
	if got := len(sess.Tasks().Completed); got != 2 {
		log.Fatalf("expected 2 completed tasks after toggle, got %d", got)
	}
	fmt.Println("  ✓ Toggle write-back works")
}
