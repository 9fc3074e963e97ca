package models_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/FZX/DummyBlog/internal/models"
)

func TestContactSeenFlipsOnView(t *testing.T) {
	database := testDB(t)

	id, err := models.CreateContact(database, "A", "hi", "a@b.com", "203.0.113.9")
	if err != nil {
		t.Fatal(err)
	}

	list, _, err := models.ListContacts(database, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Seen {
		t.Fatalf("fresh message should be unseen, got %+v", list)
	}

	msg, err := models.GetContact(database, id)
	if err != nil {
		t.Fatal(err)
	}
	if !msg.Seen || msg.Name != "A" || msg.Message != "hi" || msg.Email != "a@b.com" {
		t.Fatalf("got %+v", msg)
	}
	if msg.GuestIP == nil || *msg.GuestIP != "203.0.113.9" {
		t.Fatalf("guest ip lost: %v", msg.GuestIP)
	}

	// the flip persists
	list, _, err = models.ListContacts(database, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !list[0].Seen {
		t.Fatal("seen flag did not persist")
	}
}

func TestContactMissingAndDelete(t *testing.T) {
	database := testDB(t)

	if _, err := models.GetContact(database, 42); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("missing message: %v", err)
	}

	id, err := models.CreateContact(database, "A", "hi", "a@b.com", "")
	if err != nil {
		t.Fatal(err)
	}
	msg, err := models.GetContact(database, id)
	if err != nil {
		t.Fatal(err)
	}
	if msg.GuestIP != nil {
		t.Fatalf("empty ip should be stored as null, got %q", *msg.GuestIP)
	}

	if err := models.DeleteContact(database, id); err != nil {
		t.Fatal(err)
	}
	if err := models.DeleteContact(database, id); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("double delete: %v", err)
	}
}

func TestContactPagination(t *testing.T) {
	database := testDB(t)
	for i := 1; i <= 12; i++ {
		if _, err := models.CreateContact(database, fmt.Sprintf("visitor %d", i), "hello", "v@example.com", ""); err != nil {
			t.Fatal(err)
		}
	}

	page1, pages, err := models.ListContacts(database, 1)
	if err != nil {
		t.Fatal(err)
	}
	if pages != 2 {
		t.Fatalf("pages = %d, want 2", pages)
	}
	if len(page1) != 10 || page1[0].Name != "visitor 12" || page1[9].Name != "visitor 3" {
		t.Fatalf("page 1 window wrong: first=%q last=%q", page1[0].Name, page1[len(page1)-1].Name)
	}

	page2, _, err := models.ListContacts(database, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(page2) != 2 || page2[0].Name != "visitor 2" || page2[1].Name != "visitor 1" {
		t.Fatalf("page 2 window wrong: %+v", page2)
	}
}
