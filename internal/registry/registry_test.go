package registry

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func testTable() map[string]EntityConfig {
	return map[string]EntityConfig{
		"seal": {
			Description:    "Harbor and grey seals of the Wadden Sea",
			DatabaseName:   "wadden",
			ContainerName:  "seal_documents",
			GroundedPrompt: "Answer using only the seal knowledge base.",
		},
		"seagrass": {
			Description:   "Seagrass meadows and restoration",
			DatabaseName:  "wadden",
			ContainerName: "seagrass_documents",
		},
		"general": {
			Description:    "General marine biology questions",
			SimpleQuery:    true,
			GroundedPrompt: "You are a marine biology assistant.",
		},
	}
}

func TestGetKnownEntity(t *testing.T) {
	r := New(testTable())

	cfg, err := r.Get("seal")
	if err != nil {
		t.Fatalf("Get(seal) error: %v", err)
	}
	if cfg.ContainerName != "seal_documents" {
		t.Errorf("ContainerName = %q, want seal_documents", cfg.ContainerName)
	}
	if cfg.SimpleQuery {
		t.Error("seal should not be a simple-query entity")
	}
}

func TestGetUnknownEntity(t *testing.T) {
	r := New(testTable())

	_, err := r.Get("orca")
	if !errors.Is(err, ErrUnknownEntity) {
		t.Fatalf("expected ErrUnknownEntity, got %v", err)
	}
	// The error must enumerate every registered entity for diagnostics.
	for _, name := range []string{"general", "seagrass", "seal"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q does not list entity %q", err, name)
		}
	}
}

func TestGetIsCaseSensitive(t *testing.T) {
	r := New(testTable())

	if _, err := r.Get("Seal"); !errors.Is(err, ErrUnknownEntity) {
		t.Errorf("expected ErrUnknownEntity for wrong case, got %v", err)
	}
}

func TestListOrderedAndStable(t *testing.T) {
	r := New(testTable())

	first := r.List()
	second := r.List()

	if !reflect.DeepEqual(first, second) {
		t.Error("List is not stable across calls")
	}

	wantOrder := []string{"general", "seagrass", "seal"}
	for i, e := range first {
		if e.Name != wantOrder[i] {
			t.Errorf("List[%d].Name = %q, want %q", i, e.Name, wantOrder[i])
		}
	}
	if first[0].Description != "General marine biology questions" {
		t.Errorf("unexpected description: %q", first[0].Description)
	}
}

func TestNewCopiesTable(t *testing.T) {
	table := testTable()
	r := New(table)
	delete(table, "seal")

	if _, err := r.Get("seal"); err != nil {
		t.Errorf("registry affected by caller mutation: %v", err)
	}
}
