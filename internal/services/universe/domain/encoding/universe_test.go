package encoding

import (
	"testing"

	apperrors "github.com/louisbranch/tickverse/internal/platform/errors"
	"github.com/louisbranch/tickverse/internal/services/universe/domain/universe"
)

func TestCellsRoundTrip(t *testing.T) {
	cells := []universe.Cell{universe.Alive, universe.Dead, universe.Dead, universe.Alive}
	encoded := EncodeCells(cells)
	if encoded != "1001" {
		t.Fatalf("EncodeCells = %q, want 1001", encoded)
	}
	decoded, err := DecodeCells(encoded)
	if err != nil {
		t.Fatalf("DecodeCells: %v", err)
	}
	for i := range cells {
		if decoded[i] != cells[i] {
			t.Fatalf("cell %d = %d, want %d", i, decoded[i], cells[i])
		}
	}
}

func TestDecodeCellsRejectsUnknownDigit(t *testing.T) {
	_, err := DecodeCells("0120")
	if err == nil {
		t.Fatal("expected error")
	}
	if code := apperrors.GetCode(err); code != apperrors.CodeUniverseCorrupt {
		t.Fatalf("code = %s, want %s", code, apperrors.CodeUniverseCorrupt)
	}
}

func TestRecordUniverseValidates(t *testing.T) {
	_, err := Record{Width: 2, Height: 2, Cells: "101", Owner: "alice"}.Universe()
	if code := apperrors.GetCode(err); code != apperrors.CodeUniverseCorrupt {
		t.Fatalf("code = %s, want %s", code, apperrors.CodeUniverseCorrupt)
	}

	u, err := Record{Width: 2, Height: 2, Cells: "1001", Owner: "alice"}.Universe()
	if err != nil {
		t.Fatalf("Universe: %v", err)
	}
	if u.Owner != "alice" || u.LiveCells() != 2 {
		t.Fatalf("unexpected universe %+v", u)
	}
}

func TestUniverseIDIsDeterministic(t *testing.T) {
	first, err := universe.Seed(universe.DefaultWidth, universe.DefaultHeight, "alice")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	second, err := universe.Seed(universe.DefaultWidth, universe.DefaultHeight, "alice")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	a, err := UniverseID(first)
	if err != nil {
		t.Fatalf("UniverseID: %v", err)
	}
	b, err := UniverseID(second)
	if err != nil {
		t.Fatalf("UniverseID: %v", err)
	}
	if a != b {
		t.Fatalf("ids differ: %s != %s", a, b)
	}
	if !ValidID(a.String()) {
		t.Fatalf("id %s is not valid", a)
	}
}

func TestUniverseIDCoversEveryField(t *testing.T) {
	base, err := universe.Seed(4, 4, "alice")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	baseID, err := UniverseID(base)
	if err != nil {
		t.Fatalf("UniverseID: %v", err)
	}

	otherOwner := base.Clone()
	otherOwner.Owner = "bob"

	otherCells := base.Clone()
	otherCells.Cells[1] = universe.Alive

	otherShape, err := universe.Seed(8, 2, "alice")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	for name, u := range map[string]universe.Universe{
		"owner": otherOwner,
		"cells": otherCells,
		"shape": otherShape,
	} {
		id, err := UniverseID(u)
		if err != nil {
			t.Fatalf("%s: UniverseID: %v", name, err)
		}
		if id == baseID {
			t.Fatalf("%s change did not change the id", name)
		}
	}
}

func TestValidID(t *testing.T) {
	valid := "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
	if !ValidID(valid) {
		t.Fatal("expected valid id")
	}
	for _, s := range []string{"", "abc", valid[:63] + "G", valid[:63] + "A", valid + "0"} {
		if ValidID(s) {
			t.Fatalf("ValidID(%q) = true", s)
		}
	}
}
