package refdata

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadEmbedded(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff([]string{"VX-APL-108", "VX-CGT-001", "VX-SM-042"}, c.FlightIDs()); diff != "" {
		t.Fatalf("flight ids (-want +got):\n%s", diff)
	}
	f, ok := c.Flight("VX-CGT-001")
	if !ok || f.PatientID != "PT-7829" || f.Status != "GROUNDED" || f.OriginAirport != "ORD" {
		t.Fatalf("VX-CGT-001 = %+v", f)
	}
	if len(c.CryoDepots()) != 3 || c.CryoDepots()[0].ID != "CHI-CRYO" {
		t.Fatalf("depots = %+v", c.CryoDepots())
	}
	if len(c.SOPTypes()) != 5 {
		t.Fatalf("sops = %v", c.SOPTypes())
	}
	if len(c.Flashcards()) == 0 || len(c.Categories()) == 0 {
		t.Fatal("empty flashcard deck")
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	c := MustLoad()

	flights := c.Flights()
	delete(flights, "VX-CGT-001")
	if _, ok := c.Flight("VX-CGT-001"); !ok {
		t.Fatal("deleting from Flights() result mutated the catalog")
	}

	d, _ := c.DemandSignal("southeast")
	d.TrendingStates[0] = "Nowhere"
	again, _ := c.DemandSignal("SOUTHEAST")
	if again.TrendingStates[0] != "Florida" {
		t.Fatalf("trending states mutated: %v", again.TrendingStates)
	}

	depots := c.CryoDepots()
	depots[0].AvailableSlots = 0
	if c.CryoDepots()[0].AvailableSlots != 28 {
		t.Fatal("depot slice shared with caller")
	}

	sop, _ := c.SOP("CRYO_EMERGENCY")
	sop.Steps[0] = "skip"
	again2, _ := c.SOP("CRYO_EMERGENCY")
	if again2.Steps[0] == "skip" {
		t.Fatal("sop steps shared with caller")
	}
}

func TestDemandSignalNormalizesEmptyTrending(t *testing.T) {
	d, ok := MustLoad().DemandSignal("Northeast")
	if !ok {
		t.Fatal("NORTHEAST missing")
	}
	if d.TrendingStates == nil {
		t.Fatal("trending states should be an empty slice, not nil")
	}
}

func TestParseRejectsUnknownAirport(t *testing.T) {
	ref := []byte("flights:\n  X-1:\n    status: DELAYED\n    origin_airport: ZZZ\n")
	if _, err := Parse(ref, []byte("flashcards: []")); err == nil {
		t.Fatal("expected unknown airport error")
	}
}

func TestParseRejectsDuplicateFlashcards(t *testing.T) {
	ref := []byte("flights:\n  X-1:\n    status: DELAYED\n")
	deck := []byte("flashcards:\n  - {id: 1, category: A, front: a, back: b}\n  - {id: 1, category: A, front: c, back: d}\n")
	if _, err := Parse(ref, deck); err == nil {
		t.Fatal("expected duplicate id error")
	}
}
