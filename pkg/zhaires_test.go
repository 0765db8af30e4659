package simtrees

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestZHAireSExtraIdentity(t *testing.T) {
	r := NewZHAireSExtra()
	if got := r.TreeType(); got != "eventshowerzhaires" {
		t.Errorf("TreeType() = %q, want eventshowerzhaires", got)
	}
	if got := r.TreeName(); got != "teventshowerzhaires" {
		t.Errorf("TreeName() = %q, want teventshowerzhaires", got)
	}
}

func TestZHAireSParameters(t *testing.T) {
	r := NewZHAireSExtra()
	keys := []string{"InjectionAltitude", "GroundAltitude"}
	values := []string{"100 km", "1264 m"}
	if err := r.SetParameters(keys, values); err != nil {
		t.Fatalf("SetParameters: %v", err)
	}
	if err := r.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	want := map[string]string{
		"InjectionAltitude": "100 km",
		"GroundAltitude":    "1264 m",
	}
	if diff := cmp.Diff(want, r.Parameters()); diff != "" {
		t.Errorf("Parameters (-want +got):\n%s", diff)
	}

	if err := r.SetParameters([]string{"a", "b"}, []string{"1"}); err == nil {
		t.Fatal("SetParameters with uneven slices should fail")
	}
}

func TestZHAireSCutsStayStrings(t *testing.T) {
	r := NewZHAireSExtra()
	if err := r.SetField("gamma_energy_cut", "80 MeV"); err != nil {
		t.Fatalf("SetField(gamma_energy_cut): %v", err)
	}
	if err := r.SetField("gamma_energy_cut", 80.0); err == nil {
		t.Fatal("a numeric gamma_energy_cut should be rejected in this tree")
	}
	if got := r.GammaEnergyCut.Get(); got != "80 MeV" {
		t.Errorf("GammaEnergyCut = %q, want \"80 MeV\"", got)
	}

	if err := r.SetField("weight_factor", 1.0); err != nil {
		t.Fatalf("SetField(weight_factor): %v", err)
	}
}
