package densmd

import "testing"

func TestIndexSpecies(Te *testing.T) {
	symbols := []string{"Zr", "O", "H", "O", "Zr", "H"}
	si, err := IndexSpecies(symbols, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if si.NSpecies() != 3 {
		Te.Fatalf("Expected 3 species, got %d", si.NSpecies())
	}
	//sorted order
	want := []string{"H", "O", "Zr"}
	for i, n := range want {
		if si.Names[i] != n {
			Te.Errorf("Species %d: got %s, want %s", i, si.Names[i], n)
		}
	}
	o := si.Indices["O"]
	if len(o) != 2 || o[0] != 1 || o[1] != 3 {
		Te.Errorf("Wrong indices for O: %v", o)
	}
}

func TestIndexSpeciesRename(Te *testing.T) {
	symbols := []string{"O1", "O2", "H"}
	si, err := IndexSpecies(symbols, map[string]string{"O1": "O", "O2": "O"})
	if err != nil {
		Te.Fatal(err)
	}
	if si.NSpecies() != 2 {
		Te.Fatalf("Renamed labels not merged: %v", si.Names)
	}
	if len(si.Indices["O"]) != 2 {
		Te.Errorf("Merged species O should hold 2 atoms, got %d", len(si.Indices["O"]))
	}
}

func TestIndexSpeciesEmpty(Te *testing.T) {
	if _, err := IndexSpecies(nil, nil); err == nil {
		Te.Error("Empty label list should be rejected")
	}
}
