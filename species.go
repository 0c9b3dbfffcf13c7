package densmd

import (
	"fmt"
	"sort"
)

//SpeciesIndex groups atoms by display label. Names is sorted so every
//per-species loop in the pipeline runs in a stable order.
type SpeciesIndex struct {
	Names   []string
	Indices map[string][]int //atom indices per label, in atom order
}

//MapSymbols applies the rename table to raw chemical labels. Labels
//without an entry pass through unchanged.
func MapSymbols(symbols []string, rename map[string]string) []string {
	out := make([]string, len(symbols))
	for i, s := range symbols {
		if r, ok := rename[s]; ok {
			out[i] = r
		} else {
			out[i] = s
		}
	}
	return out
}

//IndexSpecies builds the species index from per-atom labels, after
//applying the rename table. An empty label list is an error: there is
//nothing to visualize.
func IndexSpecies(symbols []string, rename map[string]string) (*SpeciesIndex, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("no atom labels in trajectory")
	}
	mapped := MapSymbols(symbols, rename)
	idx := &SpeciesIndex{Indices: make(map[string][]int)}
	for i, s := range mapped {
		if _, seen := idx.Indices[s]; !seen {
			idx.Names = append(idx.Names, s)
		}
		idx.Indices[s] = append(idx.Indices[s], i)
	}
	sort.Strings(idx.Names)
	return idx, nil
}

//NSpecies returns the number of distinct species.
func (si *SpeciesIndex) NSpecies() int {
	return len(si.Names)
}
