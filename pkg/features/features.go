package features

import (
	"fmt"
	"sort"
)

type Features struct {
	enabled map[FeatureGate]uint64
}

func NewFeaturesDefault() *Features {
	return &Features{enabled: make(map[FeatureGate]uint64)}
}

func (f *Features) EnableFeature(gate FeatureGate, slot uint64) {
	if f.enabled == nil {
		f.enabled = make(map[FeatureGate]uint64)
	}
	f.enabled[gate] = slot
}

func (f *Features) DisableFeature(gate FeatureGate) {
	delete(f.enabled, gate)
}

func (f *Features) IsActive(gate FeatureGate) bool {
	_, ok := f.enabled[gate]
	return ok
}

func (f *Features) EnabledSlot(gate FeatureGate) (uint64, bool) {
	slot, ok := f.enabled[gate]
	return slot, ok
}

func (f *Features) AllEnabled() []string {
	var out []string
	for gate := range f.enabled {
		out = append(out, fmt.Sprintf("feature %s (%s) enabled", gate.Name, gate.Address))
	}
	sort.Strings(out)
	return out
}

// Lookup resolves a gate by its name, as used on the command line.
func Lookup(name string) (FeatureGate, bool) {
	for _, gate := range AllFeatureGates {
		if gate.Name == name {
			return gate, true
		}
	}
	return FeatureGate{}, false
}
