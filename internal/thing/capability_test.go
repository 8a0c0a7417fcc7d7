package thing

import "testing"

func TestCapabilitySet(t *testing.T) {
	set := NewCapabilitySet(KeyHolder, Reportable, Reportable)

	if set.Len() != 2 {
		t.Errorf("Len() = %d, want 2", set.Len())
	}
	if !set.Has(Reportable) || !set.Has(KeyHolder) {
		t.Error("expected Reportable and KeyHolder in set")
	}
	if set.Has(Commandable) {
		t.Error("Commandable should not be in set")
	}
	if got := set.String(); got != "{key_holder,reportable}" {
		t.Errorf("String() = %q", got)
	}
}

func TestCapabilitySet_ZeroValue(t *testing.T) {
	var set CapabilitySet
	if set.Has(Reportable) {
		t.Error("zero set should be empty")
	}
	if len(set.List()) != 0 {
		t.Errorf("List() = %v", set.List())
	}
}
