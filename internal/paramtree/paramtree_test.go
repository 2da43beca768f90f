package paramtree

import (
	"bytes"
	"testing"
)

func TestSetGetRemovePrunes(t *testing.T) {
	root := NewTree("root")

	if err := root.SetEntry("mrm:peak_picking:max_z", &Entry{
		Type: TypeFloat, FloatValue: 3.0, Description: "z-score threshold",
	}); err != nil {
		t.Fatal(err)
	}

	e, err := root.GetEntry("mrm:peak_picking:max_z")
	if err != nil {
		t.Fatal(err)
	}
	if e.FloatValue != 3.0 {
		t.Errorf("got %v want 3.0", e.FloatValue)
	}

	if _, err := root.GetNode("mrm:peak_picking"); err != nil {
		t.Fatal(err)
	}

	if err := root.RemoveEntry("mrm:peak_picking:max_z"); err != nil {
		t.Fatal(err)
	}

	// Node should have been pruned since it's now empty.
	if _, err := root.GetNode("mrm:peak_picking"); err == nil {
		t.Error("expected peak_picking node to be pruned after its only entry was removed")
	}
	if _, err := root.GetNode("mrm"); err == nil {
		t.Error("expected mrm node to be pruned (it only contained peak_picking)")
	}
}

func TestRestrictionViolation(t *testing.T) {
	root := NewTree("root")
	root.SetEntry("svm:c", &Entry{
		Type:       TypeFloat,
		FloatValue: -1,
		Restriction: &Restriction{
			HasMin: true, Min: 0,
		},
	})

	invalid := root.Validate()
	if len(invalid) != 1 || invalid[0] != "svm:c" {
		t.Errorf("expected svm:c to be reported invalid, got %v", invalid)
	}
}

func TestNodeNameRejectsColon(t *testing.T) {
	if _, err := NewNode("bad:name"); err == nil {
		t.Error("expected error for node name containing ':'")
	}
}

func TestXMLRoundTrip(t *testing.T) {
	root := NewTree("root")
	root.SetEntry("mrm:peak_picking:max_z", &Entry{
		Type: TypeFloat, FloatValue: 3.25,
		Description: "rejects outlier\nborders",
		Tags:        []string{"advanced", "tunable"},
		Restriction: &Restriction{HasMin: true, Min: 0, HasMax: true, Max: 10},
	})
	root.SetEntry("mrm:peak_integration", &Entry{
		Type: TypeString, StringValue: "smoothed",
		Restriction: &Restriction{Whitelist: []string{"original", "smoothed"}},
	})
	root.SetEntry("multiplex:charges", &Entry{
		Type: TypeIntList, IntList: []int64{1, 2, 3},
	})
	root.SetEntry("multiplex:labels", &Entry{
		Type: TypeStringList, StringList: []string{"Lys8", "Arg10"},
	})

	var buf bytes.Buffer
	if err := Store(&buf, root); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(&buf)
	if err != nil {
		t.Fatal(err)
	}

	e, err := loaded.GetEntry("mrm:peak_picking:max_z")
	if err != nil {
		t.Fatal(err)
	}
	if e.FloatValue != 3.25 {
		t.Errorf("float value round-trip: got %v want 3.25", e.FloatValue)
	}
	if e.Description != "rejects outlier\nborders" {
		t.Errorf("description round-trip failed: got %q", e.Description)
	}
	if len(e.Tags) != 2 || e.Tags[0] != "advanced" {
		t.Errorf("tags round-trip failed: got %v", e.Tags)
	}
	if !e.Restriction.HasMin || e.Restriction.Min != 0 || !e.Restriction.HasMax || e.Restriction.Max != 10 {
		t.Errorf("restriction round-trip failed: got %+v", e.Restriction)
	}

	se, err := loaded.GetEntry("mrm:peak_integration")
	if err != nil {
		t.Fatal(err)
	}
	if se.StringValue != "smoothed" {
		t.Errorf("string round-trip: got %q", se.StringValue)
	}
	if len(se.Restriction.Whitelist) != 2 {
		t.Errorf("whitelist round-trip failed: got %v", se.Restriction.Whitelist)
	}

	il, err := loaded.GetEntry("multiplex:charges")
	if err != nil {
		t.Fatal(err)
	}
	if len(il.IntList) != 3 || il.IntList[1] != 2 {
		t.Errorf("int-list round-trip failed: got %v", il.IntList)
	}

	sl, err := loaded.GetEntry("multiplex:labels")
	if err != nil {
		t.Fatal(err)
	}
	if len(sl.StringList) != 2 || sl.StringList[0] != "Lys8" {
		t.Errorf("string-list round-trip failed: got %v", sl.StringList)
	}
}

func TestGetOrDefaults(t *testing.T) {
	root := NewTree("root")
	root.SetInt("a:b", 5, "")
	root.SetFloat("a:c", 1.5, "")
	root.SetString("a:d", "hello", "")

	if got := root.GetIntOr("a:b", -1); got != 5 {
		t.Errorf("GetIntOr: got %d want 5", got)
	}
	if got := root.GetIntOr("a:missing", -1); got != -1 {
		t.Errorf("GetIntOr default: got %d want -1", got)
	}
	if got := root.GetFloatOr("a:c", 0); got != 1.5 {
		t.Errorf("GetFloatOr: got %v want 1.5", got)
	}
	if got := root.GetStringOr("a:d", ""); got != "hello" {
		t.Errorf("GetStringOr: got %q want hello", got)
	}
}
