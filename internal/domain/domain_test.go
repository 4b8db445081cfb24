package domain

import "testing"

func TestNormalizeByKind(t *testing.T) {
	brk := ShowItem{Kind: KindBreak, Stage: &Stage{Script: "stray"}}
	brk.Normalize()
	if brk.Stage != nil {
		t.Fatalf("break should not carry a stage")
	}
	sk := ShowItem{Kind: KindSketch, DurationMin: -4}
	sk.Normalize()
	if sk.Stage == nil || sk.Stage.Mics == nil || sk.Stage.Roles == nil {
		t.Fatalf("sketch stage not initialised: %+v", sk.Stage)
	}
	if sk.DurationMin != 0 {
		t.Fatalf("negative duration should clamp to 0")
	}
	unknown := ShowItem{Kind: "juggling"}
	unknown.Normalize()
	if unknown.Kind != KindSketch {
		t.Fatalf("unknown kind should fall back to sketch, got %s", unknown.Kind)
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := State{
		Items: []ShowItem{{ID: "i1", Kind: KindSketch, Stage: &Stage{
			Roles: []Role{{Name: "King", PersonID: "p1"}},
			Mics:  map[string]string{"HS1": "p1"},
		}}},
		Rehearsals: []Rehearsal{{ID: "r1", Absentees: []string{"p1"}}},
	}
	c := s.Clone()
	c.Items[0].Stage.Roles[0].PersonID = "p2"
	c.Items[0].Stage.Mics["HS1"] = "p2"
	c.Rehearsals[0].Absentees[0] = "p2"
	if s.Items[0].Stage.Roles[0].PersonID != "p1" || s.Items[0].Stage.Mics["HS1"] != "p1" {
		t.Fatalf("clone shares stage with original")
	}
	if s.Rehearsals[0].Absentees[0] != "p1" {
		t.Fatalf("clone shares absentees with original")
	}
}

func TestChannelsCombinesMicsAndSlots(t *testing.T) {
	s := State{
		Shows: []Show{{ID: "s1", Headsets: 2, Handhelds: 1}},
		Mics:  []Mic{{ID: "m1", ShowID: "s1", Name: "Podium"}, {ID: "m2", ShowID: "other", Name: "X"}},
	}
	chs := s.Channels("s1")
	want := []string{"m1", "HS1", "HS2", "HH1"}
	if len(chs) != len(want) {
		t.Fatalf("got %d channels, want %d", len(chs), len(want))
	}
	for i, id := range want {
		if chs[i].ID != id {
			t.Fatalf("channel %d = %s want %s", i, chs[i].ID, id)
		}
	}
	if !IsSlotChannel("HH12") || IsSlotChannel("HSx") || IsSlotChannel("m1") || IsSlotChannel("HS0") {
		t.Fatalf("slot detection wrong")
	}
}
