package models

import "testing"

func TestLookupAction(t *testing.T) {
	tests := []struct {
		token string
		want  ActionID
		ok    bool
	}{
		{"income", ActIncome, true},
		{"Foreign_Aid", ActForeignAid, true},
		{"COUP", ActCoup, true},
		{"fold", "", false},
	}
	for _, tt := range tests {
		act, ok := LookupAction(tt.token)
		if ok != tt.ok {
			t.Errorf("LookupAction(%q) ok = %v, want %v", tt.token, ok, tt.ok)
			continue
		}
		if ok && act.ID != tt.want {
			t.Errorf("LookupAction(%q) = %s, want %s", tt.token, act.ID, tt.want)
		}
	}
}

func TestActionCosts(t *testing.T) {
	if got := Actions[ActCoup].Cost; got != 7 {
		t.Errorf("coup cost = %d, want 7", got)
	}
	if got := Actions[ActAssassinate].Cost; got != 3 {
		t.Errorf("assassinate cost = %d, want 3", got)
	}
}

func TestLookupInfluenceCaseInsensitive(t *testing.T) {
	for _, token := range []string{"duke", "Duke", "DUKE"} {
		id, ok := LookupInfluence(token)
		if !ok || id != Duke {
			t.Errorf("LookupInfluence(%q) = %v, %v", token, id, ok)
		}
	}
	if _, ok := LookupInfluence("jester"); ok {
		t.Error("LookupInfluence accepted an unknown influence")
	}
}
