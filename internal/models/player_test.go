package models

import "testing"

func TestModifyCoins(t *testing.T) {
	tests := []struct {
		name      string
		start     int
		delta     int
		wantCoins int
		wantErr   bool
	}{
		{"gain", 2, 3, 5, false},
		{"spend exact", 7, -7, 0, false},
		{"overspend fails before mutation", 2, -3, 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPlayer("alice")
			p.Coins = tt.start
			err := p.ModifyCoins(tt.delta)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ModifyCoins(%d) error = %v, wantErr %v", tt.delta, err, tt.wantErr)
			}
			if p.Coins != tt.wantCoins {
				t.Errorf("coins = %d, want %d", p.Coins, tt.wantCoins)
			}
		})
	}
}

func TestModifyCoinsByActionFloorsAtZero(t *testing.T) {
	p := NewPlayer("alice")
	p.Coins = 1
	p.ModifyCoinsByAction(-2)
	if p.Coins != 0 {
		t.Errorf("coins = %d, want 0", p.Coins)
	}
}

func TestTakeCard(t *testing.T) {
	p := NewPlayer("alice")
	p.Hidden = []InfluenceID{Duke, Contessa}

	card, err := p.TakeCard(1)
	if err != nil {
		t.Fatalf("TakeCard(1): %v", err)
	}
	if card != Contessa {
		t.Errorf("card = %s, want %s", card, Contessa)
	}
	if len(p.Hidden) != 1 || p.Hidden[0] != Duke {
		t.Errorf("hidden = %v, want [%s]", p.Hidden, Duke)
	}

	if _, err := p.TakeCard(5); err == nil {
		t.Error("TakeCard(5) succeeded on a one card hand")
	}
}

func TestRevealTracksDeath(t *testing.T) {
	p := NewPlayer("alice")
	p.Hidden = []InfluenceID{Duke, Captain}

	if _, err := p.Reveal(0); err != nil {
		t.Fatalf("Reveal(0): %v", err)
	}
	if !p.Alive() {
		t.Fatal("player dead with one hidden card left")
	}
	if _, err := p.Reveal(0); err != nil {
		t.Fatalf("Reveal(0): %v", err)
	}
	if p.Alive() {
		t.Fatal("player alive with no hidden cards")
	}
	if len(p.Revealed) != 2 {
		t.Errorf("revealed = %v, want both cards face up", p.Revealed)
	}
}

func TestHoldsAndIndexOf(t *testing.T) {
	p := NewPlayer("alice")
	p.Hidden = []InfluenceID{Captain, Duke}
	if !p.Holds(Duke) {
		t.Error("Holds(Duke) = false")
	}
	if p.Holds(Assassin) {
		t.Error("Holds(Assassin) = true")
	}
	if got := p.IndexOf(Duke); got != 1 {
		t.Errorf("IndexOf(Duke) = %d, want 1", got)
	}
}

func TestFlipTeam(t *testing.T) {
	p := NewPlayer("alice")
	if err := p.FlipTeam(); err == nil {
		t.Error("FlipTeam succeeded without an allegiance")
	}
	p.Team = TeamA
	if err := p.FlipTeam(); err != nil {
		t.Fatalf("FlipTeam: %v", err)
	}
	if p.Team != TeamB {
		t.Errorf("team = %s, want %s", p.Team, TeamB)
	}
}
