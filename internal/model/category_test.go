package model

import "testing"

func TestParseRace(t *testing.T) {
	tests := []struct {
		in      string
		want    Race
		wantErr bool
	}{
		{"White", RaceWhite, false},
		{"black", RaceBlack, false},
		{"  HISPANIC ", RaceHispanic, false},
		{"other", RaceOther, false},
		{"asian", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRace(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRace(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseRace(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseArmed(t *testing.T) {
	for _, a := range AllArmed {
		got, err := ParseArmed(string(a))
		if err != nil || got != a {
			t.Errorf("ParseArmed(%q) = %q, %v", a, got, err)
		}
	}
	if _, err := ParseArmed("toy weapon"); err == nil {
		t.Error("expected error for unknown armed category")
	}
}

func TestOrdinalFollowsCanonicalOrder(t *testing.T) {
	for i, r := range AllRaces {
		if r.Ordinal() != i {
			t.Errorf("%s.Ordinal() = %d, want %d", r, r.Ordinal(), i)
		}
	}
	for i, a := range AllArmed {
		if a.Ordinal() != i {
			t.Errorf("%s.Ordinal() = %d, want %d", a, a.Ordinal(), i)
		}
	}
	if Race("Martian").Ordinal() != -1 {
		t.Error("unknown race should have ordinal -1")
	}
}

func TestIncidentLocation(t *testing.T) {
	tests := []struct {
		inc  Incident
		want string
	}{
		{Incident{City: "Shelton", State: "WA"}, "Shelton, WA"},
		{Incident{City: "Shelton"}, "Shelton"},
		{Incident{State: "WA"}, "WA"},
		{Incident{}, ""},
	}
	for _, tt := range tests {
		if got := tt.inc.Location(); got != tt.want {
			t.Errorf("Location() = %q, want %q", got, tt.want)
		}
	}
}
