package filter

import (
	"testing"

	"github.com/ppiankov/incidents/internal/model"
)

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"", BothTiers(), false},
		{"all", BothTiers(), false},
		{"Full", Policy{IncludeFull: true}, false},
		{"deficient", Policy{IncludeDeficient: true}, false},
		{"none", Policy{}, false},
		{"partial", Policy{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePolicy(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePolicy(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParsePolicy(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPolicyRoundTripsThroughString(t *testing.T) {
	for _, p := range []Policy{BothTiers(), {IncludeFull: true}, {IncludeDeficient: true}, {}} {
		got, err := ParsePolicy(p.String())
		if err != nil || got != p {
			t.Errorf("ParsePolicy(%q) = %+v, %v; want %+v", p.String(), got, err, p)
		}
	}
}

func TestPolicyIncludes(t *testing.T) {
	p := Policy{IncludeFull: true}
	if !p.Includes(model.TierFull) || p.Includes(model.TierDeficient) {
		t.Errorf("Includes wrong for %+v", p)
	}
	toggled := p.ToggleFull().ToggleDeficient()
	if toggled.IncludeFull || !toggled.IncludeDeficient {
		t.Errorf("toggles = %+v", toggled)
	}
	if !p.IncludeFull {
		t.Error("toggle mutated receiver")
	}
}
