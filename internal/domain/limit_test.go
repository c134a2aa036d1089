package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestLoanLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		units         int64
		rate          int64
		existing      int64
		wantMax       int64
		wantAvailable int64
	}{
		{name: "fresh collateral", units: 100, rate: 500, existing: 0, wantMax: 50000, wantAvailable: 50000},
		{name: "partly used", units: 100, rate: 500, existing: 20000, wantMax: 50000, wantAvailable: 30000},
		{name: "over used clamps available at zero", units: 100, rate: 500, existing: 60000, wantMax: 50000, wantAvailable: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := LoanLimit(decimal.NewFromInt(tt.units), decimal.NewFromInt(tt.rate), decimal.NewFromInt(tt.existing))
			if !l.Max.Equal(decimal.NewFromInt(tt.wantMax)) {
				t.Errorf("expected max %d, got %s", tt.wantMax, l.Max)
			}
			if !l.Available.Equal(decimal.NewFromInt(tt.wantAvailable)) {
				t.Errorf("expected available %d, got %s", tt.wantAvailable, l.Available)
			}
		})
	}
}

func TestLimit_CheckRejectsOneAboveAvailable(t *testing.T) {
	t.Parallel()

	l := AdvanceLimit(decimal.NewFromInt(40), decimal.NewFromInt(250), decimal.NewFromInt(2000))

	if err := l.Check(l.Available); err != nil {
		t.Fatalf("expected exact available amount to pass, got %v", err)
	}

	err := l.Check(l.Available.Add(decimal.NewFromInt(1)))
	if !errors.Is(err, ErrExceedsLimit) {
		t.Fatalf("expected ErrExceedsLimit, got %v", err)
	}
}

func TestUsagePercent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		used  string
		limit string
		want  int64
	}{
		{used: "0", limit: "1000", want: 0},
		{used: "333", limit: "1000", want: 33},
		{used: "335", limit: "1000", want: 34},
		{used: "1000", limit: "1000", want: 100},
		{used: "2500", limit: "1000", want: 100},
		{used: "10", limit: "0", want: 0},
		{used: "10", limit: "-5", want: 0},
	}

	for _, tt := range tests {
		got := UsagePercent(decimal.RequireFromString(tt.used), decimal.RequireFromString(tt.limit))
		if got != tt.want {
			t.Errorf("UsagePercent(%s, %s) = %d, want %d", tt.used, tt.limit, got, tt.want)
		}
	}
}

func TestLendingSettings_Rates(t *testing.T) {
	t.Parallel()

	s := LendingSettings{AdvancePerBagRate: decimal.NewFromInt(200), LoanPerBagRate: decimal.NewFromInt(400)}
	override := decimal.NewFromInt(450)

	if !s.AdvanceRate(nil).Equal(decimal.NewFromInt(200)) {
		t.Errorf("expected configured advance rate")
	}
	if !s.LoanRate(&override).Equal(override) {
		t.Errorf("expected override loan rate")
	}
	zero := decimal.Zero
	if !s.LoanRate(&zero).Equal(decimal.NewFromInt(400)) {
		t.Errorf("expected zero override to fall back to configured rate")
	}
}

func TestAmad_PledgeableUnits(t *testing.T) {
	t.Parallel()

	stored := Amad{TotalUnits: decimal.NewFromInt(20), Status: AmadStatusStored}
	if !stored.PledgeableUnits().Equal(decimal.NewFromInt(20)) {
		t.Errorf("expected stored lot to pledge all units")
	}

	released := Amad{TotalUnits: decimal.NewFromInt(20), Status: AmadStatusReleased}
	if !released.PledgeableUnits().IsZero() {
		t.Errorf("expected released lot to pledge nothing")
	}
	if !LoanLimit(released.PledgeableUnits(), decimal.NewFromInt(500), decimal.Zero).Max.IsZero() {
		t.Errorf("expected zero limit on released lot")
	}
}
