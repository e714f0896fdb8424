package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRound2UsesBankersRounding(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"56000", "56000"},
		{"1.005", "1"},
		{"1.015", "1.02"},
		{"1.025", "1.02"},
		{"2.675", "2.68"},
		{"-1.015", "-1.02"},
	}
	for _, tc := range cases {
		got := Round2(decimal.RequireFromString(tc.in))
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Fatalf("Round2(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestIsDust(t *testing.T) {
	if !IsDust(decimal.Zero) {
		t.Fatal("zero should be dust")
	}
	if !IsDust(decimal.RequireFromString("0.01")) {
		t.Fatal("one cent should be dust")
	}
	if IsDust(decimal.RequireFromString("0.02")) {
		t.Fatal("two cents should not be dust")
	}
}

func TestShare(t *testing.T) {
	got := Share(
		decimal.RequireFromString("56000"),
		decimal.RequireFromString("30000"),
		decimal.RequireFromString("130000"),
	)
	want := decimal.RequireFromString("12923.08")
	if !got.Equal(want) {
		t.Fatalf("Share = %s, want %s", got, want)
	}

	if !Share(decimal.NewFromInt(10), decimal.NewFromInt(1), decimal.Zero).IsZero() {
		t.Fatal("zero whole should yield zero share")
	}
}
