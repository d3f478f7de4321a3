package rating

import (
	"math"
	"testing"
	"time"
)

func fptr(v float64) *float64 { return &v }

func TestRatingLazyInit(t *testing.T) {
	book := NewBook(DefaultConfig())
	if r := book.Rating("BOS"); r != 1500 {
		t.Fatalf("expected initial rating 1500, got %v", r)
	}
	if book.Size() != 1 {
		t.Fatalf("first reference must record the participant")
	}
}

func TestUpdateZeroSum(t *testing.T) {
	cases := []struct {
		name          string
		homeAdvantage float64
		homeScore     float64
		awayScore     float64
	}{
		{"home win no advantage", 0, 110, 95},
		{"home win with advantage", 100, 110, 95},
		{"away win with advantage", 75, 88, 101},
		{"draw with advantage", 120, 2, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.HomeAdvantage = tc.homeAdvantage
			book := NewBook(cfg)
			dh, da := book.Update("A", "B", fptr(tc.homeScore), fptr(tc.awayScore))
			if math.Abs(dh+da) > 1e-9 {
				t.Fatalf("deltas must be zero-sum, got %v + %v", dh, da)
			}
		})
	}
}

func TestUpdateMissingScoresNoOp(t *testing.T) {
	book := NewBook(DefaultConfig())
	book.Rating("A")
	book.Rating("B")

	dh, da := book.Update("A", "B", nil, fptr(100))
	if dh != 0 || da != 0 {
		t.Fatalf("missing score must be a no-op, got %v/%v", dh, da)
	}
	nan := math.NaN()
	dh, da = book.Update("A", "B", &nan, fptr(100))
	if dh != 0 || da != 0 {
		t.Fatalf("NaN score must be a no-op, got %v/%v", dh, da)
	}
	if book.Rating("A") != 1500 || book.Rating("B") != 1500 {
		t.Fatalf("ratings must be untouched by unplayed games")
	}
	if book.GamesPlayed("A") != 0 {
		t.Fatalf("unplayed games must not count")
	}
}

func TestPointInTimeExpectations(t *testing.T) {
	// initial=1500, k=20, homeAdv=100: the first game must be predicted off
	// the initial ratings exactly, and the second off the updated ones.
	book := NewBook(Config{InitialRating: 1500, KFactor: 20, HomeAdvantage: 100})

	pHome, pAway := book.Predict("HOU", "DAL")
	want := 1 / (1 + math.Pow(10, -100.0/400))
	if math.Abs(pHome-want) > 1e-9 {
		t.Fatalf("expected pHome %.4f from initial ratings, got %v", want, pHome)
	}
	if math.Abs(pHome+pAway-1) > 1e-9 {
		t.Fatalf("expectations must sum to 1")
	}

	book.Update("HOU", "DAL", fptr(104), fptr(99))

	homeAfter := book.Rating("HOU")
	awayAfter := book.Rating("DAL")
	if math.Abs(homeAfter-1507.1988) > 1e-3 {
		t.Fatalf("expected home rating ~1507.2 after win, got %v", homeAfter)
	}
	if math.Abs(awayAfter-1492.8012) > 1e-3 {
		t.Fatalf("expected away rating ~1492.8 after loss, got %v", awayAfter)
	}
	if homeAfter <= 1500 {
		t.Fatalf("winner's rating used for the next game must exceed the initial rating")
	}

	pHome2, _ := book.Predict("HOU", "DAL")
	if pHome2 <= pHome {
		t.Fatalf("expectation for the rematch must rise after a home win")
	}
}

func TestApplyWeightedScalesK(t *testing.T) {
	full := NewBook(DefaultConfig())
	half := NewBook(DefaultConfig())

	dhFull, _ := full.ApplyWeighted("A", "B", fptr(1), fptr(0), 1.0, time.Now())
	dhHalf, _ := half.ApplyWeighted("A", "B", fptr(1), fptr(0), 0.5, time.Now())

	if math.Abs(dhHalf*2-dhFull) > 1e-9 {
		t.Fatalf("half weight must halve the delta: %v vs %v", dhHalf, dhFull)
	}
}

func TestFightBookAdjustments(t *testing.T) {
	fb := NewFightBook(LeaguePreset("UFC"))
	fb.now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }

	if r := fb.AdjustedRating("debutant"); r != 1500 {
		t.Fatalf("fighter with no fights must sit at initial rating, got %v", r)
	}

	recent := time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)
	fb.ApplyWeighted("champ", "challenger", fptr(1), fptr(0), 1.0, recent)

	raw := fb.Rating("champ")
	adjusted := fb.AdjustedRating("champ")
	if raw <= 1500 {
		t.Fatalf("winner's raw rating must exceed initial, got %v", raw)
	}
	if adjusted <= 1500 || adjusted >= raw {
		t.Fatalf("adjusted rating must shrink toward initial: raw %v adjusted %v", raw, adjusted)
	}

	pA, pB := fb.Predict("champ", "challenger")
	if pA <= 0.5 {
		t.Fatalf("winner must be favored in the rematch, got %v", pA)
	}
	if math.Abs(pA+pB-1) > 1e-9 {
		t.Fatalf("fight expectations must sum to 1")
	}
}
