package pll

import (
	"errors"
	"testing"

	"clocktree-go/clkerr"
	"clocktree-go/types"
)

// checkTap verifies a resolved tap reproduces within budget of target.
func checkTap(t *testing.T, cfg Config, tap Tap, target types.Hertz, tol types.Tolerance) {
	t.Helper()
	out := cfg.Out(tap)
	if out == 0 {
		t.Fatalf("tap %c disabled, want ~%s", tap.Letter(), target)
	}
	diff := uint64(out) - uint64(target)
	if out < target {
		diff = uint64(target) - uint64(out)
	}
	if diff > tol.Budget(target) {
		t.Errorf("tap %c = %s, target %s, err %d > budget %d",
			tap.Letter(), out, target, diff, tol.Budget(target))
	}
}

func TestResolveExact400From25(t *testing.T) {
	// 25 MHz crystal to 400 MHz system clock, bit exact.
	cfg, err := Resolve(0, 25*types.MHz, Request{P: 400 * types.MHz}, types.Exact())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.OutP != 400*types.MHz {
		t.Fatalf("p = %s, want exactly 400MHz", cfg.OutP)
	}
	if cfg.P%2 != 0 {
		t.Errorf("pll1 p divider %d must be even", cfg.P)
	}
	// Divider identity must hold exactly.
	want := uint64(25*types.MHz) * (uint64(cfg.N)*8192 + uint64(cfg.FracN)) /
		(8192 * uint64(cfg.M) * uint64(cfg.P))
	if want != uint64(cfg.OutP) {
		t.Errorf("identity: computed %d, config says %d", want, cfg.OutP)
	}
}

func TestResolveThreeTaps(t *testing.T) {
	// The display-board PLL3: P/Q 330 MHz, R tuned to the pixel clock.
	// P and R disagree by ~0.26% at any shared VCO, so the request
	// carries a matching tolerance.
	tol := types.PPM(5000)
	req := Request{P: 330 * types.MHz, Q: 330 * types.MHz, R: 27429 * types.KHz}
	cfg, err := Resolve(2, 25*types.MHz, req, tol)
	if err != nil {
		t.Fatal(err)
	}
	checkTap(t, cfg, TapP, req.P, tol)
	checkTap(t, cfg, TapQ, req.Q, tol)
	checkTap(t, cfg, TapR, req.R, tol)
}

func TestResolveJointCompromise(t *testing.T) {
	// No tap-exact VCO serves both requests at 100 ppm: P alone wants
	// 600 MHz, Q alone wants 600.089 MHz, and only the band between
	// their tolerance windows (about 31 kHz wide) satisfies the pair.
	// The search must settle inside it instead of rejecting.
	tol := types.PPM(100)
	req := Request{P: 300 * types.MHz, Q: 85727 * types.KHz}
	cfg, err := Resolve(1, 25*types.MHz, req, tol)
	if err != nil {
		t.Fatal(err)
	}
	checkTap(t, cfg, TapP, req.P, tol)
	checkTap(t, cfg, TapQ, req.Q, tol)
}

func TestResolveNeverViolatesTolerance(t *testing.T) {
	// Property sweep: either the result is within tolerance for every
	// requested tap, or the error names a tap; no third outcome.
	refs := []types.Hertz{8 * types.MHz, 16 * types.MHz, 25 * types.MHz, 64 * types.MHz}
	targets := []types.Hertz{
		1 * types.MHz, 27429 * types.KHz, 48 * types.MHz, 100 * types.MHz,
		150 * types.MHz, 200 * types.MHz, 330 * types.MHz, 400 * types.MHz,
		480 * types.MHz, 550 * types.MHz,
	}
	tol := types.PPM(100)
	for _, ref := range refs {
		for _, p := range targets {
			for _, q := range targets {
				cfg, err := Resolve(1, ref, Request{P: p, Q: q}, tol)
				if err != nil {
					if !errors.Is(err, clkerr.ErrUnsatisfiable) {
						t.Fatalf("ref %s p %s q %s: %v", ref, p, q, err)
					}
					continue
				}
				checkTap(t, cfg, TapP, p, tol)
				checkTap(t, cfg, TapQ, q, tol)
			}
		}
	}
}

func TestResolveRespectsVCOWindow(t *testing.T) {
	refs := []types.Hertz{4 * types.MHz, 25 * types.MHz, 64 * types.MHz}
	targets := []types.Hertz{2 * types.MHz, 100 * types.MHz, 400 * types.MHz}
	for _, ref := range refs {
		for _, p := range targets {
			cfg, err := Resolve(1, ref, Request{P: p}, types.Tolerance{})
			if err != nil {
				continue
			}
			lim := rangeLimits[cfg.Range]
			if cfg.VCO < lim.vcoMin || cfg.VCO > lim.vcoMax {
				t.Errorf("ref %s p %s: vco %s outside window", ref, p, cfg.VCO)
			}
		}
	}
}

func TestUnsatisfiableNamesTap(t *testing.T) {
	// 1 GHz is past every VCO ceiling.
	_, err := Resolve(1, 25*types.MHz, Request{Q: 1000 * types.MHz}, types.Exact())
	var uns *clkerr.Unsatisfiable
	if !errors.As(err, &uns) {
		t.Fatalf("got %v, want Unsatisfiable", err)
	}
	if uns.PLL != 2 || uns.Tap != 'Q' {
		t.Errorf("named pll%d.%c, want pll2.Q", uns.PLL, uns.Tap)
	}
}

func TestTieBreakPrefersLowerVCO(t *testing.T) {
	// 50 MHz from 25 MHz is exact at many VCOs; the winner must sit at
	// the bottom of the wide window rather than an arbitrary multiple.
	cfg, err := Resolve(1, 25*types.MHz, Request{P: 50 * types.MHz}, types.Exact())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.OutP != 50*types.MHz {
		t.Fatalf("p = %s", cfg.OutP)
	}
	// Any exact 50 MHz config with a VCO below ours would contradict
	// the tie-break.
	if cfg.VCO > 200*types.MHz {
		t.Errorf("vco = %s, tie-break should prefer a low VCO", cfg.VCO)
	}
}

func TestResolveRejectsEmptyRequest(t *testing.T) {
	if _, err := Resolve(0, 25*types.MHz, Request{}, types.Tolerance{}); !errors.Is(err, clkerr.ErrInvalidRequest) {
		t.Errorf("got %v, want invalid request", err)
	}
}

func TestFractionalFillsTheGap(t *testing.T) {
	// 27.429 MHz from 25 MHz has no exact integer solution at R's
	// divider step; the fractional multiplier must get within default
	// tolerance anyway.
	tol := types.Tolerance{}
	cfg, err := Resolve(2, 25*types.MHz, Request{R: 27429 * types.KHz}, tol)
	if err != nil {
		t.Fatal(err)
	}
	checkTap(t, cfg, TapR, 27429*types.KHz, tol)
}
