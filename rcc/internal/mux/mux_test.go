package mux

import (
	"errors"
	"testing"

	"clocktree-go/clkerr"
	"clocktree-go/types"
)

// tree builds a Lookup from a fixed set of configured sources.
func tree(configured map[types.Source]types.Hertz) Lookup {
	return func(s types.Source) (types.Hertz, bool) {
		f, ok := configured[s]
		return f, ok
	}
}

func TestExplicitPreference(t *testing.T) {
	avail := tree(map[types.Source]types.Hertz{
		types.SrcAPB2:  120 * types.MHz,
		types.SrcPLL2Q: 200 * types.MHz,
	})
	r, err := Resolve(types.Usart1, types.SrcPLL2Q, avail)
	if err != nil {
		t.Fatal(err)
	}
	if r.Source != types.SrcPLL2Q || r.Freq != 200*types.MHz {
		t.Errorf("resolved %+v", r)
	}
	if r.Sel != 1 {
		t.Errorf("selector = %d, want 1 (position in legal list)", r.Sel)
	}
}

func TestIllegalPreference(t *testing.T) {
	// LSI is not a legal USART upstream.
	avail := tree(map[types.Source]types.Hertz{types.SrcLSI: 32 * types.KHz})
	if _, err := Resolve(types.Usart1, types.SrcLSI, avail); !errors.Is(err, clkerr.ErrIllegalSource) {
		t.Errorf("got %v, want illegal source", err)
	}
}

func TestPreferredButUnconfigured(t *testing.T) {
	// PLL3 Q is legal for USART1 but its tap was left disabled.
	avail := tree(map[types.Source]types.Hertz{types.SrcAPB2: 120 * types.MHz})
	if _, err := Resolve(types.Usart1, types.SrcPLL3Q, avail); !errors.Is(err, clkerr.ErrSourceNotConfigured) {
		t.Errorf("got %v, want source not configured", err)
	}
}

func TestDefaultOrder(t *testing.T) {
	// With everything configured, the first entry of the legal list
	// wins; with it missing, the next one does.
	all := map[types.Source]types.Hertz{
		types.SrcAPB2:  120 * types.MHz,
		types.SrcPLL2Q: 200 * types.MHz,
		types.SrcHSI:   64 * types.MHz,
	}
	r, err := Resolve(types.Usart1, types.SrcNone, tree(all))
	if err != nil {
		t.Fatal(err)
	}
	if r.Source != types.SrcAPB2 {
		t.Errorf("default = %s, want apb2", r.Source)
	}

	delete(all, types.SrcAPB2)
	r, err = Resolve(types.Usart1, types.SrcNone, tree(all))
	if err != nil {
		t.Fatal(err)
	}
	if r.Source != types.SrcPLL2Q {
		t.Errorf("fallback = %s, want pll2_q", r.Source)
	}
}

func TestNoViableSource(t *testing.T) {
	// SDMMC only accepts PLL1 Q and PLL2 R; with both taps disabled
	// the registry must refuse, never fall back to an unrelated clock.
	avail := tree(map[types.Source]types.Hertz{
		types.SrcHSI:  64 * types.MHz,
		types.SrcAPB2: 120 * types.MHz,
	})
	if _, err := Resolve(types.Sdmmc1, types.SrcNone, avail); !errors.Is(err, clkerr.ErrNoViableSource) {
		t.Errorf("got %v, want no viable source", err)
	}
}

func TestLegalListsAreClosed(t *testing.T) {
	// Every peripheral has a non-empty list and every selector value
	// is its list position.
	for p := types.Peripheral(0); p < types.NumPeripherals; p++ {
		list := Legal(p)
		if len(list) == 0 {
			t.Errorf("%s: empty legal list", p)
			continue
		}
		for i, s := range list {
			r, err := Resolve(p, s, tree(map[types.Source]types.Hertz{s: types.MHz}))
			if err != nil {
				t.Errorf("%s pref %s: %v", p, s, err)
				continue
			}
			if int(r.Sel) != i {
				t.Errorf("%s pref %s: sel %d, want %d", p, s, r.Sel, i)
			}
		}
	}
}
