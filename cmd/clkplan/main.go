// clkplan resolves a clock plan file against simulated registers and
// prints the resulting tree. It exists to vet a plan on the host before
// baking it into firmware.
package main

import (
	"flag"
	"os"

	"gopkg.in/yaml.v3"

	"clocktree-go/hw"
	"clocktree-go/rcc"
	"clocktree-go/types"
	"clocktree-go/x/fmtx"
)

// planDoc is the YAML surface of rcc.Config. Frequencies are plain Hz
// integers; kernel sources are names as printed by types.Source.
type planDoc struct {
	SysCkHz   uint32 `yaml:"sys_ck_hz"`
	SysSource string `yaml:"sys_source"`

	TolerancePPM uint32 `yaml:"tolerance_ppm"`
	Exact        bool   `yaml:"exact"`

	HSE *struct {
		FreqHz uint32 `yaml:"freq_hz"`
		Bypass bool   `yaml:"bypass"`
	} `yaml:"hse"`
	MSIHz uint32 `yaml:"msi_hz"`

	// Up to three entries; trailing instances may be omitted.
	PLL []struct {
		PHz uint32 `yaml:"p_hz"`
		QHz uint32 `yaml:"q_hz"`
		RHz uint32 `yaml:"r_hz"`
	} `yaml:"pll"`

	Prescalers struct {
		Core uint16   `yaml:"core"`
		AHB  uint16   `yaml:"ahb"`
		APB  [4]uint8 `yaml:"apb"`
	} `yaml:"prescalers"`

	Kernel map[string]string `yaml:"kernel"`
}

func (d *planDoc) toConfig() (rcc.Config, error) {
	cfg := rcc.Config{
		SysCk: types.Hertz(d.SysCkHz),
		MSI:   types.Hertz(d.MSIHz),
	}
	if d.SysSource != "" {
		s, ok := types.ParseSource(d.SysSource)
		if !ok {
			return cfg, fmtx.Errorf("unknown sys_source %q", d.SysSource)
		}
		cfg.SysSource = s
	}
	if d.Exact {
		cfg.Tolerance = types.Exact()
	} else if d.TolerancePPM != 0 {
		cfg.Tolerance = types.PPM(d.TolerancePPM)
	}
	if d.HSE != nil {
		cfg.HSE = &rcc.HSE{Freq: types.Hertz(d.HSE.FreqHz), Bypass: d.HSE.Bypass}
	}
	if len(d.PLL) > len(cfg.PLL) {
		return cfg, fmtx.Errorf("%d pll entries, at most %d", len(d.PLL), len(cfg.PLL))
	}
	for i := range d.PLL {
		cfg.PLL[i] = rcc.TapRequest{
			P: types.Hertz(d.PLL[i].PHz),
			Q: types.Hertz(d.PLL[i].QHz),
			R: types.Hertz(d.PLL[i].RHz),
		}
	}
	cfg.Prescalers = rcc.Prescalers{
		Core: d.Prescalers.Core,
		AHB:  d.Prescalers.AHB,
		APB:  d.Prescalers.APB,
	}
	if len(d.Kernel) > 0 {
		cfg.Kernel = map[types.Peripheral]types.Source{}
		for pname, sname := range d.Kernel {
			p, ok := types.ParsePeripheral(pname)
			if !ok {
				return cfg, fmtx.Errorf("unknown peripheral %q", pname)
			}
			s, ok := types.ParseSource(sname)
			if !ok {
				return cfg, fmtx.Errorf("unknown source %q", sname)
			}
			cfg.Kernel[p] = s
		}
	}
	return cfg, nil
}

func main() {
	path := flag.String("plan", "clockplan.yaml", "clock plan file")
	flag.Parse()

	raw, err := os.ReadFile(*path)
	if err != nil {
		fail(err)
	}
	var doc planDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		fail(err)
	}
	cfg, err := doc.toConfig()
	if err != nil {
		fail(err)
	}

	b := rcc.New(hw.NewSim(), cfg)
	b.Trace = func(format string, args ...any) {
		fmtx.Printf(format, args...)
	}
	cc, err := b.Freeze()
	if err != nil {
		fail(err)
	}

	fmtx.Printf("\nkernel clocks:\n")
	for p := types.Peripheral(0); p < types.NumPeripherals; p++ {
		src, ok := cc.KernelSource(p)
		if !ok {
			fmtx.Printf("  %-8s unresolved\n", p.String())
			continue
		}
		f, _ := cc.Frequency(p)
		fmtx.Printf("  %-8s %-8s %s\n", p.String(), src.String(), f.String())
	}
}

func fail(err error) {
	fmtx.Fprintf(os.Stderr, "clkplan: %v\n", err)
	os.Exit(1)
}
