package catalog

const (
	markupSourceBox   = `\optbox[position=start, innerlabel, optboxwidth=1.2]`
	markupDetectorBox = `\optbox[position=end, innerlabel, optboxwidth=1.2]`
)

// DefaultCategories returns the built-in component library. Each call
// returns fresh values.
func DefaultCategories() []Category {
	return []Category{
		{Name: "Light Sources", Archetypes: []Archetype{
			{Name: "Laser Source", Markup: markupSourceBox, Defaults: Params{"wavelength": "1064", "label": "Laser"}},
			{Name: "LED Source", Markup: markupSourceBox, Defaults: Params{"wavelength": "650", "label": "LED"}},
			{Name: "SLED Source", Markup: markupSourceBox, Defaults: Params{"wavelength": "850", "label": "SLED"}},
			{Name: "Seed Laser", Markup: markupSourceBox, Defaults: Params{"wavelength": "1550", "label": "Seed"}},
		}},
		{Name: "Optical Components", Archetypes: []Archetype{
			{Name: "Lens", Markup: `\lens[lensradius=1]`, Defaults: Params{"label": "Lens", "focal_length": "50"}},
			{Name: "Thick Lens", Markup: `\lens[lensradius=1, lenstype=thick]`, Defaults: Params{"label": "Thick Lens", "focal_length": "50"}},
			{Name: "Mirror", Markup: `\mirror[mirrortype=extended]`, Defaults: Params{"label": "Mirror", "angle": "45"}},
			{Name: "Curved Mirror", Markup: `\mirror[mirrortype=curved]`, Defaults: Params{"label": "CM", "angle": "45", "radius": "30"}},
			{Name: "Beam Splitter", Markup: `\beamsplitter[bsstyle=plate]`, Defaults: Params{"label": "BS", "ratio": "50:50"}},
			{Name: "Polarizing Beam Splitter", Markup: `\beamsplitter[bsstyle=cube]`, Defaults: Params{"label": "PBS", "ratio": "50:50"}},
			{Name: "Half-Wave Plate", Markup: `\optretplate[platetype=half]`, Defaults: Params{"label": "HWP"}},
			{Name: "Quarter-Wave Plate", Markup: `\optretplate[platetype=quarter]`, Defaults: Params{"label": "QWP"}},
			{Name: "Optical Isolator", Markup: `\optisolator`, Defaults: Params{"label": "Isolator"}},
			{Name: "Grating", Markup: `\optgrating`, Defaults: Params{"label": "Grating", "gratingwidth": "1.5"}},
			{Name: "Fiber", Markup: `\optfiber[fibertype=patch]`, Defaults: Params{"label": "Fiber"}},
		}},
		{Name: "Modulators & Filters", Archetypes: []Archetype{
			{Name: "Acoustic-Optic Modulator", Markup: `\aom`, Defaults: Params{"label": "AOM"}},
			{Name: "Electro-Optic Modulator", Markup: `\eom`, Defaults: Params{"label": "EOM"}},
			{Name: "Bandpass Filter", Markup: `\optfilter[filtertype=bandpass]`, Defaults: Params{"label": "BPF"}},
			{Name: "Neutral Density Filter", Markup: `\optfilter[filtertype=nd]`, Defaults: Params{"label": "ND"}},
		}},
		{Name: "Detectors", Archetypes: []Archetype{
			{Name: "Detector", Markup: markupDetectorBox, Defaults: Params{"label": "Det"}},
			{Name: "Photodiode", Markup: markupDetectorBox, Defaults: Params{"label": "PD"}},
			{Name: "Camera", Markup: markupDetectorBox, Defaults: Params{"label": "Camera"}},
			{Name: "Power Meter", Markup: markupDetectorBox, Defaults: Params{"label": "Pwr Meter"}},
			{Name: "Spectrometer", Markup: markupDetectorBox, Defaults: Params{"label": "Spec"}},
			{Name: "Beam Block", Markup: `\optdetector[dettype=block]`, Defaults: Params{"label": "Block"}},
		}},
		{Name: "Scientific Components", Archetypes: []Archetype{
			{Name: "Objective Lens", Markup: `\lens[lensradius=1.2, lenstype=objective]`, Defaults: Params{"label": "OBJ", "focal_length": "4"}},
			{Name: "Collection Optics", Markup: `\optbox[innerlabel, optboxwidth=1.5]`, Defaults: Params{"label": "CO"}},
			{Name: "Galvo Scanners", Markup: `\optbox[innerlabel, optboxwidth=1.5]`, Defaults: Params{"label": "Galvo"}},
			{Name: "Optical Circulator", Markup: `\optcirculator`, Defaults: Params{"label": "Circ"}},
			{Name: "Optical Amplifier", Markup: `\optamplifier`, Defaults: Params{"label": "Amp"}},
			{Name: "Wavelength Division Multiplexer", Markup: `\optbox[innerlabel, optboxwidth=1.8]`, Defaults: Params{"label": "WDM"}},
		}},
		{Name: "Quantum Optics", Archetypes: []Archetype{
			{Name: "Single Photon Source", Markup: `\optbox[position=start, innerlabel, optboxwidth=1.5]`, Defaults: Params{"label": "SPS"}},
			{Name: "Entangled Photon Source", Markup: `\optbox[position=start, innerlabel, optboxwidth=1.8]`, Defaults: Params{"label": "EPS"}},
			{Name: "Single Photon Detector", Markup: `\optbox[position=end, innerlabel, optboxwidth=1.5]`, Defaults: Params{"label": "SPD"}},
			{Name: "Bell State Analyzer", Markup: `\optbox[innerlabel, optboxwidth=1.8]`, Defaults: Params{"label": "BSA"}},
			{Name: "Photon Number Counter", Markup: `\optbox[position=end, innerlabel, optboxwidth=1.8]`, Defaults: Params{"label": "PNC"}},
		}},
		{Name: "Optical Setups", Archetypes: defaultSetups()},
	}
}

func defaultSetups() []Archetype {
	sub := func(name string, x, y float64, label string) SubComponent {
		return SubComponent{Archetype: name, Position: Point{X: x, Y: y}, Params: Params{"label": label}}
	}
	edge := func(s, t int, style string) SetupEdge {
		return SetupEdge{Source: s, Target: t, Style: style}
	}

	return []Archetype{
		{
			Name:     "Michelson Interferometer",
			Markup:   SetupPrefix + "michelson_interferometer",
			Defaults: Params{"label": "Michelson"},
			Setup: &Setup{
				Components: []SubComponent{
					sub("Laser Source", 100, 200, "Laser"),
					sub("Beam Splitter", 250, 200, "BS"),
					sub("Mirror", 400, 200, "M1"),
					sub("Mirror", 250, 350, "M2"),
					sub("Detector", 100, 350, "Det"),
				},
				Edges: []SetupEdge{
					edge(0, 1, StyleWide), edge(1, 2, StyleWide),
					edge(1, 3, StyleWide), edge(1, 4, StyleWide),
				},
			},
		},
		{
			Name:     "Mach-Zehnder Interferometer",
			Markup:   SetupPrefix + "mach_zehnder_interferometer",
			Defaults: Params{"label": "MZI"},
			Setup: &Setup{
				Components: []SubComponent{
					sub("Laser Source", 100, 200, "Laser"),
					sub("Beam Splitter", 250, 200, "BS1"),
					sub("Mirror", 400, 150, "M1"),
					sub("Mirror", 400, 250, "M2"),
					sub("Beam Splitter", 550, 200, "BS2"),
					sub("Detector", 700, 200, "Det"),
				},
				Edges: []SetupEdge{
					edge(0, 1, StyleWide), edge(1, 2, StyleWide), edge(1, 3, StyleWide),
					edge(2, 4, StyleWide), edge(3, 4, StyleWide), edge(4, 5, StyleWide),
				},
			},
		},
		{
			Name:     "Fabry-Perot Cavity",
			Markup:   SetupPrefix + "fabry_perot_cavity",
			Defaults: Params{"label": "FP Cavity"},
			Setup: &Setup{
				Components: []SubComponent{
					sub("Laser Source", 100, 200, "Laser"),
					sub("Mirror", 250, 200, "M1"),
					sub("Mirror", 450, 200, "M2"),
					sub("Detector", 600, 200, "Det"),
				},
				Edges: []SetupEdge{
					edge(0, 1, StyleWide), edge(1, 2, StyleResizable), edge(2, 3, StyleWide),
				},
			},
		},
		{
			Name:     "Ring Cavity",
			Markup:   SetupPrefix + "ring_cavity",
			Defaults: Params{"label": "Ring Cavity"},
			Setup: &Setup{
				Components: []SubComponent{
					sub("Laser Source", 100, 200, "Laser"),
					sub("Mirror", 250, 200, "M1"),
					sub("Mirror", 400, 100, "M2"),
					sub("Mirror", 550, 200, "M3"),
					sub("Mirror", 400, 300, "M4"),
					sub("Detector", 700, 200, "Det"),
				},
				Edges: []SetupEdge{
					edge(0, 1, StyleWide), edge(1, 2, StyleWide), edge(2, 3, StyleWide),
					edge(3, 4, StyleWide), edge(4, 1, StyleWide), edge(3, 5, StyleWide),
				},
			},
		},
		{
			Name:     "Fiber Optic Link",
			Markup:   SetupPrefix + "fiber_optic_link",
			Defaults: Params{"label": "Fiber Link"},
			Setup: &Setup{
				Components: []SubComponent{
					sub("Laser Source", 100, 200, "Laser"),
					sub("Lens", 200, 200, "L1"),
					sub("Fiber", 350, 200, "Fiber"),
					sub("Lens", 500, 200, "L2"),
					sub("Detector", 600, 200, "Det"),
				},
				Edges: []SetupEdge{
					edge(0, 1, StyleWide), edge(1, 2, StyleResizable),
					edge(2, 3, StyleNarrow), edge(3, 4, StyleResizable),
				},
			},
		},
	}
}

// Default builds the built-in catalog. It panics only if the built-in
// table itself is inconsistent, which tests guard against.
func Default() *Catalog {
	c, err := New(DefaultCategories()...)
	if err != nil {
		panic("catalog: invalid built-in library: " + err.Error())
	}
	return c
}
