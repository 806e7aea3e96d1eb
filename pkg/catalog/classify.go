package catalog

import "strings"

// Family is a coarse component group. Families are matched against a
// display name in a fixed priority order; the first match wins.
type Family int

const (
	FamilyGeneric Family = iota
	FamilyLens
	FamilyMirror
	FamilySplitter
	FamilyWavePlate
	FamilyIsolator
	FamilyModulator
	FamilyFilter
	FamilyGrating
	FamilyFiber
	FamilyCirculator
	FamilyAmplifier
	FamilySource
	FamilyDetector
)

var familyNames = map[Family]string{
	FamilyGeneric:    "generic",
	FamilyLens:       "lens",
	FamilyMirror:     "mirror",
	FamilySplitter:   "splitter",
	FamilyWavePlate:  "wave-plate",
	FamilyIsolator:   "isolator",
	FamilyModulator:  "modulator",
	FamilyFilter:     "filter",
	FamilyGrating:    "grating",
	FamilyFiber:      "fiber",
	FamilyCirculator: "circulator",
	FamilyAmplifier:  "amplifier",
	FamilySource:     "source",
	FamilyDetector:   "detector",
}

func (f Family) String() string {
	if s, ok := familyNames[f]; ok {
		return s
	}
	return "unknown"
}

// Kind is the fine-grained component classification that selects the
// markup emitter in the document generator.
type Kind int

const (
	KindGeneric Kind = iota
	KindLens
	KindThickLens
	KindObjectiveLens
	KindMirror
	KindCurvedMirror
	KindBeamSplitter
	KindPolarizingBeamSplitter
	KindHalfWavePlate
	KindQuarterWavePlate
	KindIsolator
	KindAcoustoOpticModulator
	KindElectroOpticModulator
	KindNeutralDensityFilter
	KindBandpassFilter
	KindGrating
	KindFiber
	KindCirculator
	KindAmplifier
	KindSource
	KindDetector
	KindBeamBlock
)

// Family returns the family a kind belongs to.
func (k Kind) Family() Family {
	switch k {
	case KindLens, KindThickLens, KindObjectiveLens:
		return FamilyLens
	case KindMirror, KindCurvedMirror:
		return FamilyMirror
	case KindBeamSplitter, KindPolarizingBeamSplitter:
		return FamilySplitter
	case KindHalfWavePlate, KindQuarterWavePlate:
		return FamilyWavePlate
	case KindIsolator:
		return FamilyIsolator
	case KindAcoustoOpticModulator, KindElectroOpticModulator:
		return FamilyModulator
	case KindNeutralDensityFilter, KindBandpassFilter:
		return FamilyFilter
	case KindGrating:
		return FamilyGrating
	case KindFiber:
		return FamilyFiber
	case KindCirculator:
		return FamilyCirculator
	case KindAmplifier:
		return FamilyAmplifier
	case KindSource:
		return FamilySource
	case KindDetector, KindBeamBlock:
		return FamilyDetector
	default:
		return FamilyGeneric
	}
}

// IsSplitter reports whether components of this kind split one beam into
// two paths. Splitters become branch points during generation.
func (k Kind) IsSplitter() bool { return k.Family() == FamilySplitter }

// variant refines a family match into a kind.
type variant struct {
	keywords []string
	kind     Kind
}

// familyRule is one row of the classification table.
type familyRule struct {
	family   Family
	keywords []string
	variants []variant // evaluated in order
	fallback Kind
}

// rules is the classification table. Order is significant: a name that
// contains keywords of several families resolves to the earliest row.
var rules = []familyRule{
	{
		family:   FamilyLens,
		keywords: []string{"Lens"},
		variants: []variant{
			{[]string{"Thick"}, KindThickLens},
			{[]string{"Objective"}, KindObjectiveLens},
		},
		fallback: KindLens,
	},
	{
		family:   FamilyMirror,
		keywords: []string{"Mirror"},
		variants: []variant{{[]string{"Curved"}, KindCurvedMirror}},
		fallback: KindMirror,
	},
	{
		family:   FamilySplitter,
		keywords: []string{"Beam Splitter", "BS"},
		variants: []variant{{[]string{"Polarizing", "PBS"}, KindPolarizingBeamSplitter}},
		fallback: KindBeamSplitter,
	},
	{
		family:   FamilyWavePlate,
		keywords: []string{"Wave Plate", "WP"},
		variants: []variant{{[]string{"Half", "HWP"}, KindHalfWavePlate}},
		fallback: KindQuarterWavePlate,
	},
	{
		family:   FamilyIsolator,
		keywords: []string{"Isolator"},
		fallback: KindIsolator,
	},
	{
		family:   FamilyModulator,
		keywords: []string{"Modulator", "AOM", "EOM"},
		// Electro-optic names get \eom; older generators emitted \aom for
		// every modulator.
		variants: []variant{{[]string{"Electro", "EOM"}, KindElectroOpticModulator}},
		fallback: KindAcoustoOpticModulator,
	},
	{
		family:   FamilyFilter,
		keywords: []string{"Filter"},
		variants: []variant{{[]string{"Bandpass"}, KindBandpassFilter}},
		fallback: KindNeutralDensityFilter,
	},
	{
		family:   FamilyGrating,
		keywords: []string{"Grating"},
		fallback: KindGrating,
	},
	{
		family:   FamilyFiber,
		keywords: []string{"Fiber"},
		fallback: KindFiber,
	},
	{
		family:   FamilyCirculator,
		keywords: []string{"Circulator"},
		fallback: KindCirculator,
	},
	{
		family:   FamilyAmplifier,
		keywords: []string{"Amplifier"},
		fallback: KindAmplifier,
	},
	{
		family:   FamilySource,
		keywords: []string{"Source", "Laser"},
		fallback: KindSource,
	},
	{
		family:   FamilyDetector,
		keywords: []string{"Detector", "Photodiode", "Camera", "Spectrometer"},
		variants: []variant{{[]string{"Block"}, KindBeamBlock}},
		fallback: KindDetector,
	},
}

// Classify resolves a display name to its kind by walking the
// classification table. Names matching no family are KindGeneric.
func Classify(name string) Kind {
	for _, r := range rules {
		if !containsAny(name, r.keywords) {
			continue
		}
		for _, v := range r.variants {
			if containsAny(name, v.keywords) {
				return v.kind
			}
		}
		return r.fallback
	}
	return KindGeneric
}

// Matches reports whether name contains one of the family's keywords,
// regardless of whether an earlier family would win in [Classify].
func (f Family) Matches(name string) bool {
	for _, r := range rules {
		if r.family == f {
			return containsAny(name, r.keywords)
		}
	}
	return false
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
