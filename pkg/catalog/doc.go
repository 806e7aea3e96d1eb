// Package catalog provides the registry of optical component archetypes.
//
// # Overview
//
// An [Archetype] is a template for one kind of bench component: a unique
// display name, the pst-optexp markup fragment that draws it, and default
// parameters such as the label. Archetypes are grouped into categories
// ("Light Sources", "Detectors", ...) for presentation only; identity is
// the display name.
//
// Complex setups (Michelson interferometer, ring cavity, ...) are
// archetypes whose Markup is a "setup:" sentinel and whose [Setup] lists
// sub-components and the beams between them. The setup package expands
// them into concrete diagram components.
//
// # Construction
//
// A [Catalog] is immutable. Build it once at startup and pass it to every
// consumer:
//
//	cat := catalog.Default()
//	extra, err := catalog.LoadTOMLFile("lab.toml")
//	if err != nil {
//	    return err
//	}
//	cat, err = catalog.Extend(cat, extra...)
//
// [New] and [Extend] reject duplicate display names instead of letting one
// archetype shadow another.
//
// # Classification
//
// [Classify] maps a display name to a [Kind] using a fixed, ordered table
// of keyword families (lens, mirror, splitter, wave plate, isolator,
// modulator, filter, grating, fiber, circulator, amplifier, source,
// detector). The first family whose keyword occurs in the name wins, so a
// name such as "Laser Detector" is a source, not a detector. Kinds are
// resolved once when an archetype is registered.
package catalog
