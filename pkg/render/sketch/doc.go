// Package sketch draws a raster preview of a diagram's canvas.
//
// Components are drawn as rounded boxes at their pixel positions, filled
// by family, with their label underneath. Beam paths are drawn first so
// boxes sit on top of them. The preview needs no TeX toolchain.
//
// [Sink] implements [diagram.RenderSink] and rewrites a PNG file on every
// render, which is what the watch command uses for live previews.
package sketch
