// Package zpl implements an interpreter for the subset of the Zebra
// Programming Language needed for on-screen label previews.
//
// The pipeline is: Classify (advisory capability pre-check) -> Lex (markup
// string to Command sequence) -> BuildPaintOps (stateful command sequencing
// to ordered paint operations). Rasterization of the paint operations lives
// in package raster.
//
// Supported opcodes: ^XA ^XZ ^FO ^FD ^FS ^CF ^BC ^BY ^FX. Anything else is
// lexed as an Unknown command and ignored downstream, so unsupported
// opcodes never block rendering of the supported subset.
package zpl
