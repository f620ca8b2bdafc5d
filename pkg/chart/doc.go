// Package chart renders capacity series as deterministic SVG charts.
//
// The package is the core of the report engine: it downsamples a measured
// capacity series to a fixed number of representative points, classifies
// each point into one of three capacity bands, builds a smoothed curve with
// a closed fill region, and composes the full chart markup.
//
// Every function here is a pure transformation. Identical inputs produce
// byte-identical markup: coordinates are formatted with a fixed one-decimal
// precision, element order is fixed, and no call reads the clock, the
// environment, or shared mutable state. That contract is what allows a
// frozen reference document to be compared byte-for-byte against future
// renders (see package report).
package chart
