// Package report assembles capacity charts into complete, immutable report
// documents.
//
// A document is a single self-contained HTML string: inline styles, inline
// SVG charts, no external references. The same builder serves three artifact
// variants (personal, team, anonymized cohort) through one parameterized
// path, and the Stamp/Reference pair gives the document its chain-of-custody
// metadata and the frozen golden-master entry point that reproducibility
// tooling diffs against.
//
// Everything here is synchronous and pure once inputs are fixed. The only
// sources of nondeterminism - the clock and the artifact UUID - live in
// Stamp and are bypassed entirely when metadata overrides are supplied.
package report
