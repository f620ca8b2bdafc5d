// Package io provides JSON import of document requests and JSON export of
// computed chart data.
//
// # Input Format
//
// A document request is a JSON object naming the variant, scale, protocol,
// observation window, and subjects:
//
//	{
//	  "variant": "cohort",
//	  "scale": "0-100",
//	  "protocol": "CAP-90 v2",
//	  "window": {"start": "2025-01-01", "end": "2025-03-31"},
//	  "subjects": [
//	    {"id": "s-01", "color": "#2f9e6b", "series": [72, 70.5, 68]}
//	  ]
//	}
//
// Subject fields:
//   - id: opaque identifier, validated for cache-key and file-name safety
//   - color: optional #RGB/#RRGGBB token used in anonymized output
//   - series: chronological capacity samples on the declared scale
//
// "variant" defaults to "personal" and "scale" to "0-100" when omitted.
//
// # Export
//
// Use [WriteJSON] to export the computed chart geometry (downsampled points
// with canonical values and band classification) for external tooling, or
// [ExportJSON] for file-based output. Exports describe derived data only and
// are not re-importable as requests.
package io
