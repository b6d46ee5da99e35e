// Package domain models disaster-response field data for the North Sumatra
// coordination service: volunteer check-ins, relief facilities, rapid
// assessments, logistics requests, and the audit trail behind moderation.
//
// # Coordinates
//
// All coordinates are decimal degrees (WGS 84). Raw submissions carry
// latitude/longitude as strings keyed in by field volunteers; they are
// validated by [ParseCoordinates] before any geometry runs. Non-finite or
// unparsable values never reach the geometry kernel.
//
// Polygon rings follow GeoJSON vertex order conventions (longitude = x,
// latitude = y) with an implicit closing edge. Interior holes are not
// modeled; municipality boundaries in the served dataset are outer rings
// only.
//
// # Region Classification
//
// [ClassifyPoint] resolves a coordinate to a municipality name using
// ray-casting point-in-polygon tests, or to one of two sentinels:
//
//	"OUTSIDE"           the point is in none of the loaded regions
//	"DETECTION_FAILED"  the boundary dataset is missing or corrupt
//
// Classification is advisory. A failed detection is recorded on the
// submission as-is and never blocks a check-in or assessment.
//
// # Facility IDs
//
//	"<type prefix>-<region code><seq>"  →  e.g. "P-KR003"
//
// means the third shelter ("Posko Pengungsian", prefix P) registered in
// Karo (region code KR). Sequence numbers are three digits, zero padded,
// scoped to the type+region prefix. IDs are generated once at creation and
// are identical regardless of which backing store accepts the row.
//
// # Assessment Scoring
//
// Each assessment kind fixes a question set and per-question weights
// (configuration, not runtime input). Answers are integers on a 1–5 scale:
//
//	score = 100 × Σ(answer × weight) / Σ(5 × weight)
//
// rounded to two decimals, then classified into three tiers:
//
//	score ≥ 80   "Kritis"
//	score ≥ 60   "Waspada"
//	otherwise    "Aman"
//
// Out-of-range answers clamp to the nearest bound (a keyed-in 7 counts as
// 5); only unparsable input falls back to the scale minimum. See
// [ClampAnswer].
//
// # Logistics Lifecycle
//
// Requests move through Proposed → Processing → Shipped → Received, with
// Rejected reachable at any point. Transitions validate membership in the
// status set only — backward moves are allowed so operators can correct
// mistakes. Every transition appends exactly one [AuditEntry].
package domain
