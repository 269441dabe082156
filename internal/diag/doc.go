// Package diag defines the diagnostic model shared by the lexer, parser,
// constant evaluator, elaborator and lint passes.
//
// Producers talk to a Reporter; the driver owns the Bag and sorts it once,
// by primary span, before anything is rendered. The elaborator reports
// through a DedupReporter. Rendering
// lives in internal/diagfmt.
//
// Codes are grouped by phase and carry a stable ID prefix:
// LEX (1000), SYN (2000), ELB (3000), EVL (3500), IO (4000), PRJ (5000),
// OBS (6000), LNT (7000). Codes for which ValueDependent is true are
// suppressed inside uninstantiated bodies.
package diag
