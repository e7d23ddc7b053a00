// Package rating scores cryptographic parameters into severity tiers.
//
// Rule tables map each tier (1 secure .. 4 forbidden) to either a set of
// accepted literal values or, for key lengths, a list of algorithm and
// operator/threshold pairs. The engine scans tiers in ascending order and
// the first match wins; anything unmatched, unknown, or "N/A" is tier 0.
//
// The default tables are embedded and parsed once. A replacement file can be
// loaded with LoadTablesFile.
package rating
