// Package detector decides module applicability from weighted, imperfect
// signals under time pressure.
//
// Each detection rule is evaluated independently under its own timeout;
// matches contribute their weight to the module's confidence score, which is
// always clamped to [0,100] regardless of rule misconfiguration. Rules are
// read-only and side-effect-free, so evaluations run concurrently bounded by
// a worker limit.
package detector
