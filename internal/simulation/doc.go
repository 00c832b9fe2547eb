// Package simulation drives the decision engine through multi-day
// synthetic usage to verify system-level properties: pacing, burden
// backoff, and explanation completeness. Scenarios are fully seeded, so
// every run is reproducible.
package simulation
