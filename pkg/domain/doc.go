// Package domain contains the record shapes produced by the enrichment
// pipeline: detected technology stacks, registration metadata, discovered
// contacts, score breakdowns and the aggregate Enrichment handed to external
// collaborators. The types carry no behavior beyond small derived accessors
// and are safe to serialize as-is.
package domain
