// Package domain contains the core business entities for CrescentBot.
// These types have no dependencies on infrastructure and represent the
// canonical vocabulary of the retrieval pipeline: passages, facets,
// retrieval results and recorded interactions.
package domain
