// Package domain contains the core business entities for contract drift
// tracking: clauses, fingerprints, changes, risk bands, and the contract
// and version records they hang off. The domain layer has no dependencies
// on adapters or external services.
package domain
