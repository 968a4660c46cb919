package domain

import "time"

// ContractType identifies the kind of legal document being tracked.
type ContractType string

const (
	// ContractTOS is a Terms of Service document.
	ContractTOS ContractType = "tos"

	// ContractSLA is a Service Level Agreement.
	ContractSLA ContractType = "sla"

	// ContractDPA is a Data Processing Agreement.
	ContractDPA ContractType = "dpa"

	// ContractPrivacy is a Privacy Policy.
	ContractPrivacy ContractType = "privacy"

	// ContractOther is any other contract type.
	ContractOther ContractType = "other"
)

// Contract represents one vendor contract tracked across versions.
type Contract struct {
	// ID is the unique identifier for the contract.
	ID string

	// Name is the human-readable contract name.
	Name string

	// Vendor is the counterparty the contract belongs to.
	Vendor string

	// Type is the contract type.
	Type ContractType

	// CreatedAt is when the contract was first registered.
	CreatedAt time.Time
}

// Version is one snapshot of a contract's text. Versions of the same
// contract are ordered by Number; drift is detected between consecutive
// snapshots.
type Version struct {
	// ID is the unique identifier for the version.
	ID string

	// ContractID links to the parent contract.
	ContractID string

	// Number is the 1-based version sequence number.
	Number int

	// RawText is the extracted plain text of the document.
	RawText string

	// CreatedAt is when the version was ingested.
	CreatedAt time.Time
}

// AlertStatus tracks delivery of an alert. Delivery itself is an
// external concern; the pipeline only records pending alerts.
type AlertStatus string

const (
	// AlertPending means the alert awaits delivery.
	AlertPending AlertStatus = "pending"

	// AlertSent means the alert was delivered.
	AlertSent AlertStatus = "sent"

	// AlertFailed means delivery failed.
	AlertFailed AlertStatus = "failed"
)

// Alert records a change risky enough to surface to the contract owner.
type Alert struct {
	// ID is the unique identifier for the alert.
	ID string

	// ContractID links to the contract the change belongs to.
	ContractID string

	// ChangeID links to the triggering change.
	ChangeID string

	// RiskLevel is the risk band that triggered the alert.
	RiskLevel RiskLevel

	// Status is the delivery status.
	Status AlertStatus

	// CreatedAt is when the alert was created.
	CreatedAt time.Time
}
