// Package rbac holds the static role -> capability and role -> status
// transition tables. Everything here is a pure lookup: no storage, no ambient
// "current user" state. Unknown roles resolve to nothing (fail closed).
package rbac

import "go-fabric-ledger/internal/model"

// Capability is a named action x resource grant.
type Capability string

const (
	CapEntryCreate     Capability = "entry:create"
	CapEntryView       Capability = "entry:view"
	CapEntryUpdate     Capability = "entry:update"
	CapEntryDelete     Capability = "entry:delete"
	CapQualityCreate   Capability = "quality:create"
	CapApprovalApprove Capability = "approval:approve"
	CapApprovalReject  Capability = "approval:reject"
	CapReportsViewAll  Capability = "reports:view_all"
	CapReportsExport   Capability = "reports:export"
	CapUserManage      Capability = "user:manage"
	CapSettingsManage  Capability = "settings:manage"
)

// AllCapabilities lists every capability the system knows.
var AllCapabilities = []Capability{
	CapEntryCreate,
	CapEntryView,
	CapEntryUpdate,
	CapEntryDelete,
	CapQualityCreate,
	CapApprovalApprove,
	CapApprovalReject,
	CapReportsViewAll,
	CapReportsExport,
	CapUserManage,
	CapSettingsManage,
}

// roleCapabilities maps each role to its grants. SUPERADMIN holds the union of
// everything, including grants no other role has.
var roleCapabilities = map[string][]Capability{
	model.RoleInwardClerk: {
		CapEntryCreate,
		CapEntryView,
		CapEntryUpdate,
	},
	model.RoleQualityChecker: {
		CapEntryView,
		CapQualityCreate,
	},
	model.RoleApprover: {
		CapEntryView,
		CapApprovalApprove,
		CapApprovalReject,
	},
	model.RoleSuperadmin: AllCapabilities,
}

// CapabilitiesOf returns the fixed capability set for a role. Unknown roles
// get an empty set.
func CapabilitiesOf(role string) []Capability {
	caps := roleCapabilities[role]
	out := make([]Capability, len(caps))
	copy(out, caps)
	return out
}

// Has reports whether the role holds the capability.
func Has(role string, capability Capability) bool {
	for _, c := range roleCapabilities[role] {
		if c == capability {
			return true
		}
	}
	return false
}

// HasAny reports whether the role holds at least one of the capabilities.
func HasAny(role string, caps ...Capability) bool {
	for _, c := range caps {
		if Has(role, c) {
			return true
		}
	}
	return false
}

// HasAll reports whether the role holds every one of the capabilities.
func HasAll(role string, caps ...Capability) bool {
	for _, c := range caps {
		if !Has(role, c) {
			return false
		}
	}
	return true
}

type transitionKey struct {
	role   string
	status model.FabricStatus
}

// allowedTransitions is keyed by (role, current status). Roles absent for a
// status have no transition rights from it. The aggregator does not consult
// this table: its transition is system-derived, not role-initiated.
var allowedTransitions = map[transitionKey][]model.FabricStatus{
	{model.RoleQualityChecker, model.StatusPendingQuality}: {
		model.StatusQualityChecked,
	},
	{model.RoleApprover, model.StatusQualityChecked}: {
		model.StatusApproved,
		model.StatusOnHold,
	},
	{model.RoleSuperadmin, model.StatusPendingQuality}: {
		model.StatusQualityChecked,
		model.StatusApproved,
		model.StatusOnHold,
	},
	{model.RoleSuperadmin, model.StatusQualityChecked}: {
		model.StatusApproved,
		model.StatusOnHold,
	},
}

// AllowedTransitions returns the statuses the role may move an entry to from
// its current status. Empty when the role has no transition rights there.
func AllowedTransitions(role string, current model.FabricStatus) []model.FabricStatus {
	next := allowedTransitions[transitionKey{role, model.NormalizeStatus(current)}]
	out := make([]model.FabricStatus, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether the role may move an entry from current to
// target.
func CanTransition(role string, current, target model.FabricStatus) bool {
	for _, s := range AllowedTransitions(role, current) {
		if s == target {
			return true
		}
	}
	return false
}
