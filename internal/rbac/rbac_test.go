package rbac

import (
	"testing"

	"go-fabric-ledger/internal/model"
)

func TestCapabilitiesAreFixedPerRole(t *testing.T) {
	cases := []struct {
		role string
		want []Capability
	}{
		{model.RoleInwardClerk, []Capability{CapEntryCreate, CapEntryView, CapEntryUpdate}},
		{model.RoleQualityChecker, []Capability{CapEntryView, CapQualityCreate}},
		{model.RoleApprover, []Capability{CapEntryView, CapApprovalApprove, CapApprovalReject}},
	}
	for _, tc := range cases {
		got := CapabilitiesOf(tc.role)
		if len(got) != len(tc.want) {
			t.Errorf("%s: got %d capabilities, want %d", tc.role, len(got), len(tc.want))
			continue
		}
		for i := range tc.want {
			if got[i] != tc.want[i] {
				t.Errorf("%s: capability %d = %s, want %s", tc.role, i, got[i], tc.want[i])
			}
		}
	}
}

func TestSuperadminHoldsSupersetOfEveryRole(t *testing.T) {
	roles := []string{model.RoleInwardClerk, model.RoleQualityChecker, model.RoleApprover}
	for _, role := range roles {
		for _, c := range CapabilitiesOf(role) {
			if !Has(model.RoleSuperadmin, c) {
				t.Errorf("superadmin missing %s held by %s", c, role)
			}
		}
	}
	if len(CapabilitiesOf(model.RoleSuperadmin)) != len(AllCapabilities) {
		t.Errorf("superadmin must hold every capability")
	}
}

func TestUnknownRoleFailsClosed(t *testing.T) {
	for _, role := range []string{"", "GUEST", "superadmin"} {
		if got := CapabilitiesOf(role); len(got) != 0 {
			t.Errorf("role %q: expected empty capability set, got %v", role, got)
		}
		if Has(role, CapEntryView) {
			t.Errorf("role %q: Has must fail closed", role)
		}
		if got := AllowedTransitions(role, model.StatusPendingQuality); len(got) != 0 {
			t.Errorf("role %q: expected no transitions, got %v", role, got)
		}
	}
}

func TestHasAnyHasAll(t *testing.T) {
	if !HasAny(model.RoleApprover, CapQualityCreate, CapApprovalApprove) {
		t.Error("approver should match on approval:approve")
	}
	if HasAny(model.RoleInwardClerk, CapApprovalApprove, CapApprovalReject) {
		t.Error("clerk holds no approval capability")
	}
	if !HasAll(model.RoleApprover, CapApprovalApprove, CapApprovalReject) {
		t.Error("approver holds both approval capabilities")
	}
	if HasAll(model.RoleQualityChecker, CapEntryView, CapEntryCreate) {
		t.Error("checker cannot create entries")
	}
}

func TestAllowedTransitions(t *testing.T) {
	got := AllowedTransitions(model.RoleQualityChecker, model.StatusPendingQuality)
	if len(got) != 1 || got[0] != model.StatusQualityChecked {
		t.Errorf("checker from PENDING_QUALITY: got %v", got)
	}

	if got := AllowedTransitions(model.RoleQualityChecker, model.StatusQualityChecked); len(got) != 0 {
		t.Errorf("checker from QUALITY_CHECKED: got %v, want none", got)
	}

	if !CanTransition(model.RoleApprover, model.StatusQualityChecked, model.StatusOnHold) {
		t.Error("approver may hold a quality-checked entry")
	}
	if CanTransition(model.RoleApprover, model.StatusPendingQuality, model.StatusApproved) {
		t.Error("approver has no rights before the quality check")
	}
	if CanTransition(model.RoleInwardClerk, model.StatusPendingQuality, model.StatusQualityChecked) {
		t.Error("clerk may not move entries")
	}
}

func TestLegacyStatusNormalizedBeforeLookup(t *testing.T) {
	// READY_TO_ISSUE rows predate the canonical APPROVED terminal; transition
	// lookups must treat them as APPROVED (i.e. terminal, nothing allowed).
	if got := AllowedTransitions(model.RoleApprover, model.StatusReadyToIssue); len(got) != 0 {
		t.Errorf("legacy terminal status: got %v, want none", got)
	}
}
