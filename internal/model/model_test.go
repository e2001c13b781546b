package model

import "testing"

func intPtr(v int) *int { return &v }

func TestParseRole(t *testing.T) {
	tests := []struct {
		label string
		want  Role
	}{
		{"Team_Lead", RoleLead},
		{"team_lead", RoleLead},
		{"  TEAM LEAD ", RoleLead},
		{"team-lead", RoleLead},
		{"Individual", RoleIndividual},
		{"Lead", RoleIndividual},
		{"", RoleIndividual},
		{"Program_Manager", RoleIndividual},
	}

	for _, tt := range tests {
		if got := ParseRole(tt.label); got != tt.want {
			t.Errorf("ParseRole(%q) = %v, want %v", tt.label, got, tt.want)
		}
	}
}

func TestFormatRoleLabel(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"Team_Lead", "Team Lead"},
		{"program_manager", "Program Manager"},
		{"individual", "Individual"},
		{"", ""},
		{"__", ""},
		{"élève_senior", "Élève Senior"},
	}

	for _, tt := range tests {
		if got := FormatRoleLabel(tt.label); got != tt.want {
			t.Errorf("FormatRoleLabel(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}
}

// TestIsActiveGoalStatus は除外リストとの比較が大文字小文字を区別することを検証する。
func TestIsActiveGoalStatus(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{"In Progress", true},
		{"Not Started", true},
		{"", true},
		{"Complete", false},
		{"Canceled", false},
		{"Cancelled", false},
		{"Archived", false},
		{"complete", true},
		{"ARCHIVED", true},
	}

	for _, tt := range tests {
		if got := IsActiveGoalStatus(tt.status); got != tt.want {
			t.Errorf("IsActiveGoalStatus(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestShouldDisplayPersonality(t *testing.T) {
	tests := []struct {
		name    string
		records []TraitRecord
		want    bool
	}{
		{"nil", nil, false},
		{"trait name without poles", []TraitRecord{{Trait: "Openness"}}, false},
		{"poles without trait name", []TraitRecord{{HighType: "Curious", LowType: "Cautious"}}, false},
		{"high pole only", []TraitRecord{{Trait: "Openness", HighType: "Curious"}}, true},
		{"low pole only", []TraitRecord{{Trait: "Openness", LowType: "Cautious"}}, true},
		{
			"one meaningful record among empty ones",
			[]TraitRecord{{Trait: "Openness"}, {Trait: "Energy", LowType: "Calm"}},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldDisplayPersonality(tt.records); got != tt.want {
				t.Errorf("ShouldDisplayPersonality() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsFaded(t *testing.T) {
	if IsFaded(nil) {
		t.Error("nil value should not be faded")
	}
	if !IsFaded(intPtr(49)) {
		t.Error("49 should be faded")
	}
	if !IsFaded(intPtr(0)) {
		t.Error("0 should be faded")
	}
	if IsFaded(intPtr(50)) {
		t.Error("50 should not be faded")
	}
}

func TestIdentity_FullName(t *testing.T) {
	tests := []struct {
		identity Identity
		want     string
	}{
		{Identity{FirstName: "Ada", LastName: "Lovelace", DisplayName: "ada"}, "Ada Lovelace"},
		{Identity{FirstName: "Ada", DisplayName: "ada"}, "Ada"},
		{Identity{LastName: "Lovelace"}, "Lovelace"},
		{Identity{DisplayName: "ada"}, "ada"},
		{Identity{}, ""},
	}

	for _, tt := range tests {
		if got := tt.identity.FullName(); got != tt.want {
			t.Errorf("FullName() = %q, want %q", got, tt.want)
		}
	}
}

func TestAPIError_Error(t *testing.T) {
	err := NewInvalidGoalIDError("-1")
	if got := err.Error(); got != `[INVALID_GOAL_ID] Invalid goal ID: "-1"` {
		t.Errorf("Error() = %q", got)
	}
}
