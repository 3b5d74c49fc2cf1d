package artifact

import "testing"

func TestValidateTaskStatus(t *testing.T) {
	tests := []struct {
		status  TaskStatus
		wantErr bool
	}{
		{TaskNew, false},
		{TaskAssigned, false},
		{TaskInProgress, false},
		{TaskBlocked, false},
		{TaskDone, false},
		{"open", true},
		{"", true},
	}
	for _, tt := range tests {
		err := ValidateTaskStatus(tt.status)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateTaskStatus(%q) error = %v, wantErr %v", tt.status, err, tt.wantErr)
		}
	}
}

func TestValidatePlanStatus(t *testing.T) {
	tests := []struct {
		status  PlanStatus
		wantErr bool
	}{
		{PlanDraft, false},
		{PlanReady, false},
		{PlanInProgress, false},
		{PlanComplete, false},
		{PlanAbandoned, false},
		{"done", true},
		{"", true},
	}
	for _, tt := range tests {
		err := ValidatePlanStatus(tt.status)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePlanStatus(%q) error = %v, wantErr %v", tt.status, err, tt.wantErr)
		}
	}
}

func TestValidateSpecStatus(t *testing.T) {
	tests := []struct {
		status  SpecStatus
		wantErr bool
	}{
		{SpecDraft, false},
		{SpecPlanning, false},
		{SpecImplementation, false},
		{SpecTesting, false},
		{SpecDone, false},
		{"ready", true},
	}
	for _, tt := range tests {
		err := ValidateSpecStatus(tt.status)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateSpecStatus(%q) error = %v, wantErr %v", tt.status, err, tt.wantErr)
		}
	}
}
