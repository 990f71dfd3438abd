package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEvaluation(t *testing.T) {
	visible := true
	suggestion := "say hi"

	tests := []struct {
		name    string
		eval    *Evaluation
		wantErr bool
	}{
		{"nil evaluation", nil, true},
		{"complete", &Evaluation{Action: ActionContribute, UserContributionVisible: &visible, Suggestion: &suggestion}, false},
		{"neutral helper", NeutralEvaluation(), false},
		{"missing action", &Evaluation{UserContributionVisible: &visible, Suggestion: &suggestion}, true},
		{"missing visibility", &Evaluation{Action: ActionOK, Suggestion: &suggestion}, true},
		{"missing suggestion", &Evaluation{Action: ActionOK, UserContributionVisible: &visible}, true},
		{"bad action value", &Evaluation{Action: "maybe", UserContributionVisible: &visible, Suggestion: &suggestion}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEvaluation(tt.eval)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrContractViolation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateResponse(t *testing.T) {
	visible := true

	tests := []struct {
		name    string
		resp    Response
		wantErr bool
	}{
		{"complete", NewResponse("hello", "main"), false},
		{"no channels is fine", NewResponse("hello"), false},
		{"missing visible", Response{Message: "hello"}, true},
		{"missing message", Response{Visible: &visible}, true},
		{"empty message", Response{Visible: &visible, Message: ""}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateResponse(tt.resp)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrContractViolation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
