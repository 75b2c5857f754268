// Animedex - Anime Tracking and Discovery Backend
// Copyright 2026 Animedex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/animedex/animedex

package validation

import (
	"strings"
	"testing"
)

type sampleRequest struct {
	UserID int    `validate:"required,min=1"`
	Kind   string `validate:"required,oneof=dismiss hide not_interested_genre"`
	Reason string `validate:"max=10"`
}

func TestValidateStructSuccess(t *testing.T) {
	req := sampleRequest{UserID: 1, Kind: "dismiss"}
	if verr := ValidateStruct(&req); verr != nil {
		t.Errorf("valid struct rejected: %v", verr)
	}
}

func TestValidateStructCollectsAllFailures(t *testing.T) {
	req := sampleRequest{Kind: "loved_it", Reason: "far too long for the field"}
	verr := ValidateStruct(&req)
	if verr == nil {
		t.Fatal("invalid struct accepted")
	}
	if len(verr.Errors()) != 3 {
		t.Errorf("error count = %d, want 3", len(verr.Errors()))
	}
}

func TestErrorTranslation(t *testing.T) {
	req := sampleRequest{Kind: "loved_it"}
	verr := ValidateStruct(&req)
	if verr == nil {
		t.Fatal("invalid struct accepted")
	}

	msg := verr.Error()
	if !strings.Contains(msg, "UserID is required") {
		t.Errorf("required translation missing from %q", msg)
	}
	if !strings.Contains(msg, "Kind must be one of: dismiss hide not_interested_genre") {
		t.Errorf("oneof translation missing from %q", msg)
	}
}

func TestToAPIError(t *testing.T) {
	verr := ValidateStruct(&sampleRequest{})
	if verr == nil {
		t.Fatal("invalid struct accepted")
	}

	apiErr := verr.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if apiErr.Message == "" {
		t.Error("message empty")
	}
}

func TestGetValidatorSingleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator returned distinct instances")
	}
}
