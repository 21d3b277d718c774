package validator

import (
	"strings"
	"testing"
)

type sampleRequest struct {
	Email    string `validate:"required,email"`
	FullName string `validate:"required,min=2"`
	Status   string `validate:"omitempty,oneof=pending paid refunded"`
}

func TestValidatePasses(t *testing.T) {
	v := NewValidator()
	req := sampleRequest{Email: "user@example.com", FullName: "Nimal Perera", Status: "paid"}

	if err := v.Validate(&req); err != nil {
		t.Errorf("Validate() error = %v for a valid struct", err)
	}
}

func TestFormatValidationErrors(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name      string
		req       sampleRequest
		wantField string
		wantHint  string
	}{
		{
			name:      "missing required field",
			req:       sampleRequest{Email: "user@example.com"},
			wantField: "FullName",
			wantHint:  "required",
		},
		{
			name:      "invalid email",
			req:       sampleRequest{Email: "not-an-email", FullName: "Nimal"},
			wantField: "Email",
			wantHint:  "valid email",
		},
		{
			name:      "too short",
			req:       sampleRequest{Email: "user@example.com", FullName: "N"},
			wantField: "FullName",
			wantHint:  "at least 2",
		},
		{
			name:      "not in allowed set",
			req:       sampleRequest{Email: "user@example.com", FullName: "Nimal", Status: "unknown"},
			wantField: "Status",
			wantHint:  "one of",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.req)
			if err == nil {
				t.Fatal("Validate() error = nil, want validation error")
			}

			formatted := v.FormatValidationErrors(err)
			msg, ok := formatted[tt.wantField]
			if !ok {
				t.Fatalf("no message for field %q in %v", tt.wantField, formatted)
			}
			if !strings.Contains(msg, tt.wantHint) {
				t.Errorf("message %q does not contain %q", msg, tt.wantHint)
			}
		})
	}
}
