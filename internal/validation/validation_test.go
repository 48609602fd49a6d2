package validation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/qa-service/internal/errs"
	"github.com/labstack/echo/v4"
)

type payload struct {
	Name string `json:"name" validate:"required,min=2,max=5"`
	Kind string `json:"kind" validate:"omitempty,oneof=a b"`
	Ref  string `json:"ref" validate:"omitempty,uuid"`
}

func (p *payload) Validate() error {
	return Struct(p)
}

type customPayload struct{}

func (p *customPayload) Validate() error {
	return CustomValidationErrors{{Field: "x", Message: "is odd"}}
}

func bind(t *testing.T, body string, v Validatable) *errs.HTTPError {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())

	err := BindAndValidate(c, v)
	if err == nil {
		return nil
	}

	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("error %T is not *errs.HTTPError", err)
	}
	return httpErr
}

func TestBindAndValidate(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
		msg   string
	}{
		{"valid", `{"name":"abc"}`, "", ""},
		{"required", `{}`, "name", "is required"},
		{"min", `{"name":"a"}`, "name", "must be at least 2 characters"},
		{"max", `{"name":"abcdef"}`, "name", "must not exceed 5 characters"},
		{"oneof", `{"name":"abc","kind":"c"}`, "kind", "must be one of: a b"},
		{"uuid", `{"name":"abc","ref":"zzz"}`, "ref", "must be a valid UUID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := bind(t, tt.body, &payload{})

			if tt.field == "" {
				if httpErr != nil {
					t.Fatalf("unexpected error: %+v", httpErr)
				}
				return
			}

			if httpErr == nil {
				t.Fatal("expected a validation error")
			}
			if httpErr.Status != http.StatusBadRequest || !httpErr.Override {
				t.Fatalf("error = %+v, want overridable 400", httpErr)
			}
			if len(httpErr.Errors) != 1 || httpErr.Errors[0].Field != tt.field || httpErr.Errors[0].Error != tt.msg {
				t.Fatalf("errors = %+v, want %s %q", httpErr.Errors, tt.field, tt.msg)
			}
		})
	}
}

func TestBindAndValidateMalformedBody(t *testing.T) {
	httpErr := bind(t, `{"name":`, &payload{})
	if httpErr == nil || httpErr.Status != http.StatusBadRequest {
		t.Fatalf("error = %+v, want 400", httpErr)
	}
	if httpErr.Errors != nil {
		t.Fatalf("bind failures carry no field errors, got %+v", httpErr.Errors)
	}
}

func TestBindAndValidateCustomErrors(t *testing.T) {
	httpErr := bind(t, `{}`, &customPayload{})
	if httpErr == nil || len(httpErr.Errors) != 1 || httpErr.Errors[0].Field != "x" {
		t.Fatalf("error = %+v, want the custom field error", httpErr)
	}
}

func TestIsValidUUID(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"7f1f4b38-2b7a-4bd4-9f34-2f3cc9a7b1a0", true},
		{"7F1F4B38-2B7A-4BD4-9F34-2F3CC9A7B1A0", true},
		{"7f1f4b382b7a4bd49f342f3cc9a7b1a0", false},
		{"", false},
		{"7f1f4b38-2b7a-4bd4-9f34-2f3cc9a7b1a", false},
	}

	for _, tt := range tests {
		if got := IsValidUUID(tt.in); got != tt.want {
			t.Errorf("IsValidUUID(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestStructUUIDAcceptsUpperCase(t *testing.T) {
	upper := "7F1F4B38-2B7A-4BD4-9F34-2F3CC9A7B1A0"

	if err := Struct(&payload{Name: "abc", Ref: upper}); err != nil {
		t.Fatalf("Struct with upper case uuid: %v", err)
	}
	if err := Struct(&payload{Name: "abc", Ref: strings.ToLower(upper)}); err != nil {
		t.Fatalf("Struct with lower case uuid: %v", err)
	}
	if err := Struct(&payload{Name: "abc", Ref: "7F1F4B38"}); err == nil {
		t.Fatal("expected a short uuid to be rejected")
	}
}
