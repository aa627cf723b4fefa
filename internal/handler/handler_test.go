package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"project-service/internal/domain"
	"project-service/internal/repository"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func TestRequestValidatorCustomRules(t *testing.T) {
	v := NewRequestValidator()
	valid := RegisterRequest{Username: "alice", Email: "a@x.com", Password: "secret123", TenantName: "Acme", TenantDomain: "acme-corp"}
	if err := v.Validate(&valid); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}

	cases := map[string]func(r *RegisterRequest){
		"uppercase slug":    func(r *RegisterRequest) { r.TenantDomain = "Acme" },
		"double hyphen":     func(r *RegisterRequest) { r.TenantDomain = "acme--corp" },
		"trailing hyphen":   func(r *RegisterRequest) { r.TenantDomain = "acme-" },
		"letters only":      func(r *RegisterRequest) { r.Password = "password" },
		"digits only":       func(r *RegisterRequest) { r.Password = "12345678" },
		"short password":    func(r *RegisterRequest) { r.Password = "ab1" },
		"short username":    func(r *RegisterRequest) { r.Username = "al" },
		"missing tenant":    func(r *RegisterRequest) { r.TenantName = "" },
		"malformed address": func(r *RegisterRequest) { r.Email = "alice" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := valid
			mutate(&req)
			err := v.Validate(&req)
			var verr *ValidationError
			if !errors.As(err, &verr) || len(verr.Details) != 1 {
				t.Fatalf("expected one validation detail, got %v", err)
			}
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation in chain, got %v", err)
			}
		})
	}
}

func TestValidationDetailsUseJSONNames(t *testing.T) {
	err := NewRequestValidator().Validate(&AddMemberRequest{Role: "boss"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	want := []string{"user_id is required", "role must be one of [owner member]"}
	if fmt.Sprint(verr.Details) != fmt.Sprint(want) {
		t.Fatalf("expected %v, got %v", want, verr.Details)
	}
}

func TestClassify(t *testing.T) {
	storeConflict := &repository.StoreError{Kind: domain.ErrConflict, Err: errors.New(`duplicate key value violates unique constraint "users_email_key"`)}

	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", fmt.Errorf("%w: name cannot be null", domain.ErrValidation), http.StatusUnprocessableEntity, ""},
		{"duplicate credential", domain.ErrDuplicateCredential, http.StatusBadRequest, domain.ErrDuplicateCredential.Error()},
		{"unauthenticated", fmt.Errorf("%w: expired", domain.ErrUnauthenticated), http.StatusUnauthorized, domain.ErrUnauthenticated.Error()},
		{"not found", fmt.Errorf("project %w", domain.ErrNotFound), http.StatusNotFound, ""},
		{"invalid assignee", domain.ErrInvalidAssignee, http.StatusBadRequest, domain.ErrInvalidAssignee.Error()},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, ""},
		{"store conflict hides driver text", storeConflict, http.StatusConflict, "resource already exists"},
		{"store data exception hides driver text", &repository.StoreError{Kind: domain.ErrValidation, Err: errors.New(`value too long for type character varying(100)`)}, http.StatusUnprocessableEntity, "value rejected by the store"},
		{"transient", &repository.StoreError{Kind: domain.ErrTransientStore, Err: errors.New("connection reset")}, http.StatusServiceUnavailable, ""},
		{"echo error", echo.NewHTTPError(http.StatusMethodNotAllowed, "nope"), http.StatusMethodNotAllowed, "nope"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := classify(tc.err)
			if status != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, status)
			}
			if tc.message != "" && body.Error != tc.message {
				t.Fatalf("expected message %q, got %q", tc.message, body.Error)
			}
		})
	}
}

func TestErrorHandlerSetsChallengeOnUnauthorized(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/users/me", nil), rec)

	ErrorHandler(zap.NewNop())(domain.ErrUnauthenticated, c)

	if rec.Code != http.StatusUnauthorized || rec.Header().Get(echo.HeaderWWWAuthenticate) != "Bearer" {
		t.Fatalf("expected 401 with challenge, got %d %q", rec.Code, rec.Header().Get(echo.HeaderWWWAuthenticate))
	}
}

func TestPathIDTreatsMalformedAsNotFound(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("123")

	if _, err := pathID(c, "id", "project"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
