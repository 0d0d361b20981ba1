package model

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	return ve.Fields
}

func TestRegistrationNormalize(t *testing.T) {
	tests := []struct {
		name     string
		in       Registration
		wantMail string
		wantRole string
	}{
		{"email lowered and trimmed", Registration{Email: "  Joe@Example.COM "}, "joe@example.com", RoleUser},
		{"admin role kept", Registration{Role: "Admin"}, "", RoleAdmin},
		{"unknown role demoted", Registration{Role: "superuser"}, "", RoleUser},
		{"empty role defaults", Registration{}, "", RoleUser},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Normalize()
			if tt.in.Email != tt.wantMail {
				t.Errorf("email = %q, want %q", tt.in.Email, tt.wantMail)
			}
			if tt.in.Role != tt.wantRole {
				t.Errorf("role = %q, want %q", tt.in.Role, tt.wantRole)
			}
		})
	}
}

func TestRegistrationValidate(t *testing.T) {
	valid := Registration{Name: "Joe", Tel: "0812345678", Email: "joe@example.com", Password: "secret1", Role: RoleUser}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid registration rejected: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Registration)
		badKeys []string
	}{
		{"missing name", func(r *Registration) { r.Name = "" }, []string{"name"}},
		{"name too long", func(r *Registration) { r.Name = strings.Repeat("x", 101) }, []string{"name"}},
		{"missing tel", func(r *Registration) { r.Tel = "" }, []string{"tel"}},
		{"tel too long", func(r *Registration) { r.Tel = strings.Repeat("0", 21) }, []string{"tel"}},
		{"bad email", func(r *Registration) { r.Email = "not-an-address" }, []string{"email"}},
		{"short password", func(r *Registration) { r.Password = "abc" }, []string{"password"}},
		{"everything missing", func(r *Registration) { *r = Registration{} }, []string{"name", "tel", "email", "password"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			fields := fieldsOf(t, r.Validate())
			for _, key := range tt.badKeys {
				if _, ok := fields[key]; !ok {
					t.Errorf("missing message for %q in %v", key, fields)
				}
			}
			if len(fields) != len(tt.badKeys) {
				t.Errorf("fields = %v, want exactly %v", fields, tt.badKeys)
			}
		})
	}
}

func TestRestaurantValidate(t *testing.T) {
	valid := Restaurant{Name: "Thai Garden", Address: "1 Main St", Tel: "021234567", OpenHours: "10:00-22:00"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid restaurant rejected: %v", err)
	}

	bad := Restaurant{}
	fields := fieldsOf(t, bad.Validate())
	for _, key := range []string{"name", "address", "tel", "openHours"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("missing message for %q in %v", key, fields)
		}
	}
}

func TestRestaurantNormalize(t *testing.T) {
	r := Restaurant{Name: "  Thai Garden ", Address: " 1 Main St ", Tel: " 021234567 ", OpenHours: " 10:00-22:00 "}
	r.Normalize()
	if r.Name != "Thai Garden" || r.Address != "1 Main St" || r.Tel != "021234567" || r.OpenHours != "10:00-22:00" {
		t.Errorf("Normalize() left %+v", r)
	}
}

func TestReservationValidate(t *testing.T) {
	valid := Reservation{ApptDate: time.Now().Add(24 * time.Hour), UserID: 1, RestaurantID: 2}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid reservation rejected: %v", err)
	}

	fields := fieldsOf(t, (&Reservation{}).Validate())
	for _, key := range []string{"apptDate", "user", "restaurant"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("missing message for %q in %v", key, fields)
		}
	}
}

func TestValidationErrorMessageIsStable(t *testing.T) {
	err := newValidationError(map[string]string{
		"tel":  "telephone number is required",
		"name": "name is required",
	})
	want := "name: name is required; tel: telephone number is required"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestNewValidationErrorNilWhenClean(t *testing.T) {
	if err := newValidationError(map[string]string{}); err != nil {
		t.Errorf("newValidationError(empty) = %v, want nil", err)
	}
}
