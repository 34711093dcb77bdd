// ABOUTME: Tests for user model helpers.
// ABOUTME: Covers equipment encoding and profile update round trips.
package models

import (
	"reflect"
	"testing"
)

func TestEquipmentEncoding(t *testing.T) {
	tests := []struct {
		name string
		in   []Equipment
		want string
	}{
		{"empty", nil, "[]"},
		{"single", []Equipment{EquipmentCardio}, `["cardio"]`},
		{"multiple", []Equipment{EquipmentDumbbells, EquipmentMachines}, `["dumbbells","machines"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EncodeEquipment(tt.in)
			if got != tt.want {
				t.Errorf("EncodeEquipment() = %s, want %s", got, tt.want)
			}
			back, err := DecodeEquipment(got)
			if err != nil {
				t.Fatalf("DecodeEquipment() error: %v", err)
			}
			if len(back) != len(tt.in) {
				t.Errorf("DecodeEquipment() = %v, want %v", back, tt.in)
			}
		})
	}
}

func TestDecodeEquipmentEdgeCases(t *testing.T) {
	eq, err := DecodeEquipment("")
	if err != nil || eq == nil || len(eq) != 0 {
		t.Errorf("DecodeEquipment(\"\") = %v, %v", eq, err)
	}
	eq, err = DecodeEquipment("null")
	if err != nil || eq == nil {
		t.Errorf("DecodeEquipment(null) = %v, %v", eq, err)
	}
	if _, err := DecodeEquipment("not json"); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestParseEquipment(t *testing.T) {
	if e, err := ParseEquipment("Bodyweight"); err != nil || e != EquipmentBodyweight {
		t.Errorf("ParseEquipment(Bodyweight) = %q, %v", e, err)
	}
	if _, err := ParseEquipment("kettlebell"); err == nil {
		t.Error("expected error for unknown equipment")
	}
}

func TestProfileUpdateApply(t *testing.T) {
	email := "a@example.com"
	u := &User{ID: 7, Name: "ana", Age: NotSet, Sex: NotSet, Height: "170", Weight: "70", Equipment: []Equipment{EquipmentCardio}}
	hash := "hash"
	u.PasswordHash = &hash

	p := u.ProfileUpdate()
	p.Email = &email
	p.Equipment[0] = EquipmentMachines

	if u.Equipment[0] != EquipmentCardio {
		t.Fatal("ProfileUpdate should copy equipment")
	}

	u.Apply(p)
	if u.ID != 7 || u.PasswordHash == nil || *u.PasswordHash != "hash" {
		t.Error("Apply must not touch id or password")
	}
	if u.Email == nil || *u.Email != email {
		t.Errorf("Email = %v, want %s", u.Email, email)
	}
	if !reflect.DeepEqual(u.Equipment, []Equipment{EquipmentMachines}) {
		t.Errorf("Equipment = %v", u.Equipment)
	}
}

func TestProfileUpdateFromValue(t *testing.T) {
	snapshot := func() User {
		return User{Name: "ana", Height: "170", Weight: "70", Equipment: []Equipment{EquipmentDumbbells}}
	}

	p := snapshot().ProfileUpdate()
	if p.Name != "ana" || p.Height != "170" || p.Weight != "70" {
		t.Errorf("ProfileUpdate() = %+v", p)
	}
	if !reflect.DeepEqual(p.Equipment, []Equipment{EquipmentDumbbells}) {
		t.Errorf("Equipment = %v", p.Equipment)
	}
}
