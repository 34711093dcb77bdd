// ABOUTME: User model, profile update payload, and equipment enum.
// ABOUTME: Equipment is persisted as a JSON array of tags on the user row.
package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// NotSet is the placeholder stored in freeform profile fields until the user fills them in.
const NotSet = "N/A"

// Equipment is a kind of training equipment a user has access to.
type Equipment string

const (
	EquipmentDumbbells  Equipment = "dumbbells"
	EquipmentBodyweight Equipment = "bodyweight"
	EquipmentCardio     Equipment = "cardio"
	EquipmentMachines   Equipment = "machines"
)

// AllEquipment lists every valid equipment tag in display order.
var AllEquipment = []Equipment{
	EquipmentDumbbells, EquipmentBodyweight, EquipmentCardio, EquipmentMachines,
}

// ParseEquipment validates a single equipment tag.
func ParseEquipment(s string) (Equipment, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, e := range AllEquipment {
		if string(e) == s {
			return e, nil
		}
	}
	return "", fmt.Errorf("unknown equipment: %q", s)
}

// EncodeEquipment serializes equipment tags for the users.selectedEquipment column.
func EncodeEquipment(eq []Equipment) string {
	if len(eq) == 0 {
		return "[]"
	}
	data, err := json.Marshal(eq)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// DecodeEquipment parses the users.selectedEquipment column.
// Empty or NULL columns decode to an empty list.
func DecodeEquipment(s string) ([]Equipment, error) {
	if strings.TrimSpace(s) == "" {
		return []Equipment{}, nil
	}
	var eq []Equipment
	if err := json.Unmarshal([]byte(s), &eq); err != nil {
		return nil, fmt.Errorf("decode equipment: %w", err)
	}
	if eq == nil {
		eq = []Equipment{}
	}
	return eq, nil
}

// User is an account plus its freeform profile.
// Age, Sex, Height and Weight are free text and are not validated at storage time.
type User struct {
	ID              int64       `json:"id" yaml:"id"`
	Name            string      `json:"name" yaml:"name"`
	Email           *string     `json:"email,omitempty" yaml:"email,omitempty"`
	Age             string      `json:"age" yaml:"age"`
	Sex             string      `json:"sex" yaml:"sex"`
	Height          string      `json:"height" yaml:"height"`
	Weight          string      `json:"weight" yaml:"weight"`
	PasswordHash    *string     `json:"-" yaml:"-"`
	ProfileImageURI *string     `json:"profile_image_uri,omitempty" yaml:"profile_image_uri,omitempty"`
	Equipment       []Equipment `json:"equipment" yaml:"equipment"`
}

// ProfileUpdate returns the mutable part of the user, ready to be edited and saved.
func (u User) ProfileUpdate() ProfileUpdate {
	eq := make([]Equipment, len(u.Equipment))
	copy(eq, u.Equipment)
	return ProfileUpdate{
		Name:            u.Name,
		Email:           u.Email,
		Age:             u.Age,
		Sex:             u.Sex,
		Height:          u.Height,
		Weight:          u.Weight,
		ProfileImageURI: u.ProfileImageURI,
		Equipment:       eq,
	}
}

// Apply copies the update onto the user. ID and password are never touched.
func (u *User) Apply(p ProfileUpdate) {
	u.Name = p.Name
	u.Email = p.Email
	u.Age = p.Age
	u.Sex = p.Sex
	u.Height = p.Height
	u.Weight = p.Weight
	u.ProfileImageURI = p.ProfileImageURI
	u.Equipment = append([]Equipment(nil), p.Equipment...)
}

// ProfileUpdate holds every field written by a profile save.
type ProfileUpdate struct {
	Name            string
	Email           *string
	Age             string
	Sex             string
	Height          string
	Weight          string
	ProfileImageURI *string
	Equipment       []Equipment
}
