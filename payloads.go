package usermgmt

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/nyaruka/phonenumbers"
)

const dateOfBirthLayout = "2006-01-02"

// LoginPayload carries the credentials for POST /api/auth/login.
type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r LoginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// SignupPayload is the registration form payload. Password rules run before
// dispatch so the network is never used for trivially invalid input.
type SignupPayload struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword,omitempty"`
	PhoneNumber     string `json:"phoneNumber,omitempty"`
	DateOfBirth     string `json:"dateOfBirth,omitempty"`
}

// Validate will validate the payload
func (r SignupPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 50)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(
			&r.Password,
			validation.Required,
			validation.Length(6, 100).Error("Password must be at least 6 characters"),
		),
		validation.Field(
			&r.ConfirmPassword,
			validation.Required,
			validation.By(ValidateStringEquals(r.Password, "Passwords do not match")),
		),
		validation.Field(&r.PhoneNumber, validation.By(ValidatePhoneNumber)),
		validation.Field(&r.DateOfBirth, validation.Date(dateOfBirthLayout)),
	)
}

// ProfilePayload carries profile edits for PUT /api/users/{id}. The password
// is only sent when non-empty; profile edits never reissue the credential.
type ProfilePayload struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	Password    string `json:"password,omitempty"`
}

// Validate will validate the payload
func (r ProfilePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 50)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.PhoneNumber, validation.By(ValidatePhoneNumber)),
		validation.Field(&r.DateOfBirth, validation.Date(dateOfBirthLayout)),
		validation.Field(
			&r.Password,
			validation.Length(6, 100).Error("Password must be at least 6 characters"),
		),
	)
}

// ValidateStringEquals builds a rule asserting the value equals str.
func ValidateStringEquals(str, message string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != str {
			return errors.New(message)
		}
		return nil
	}
}

// ValidatePhoneNumber accepts empty values and otherwise requires a
// parseable, valid phone number.
func ValidatePhoneNumber(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}

	num, err := phonenumbers.Parse(s, "US")
	if err != nil {
		return errors.New("must be a valid phone number")
	}
	if !phonenumbers.IsValidNumber(num) {
		return errors.New("must be a valid phone number")
	}
	return nil
}
