/**
 * @description
 * Domain models for users. The `Admin` flag is a plain per-user boolean, not a
 * role hierarchy; every privileged operation loads the caller record and checks
 * it through the authorization guard in internal/app.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a platform account. PasswordHash never crosses the API
// boundary; handlers expose SafeUser instead.
type User struct {
	ID               uuid.UUID `json:"user_id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	ImageURL         *string   `json:"image,omitempty"`
	CPF              *string   `json:"cpf,omitempty"`
	CNPJ             *string   `json:"cnpj,omitempty"`
	CNPJVerified     bool      `json:"cnpj_verified"`
	TypeUser         string    `json:"type_user"`
	Admin            bool      `json:"is_admin"`
	CampaignsCreated int       `json:"campaigns_created"`
	TotalDonated     int64     `json:"total_donated"` // in centavos
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// SafeUser is the externally visible projection of a User.
type SafeUser struct {
	ID           uuid.UUID `json:"user_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	ImageURL     *string   `json:"image,omitempty"`
	CPF          *string   `json:"cpf,omitempty"`
	CNPJ         *string   `json:"cnpj,omitempty"`
	CNPJVerified bool      `json:"cnpj_verified"`
	TypeUser     string    `json:"type_user"`
	Admin        bool      `json:"is_admin"`
}

// Safe strips credential material from a User.
func (u *User) Safe() SafeUser {
	return SafeUser{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		ImageURL:     u.ImageURL,
		CPF:          u.CPF,
		CNPJ:         u.CNPJ,
		CNPJVerified: u.CNPJVerified,
		TypeUser:     u.TypeUser,
		Admin:        u.Admin,
	}
}

// SaveUserPayload is the DTO for creating or updating a user. An absent UserID
// means create; Password is only honored on create.
type SaveUserPayload struct {
	UserID   *uuid.UUID `json:"user_id,omitempty"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Password string     `json:"password,omitempty"`
	ImageURL *string    `json:"image,omitempty"`
	CPF      *string    `json:"cpf,omitempty"`
	CNPJ     *string    `json:"cnpj,omitempty"`
	TypeUser string     `json:"type_user"`
}

// SignInPayload is the DTO for the credential check.
type SignInPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInResult carries the safe user plus the bearer token issued for the session.
type SignInResult struct {
	User  SafeUser `json:"user"`
	Token string   `json:"token"`
}
