/**
 * @description
 * User account use cases: registration, profile updates, credential sign-in
 * with JWT issuance, and account deletion. Passwords are hashed with bcrypt
 * and never leave this package in any readable form.
 */

package app

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hopeshare/campaign-service/internal/domain"
	"github.com/hopeshare/campaign-service/internal/store"
)

// SaveUser creates a user when the payload carries no id, otherwise updates
// the existing record. The password is only honored on create.
func (s *Service) SaveUser(ctx context.Context, payload domain.SaveUserPayload) (*domain.SafeUser, error) {
	if payload.Name == "" || payload.Email == "" {
		return nil, ErrInvalidInput
	}

	if payload.UserID == nil {
		if payload.Password == "" {
			return nil, ErrInvalidInput
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user := &domain.User{
			ID:           uuid.New(),
			Name:         payload.Name,
			Email:        payload.Email,
			PasswordHash: string(hash),
			ImageURL:     payload.ImageURL,
			CPF:          payload.CPF,
			CNPJ:         payload.CNPJ,
			TypeUser:     payload.TypeUser,
		}
		if err := s.repo.CreateUser(ctx, user); err != nil {
			return nil, err
		}
		log.Printf("level=info component=app op=save_user outcome=created user_id=%s", user.ID)
		safe := user.Safe()
		return &safe, nil
	}

	user, err := s.repo.FindUserByID(ctx, *payload.UserID)
	if err != nil {
		return nil, err
	}
	user.Name = payload.Name
	user.Email = payload.Email
	user.ImageURL = payload.ImageURL
	user.CPF = payload.CPF
	user.CNPJ = payload.CNPJ
	if payload.TypeUser != "" {
		user.TypeUser = payload.TypeUser
	}
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	log.Printf("level=info component=app op=save_user outcome=updated user_id=%s", user.ID)
	safe := user.Safe()
	return &safe, nil
}

// SignIn checks the credentials and issues a bearer token. Unknown email and
// wrong password both return ErrInvalidCredentials.
func (s *Service) SignIn(ctx context.Context, payload domain.SignInPayload) (*domain.SignInResult, error) {
	if payload.Email == "" || payload.Password == "" {
		return nil, ErrInvalidInput
	}

	user, err := s.repo.FindUserByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}
	log.Printf("level=info component=app op=sign_in user_id=%s", user.ID)
	return &domain.SignInResult{User: user.Safe(), Token: token}, nil
}

func (s *Service) issueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": user.ID.String(),
		"iat": now.Unix(),
		"exp": now.Add(s.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// GetUser returns the safe projection of a user.
func (s *Service) GetUser(ctx context.Context, userID uuid.UUID) (*domain.SafeUser, error) {
	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	safe := user.Safe()
	return &safe, nil
}

// GetUserByEmail returns the safe projection of the user holding an email.
func (s *Service) GetUserByEmail(ctx context.Context, email string) (*domain.SafeUser, error) {
	user, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	safe := user.Safe()
	return &safe, nil
}

// DeleteUser removes an account and its uploaded KYC documents.
func (s *Service) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.DeleteUser(ctx, userID); err != nil {
		return err
	}
	if s.objects != nil {
		if _, err := s.objects.DeletePrefix(ctx, "validations/"+userID.String()+"/"); err != nil {
			log.Printf("level=warn component=app op=delete_user user_id=%s msg=\"document cleanup failed\" err=%v", userID, err)
		}
	}
	log.Printf("level=info component=app op=delete_user user_id=%s outcome=deleted", userID)
	return nil
}
