package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SoarAway/donki-wonki/models"
	"github.com/SoarAway/donki-wonki/utils"
)

// EndpointRegistrar exchanges a raw device token for the push
// endpoint identifier actually stored on the user. The SNS gateway
// implements it; a nil registrar stores tokens as-is.
type EndpointRegistrar interface {
	RegisterEndpoint(token string) (string, error)
}

type UserService struct {
	store     ScheduleStore
	registrar EndpointRegistrar
}

func NewUserService(store ScheduleStore, registrar EndpointRegistrar) *UserService {
	return &UserService{store: store, registrar: registrar}
}

func (s *UserService) resolveToken(deviceToken string) (string, error) {
	if s.registrar == nil || deviceToken == "" {
		return deviceToken, nil
	}
	endpoint, err := s.registrar.RegisterEndpoint(deviceToken)
	if err != nil {
		return "", fmt.Errorf("register push endpoint: %w", err)
	}
	return endpoint, nil
}

// Register creates a user with a bcrypt-hashed password. Registering
// an email that already exists refreshes that user's device token
// instead of failing, covering app re-installs.
func (s *UserService) Register(userName, password, email, dob, deviceToken string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	token, err := s.resolveToken(deviceToken)
	if err != nil {
		return nil, err
	}

	if existing, err := s.store.GetUserByEmail(email); err == nil {
		existing.DeviceToken = token
		if err := s.store.SaveUser(existing); err != nil {
			return nil, err
		}
		return existing, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	dobTime, err := time.Parse("2006-01-02", dob)
	if err != nil {
		return nil, fmt.Errorf("%w: date_of_birth must be YYYY-MM-DD", ErrInvalidInput)
	}

	user := &models.User{
		UserName:    userName,
		Email:       email,
		PasswordEnc: hashed,
		DateOfBirth: dobTime,
		DeviceToken: token,
	}
	if err := s.store.CreateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and returns the profile. It does not
// issue session tokens; session handling lives outside this backend.
func (s *UserService) Login(email, password string) (*models.User, error) {
	user, err := s.store.GetUserByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if !utils.CheckPasswordHash(password, user.PasswordEnc) {
		return nil, fmt.Errorf("%w: incorrect password", ErrInvalidInput)
	}
	return user, nil
}

// UpdateDeviceToken points an existing account at a new notification
// endpoint.
func (s *UserService) UpdateDeviceToken(email, deviceToken string) (*models.User, error) {
	user, err := s.store.GetUserByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	token, err := s.resolveToken(deviceToken)
	if err != nil {
		return nil, err
	}
	user.DeviceToken = token
	if err := s.store.SaveUser(user); err != nil {
		return nil, err
	}
	return user, nil
}
