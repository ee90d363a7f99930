// Package register manages contact registrations: a full name, a phone
// number and an email address per entry.
package register

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidInput wraps every validation failure returned by Service.
var ErrInvalidInput = errors.New("invalid register input")

const (
	MessageSuccess  = "success"
	MessageNotFound = "register not found"
)

type Register struct {
	ID          int64     `json:"id"`
	FullName    string    `json:"fullName"`
	PhoneNumber string    `json:"phoneNumber"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Input is the client-supplied part of a Register.
type Input struct {
	FullName    string `json:"fullName" validate:"required,min=2,max=100"`
	PhoneNumber string `json:"phoneNumber" validate:"required,e164"`
	Email       string `json:"email" validate:"required,email"`
}

// Result is the envelope returned by mutating operations.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Store persists registers. Get, Update and Delete return an error wrapping
// the store's not-found sentinel when id does not exist.
type Store interface {
	List(ctx context.Context) ([]Register, error)
	Get(ctx context.Context, id int64) (Register, error)
	Create(ctx context.Context, r Register) (Register, error)
	Update(ctx context.Context, r Register) error
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	store    Store
	validate *validator.Validate
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		validate: validator.New(),
		logger:   logger.With("component", "register-service"),
		now:      time.Now,
	}
}

func (s *Service) List(ctx context.Context) ([]Register, error) {
	return s.store.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Register, error) {
	return s.store.Get(ctx, id)
}

// Create validates in and stores a new register.
func (s *Service) Create(ctx context.Context, in Input) (Register, Result, error) {
	in = in.normalize()
	if err := s.check(in); err != nil {
		return Register{}, Result{}, err
	}

	created, err := s.store.Create(ctx, Register{
		FullName:    in.FullName,
		PhoneNumber: in.PhoneNumber,
		Email:       in.Email,
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		return Register{}, Result{}, fmt.Errorf("create register: %w", err)
	}

	s.logger.Info("register created", "id", created.ID)
	return created, Result{Success: true, Message: MessageSuccess}, nil
}

// Update replaces the fields of register id with in.
func (s *Service) Update(ctx context.Context, id int64, in Input) (Result, error) {
	in = in.normalize()
	if err := s.check(in); err != nil {
		return Result{}, err
	}

	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return Result{Message: MessageNotFound}, err
	}
	existing.FullName = in.FullName
	existing.PhoneNumber = in.PhoneNumber
	existing.Email = in.Email

	if err := s.store.Update(ctx, existing); err != nil {
		return Result{}, fmt.Errorf("update register %d: %w", id, err)
	}

	s.logger.Info("register updated", "id", id)
	return Result{Success: true, Message: MessageSuccess}, nil
}

func (s *Service) Delete(ctx context.Context, id int64) (Result, error) {
	if err := s.store.Delete(ctx, id); err != nil {
		return Result{Message: MessageNotFound}, err
	}
	s.logger.Info("register deleted", "id", id)
	return Result{Success: true, Message: MessageSuccess}, nil
}

func (s *Service) check(in Input) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on %s", fieldName(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
}

func (in Input) normalize() Input {
	return Input{
		FullName:    strings.TrimSpace(in.FullName),
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
		Email:       strings.TrimSpace(in.Email),
	}
}

// fieldName maps a struct field to its JSON name.
func fieldName(field string) string {
	switch field {
	case "FullName":
		return "fullName"
	case "PhoneNumber":
		return "phoneNumber"
	case "Email":
		return "email"
	}
	return field
}
