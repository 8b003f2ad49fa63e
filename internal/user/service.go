package user

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/milluces/milluces-backend/internal/customer"
)

type Service struct {
	repo Repository
	log  *zap.Logger
}

func NewService(repo Repository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, log: log}
}

func (s *Service) List(ctx context.Context) ([]Profile, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i] = sanitize(list[i])
	}
	return list, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Profile, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	return sanitize(p), nil
}

// Create stores a new profile. A profile without password exists but cannot sign in.
func (s *Service) Create(ctx context.Context, p Profile) (Profile, error) {
	normalize(&p)
	if err := Validate(p); err != nil {
		return Profile{}, err
	}
	if err := s.hashPassword(&p); err != nil {
		return Profile{}, err
	}
	p.ID = uuid.NewString()
	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return Profile{}, err
	}
	return sanitize(created), nil
}

// Update replaces the profile fields; the stored hash is kept unless a new password is given.
func (s *Service) Update(ctx context.Context, id string, p Profile) (Profile, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	normalize(&p)
	if err := Validate(p); err != nil {
		return Profile{}, err
	}
	p.ID = id
	p.PasswordHash = current.PasswordHash
	if err := s.hashPassword(&p); err != nil {
		return Profile{}, err
	}
	updated, err := s.repo.Update(ctx, p)
	if err != nil {
		return Profile{}, err
	}
	return sanitize(updated), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Authenticate(ctx context.Context, email, password string) (Profile, error) {
	p, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Profile{}, ErrInvalidCredentials
		}
		return Profile{}, err
	}
	if p.PasswordHash == "" {
		return Profile{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)) != nil {
		return Profile{}, ErrInvalidCredentials
	}
	return sanitize(p), nil
}

func (s *Service) hashPassword(p *Profile) error {
	if p.Password == "" {
		return nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.PasswordHash = string(hashed)
	p.Password = ""
	return nil
}

func normalize(p *Profile) {
	p.FullName = strings.TrimSpace(p.FullName)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.CompanyName = strings.TrimSpace(p.CompanyName)
	p.VatID = strings.ToUpper(strings.TrimSpace(p.VatID))
	p.Role = Role(strings.ToLower(strings.TrimSpace(string(p.Role))))
	if p.Role == "" {
		p.Role = RoleEditor
	}
	if t, ok := customer.ParseUserType(string(p.UserType)); ok {
		p.UserType = t
	}
}
