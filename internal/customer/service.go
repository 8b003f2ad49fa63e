package customer

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
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

func (s *Service) List(ctx context.Context) ([]Customer, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (Customer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, c Customer) (Customer, error) {
	normalize(&c)
	if err := Validate(c); err != nil {
		return Customer{}, err
	}
	c.ID = uuid.NewString()
	return s.repo.Create(ctx, c)
}

func (s *Service) Update(ctx context.Context, id string, c Customer) (Customer, error) {
	normalize(&c)
	if err := Validate(c); err != nil {
		return Customer{}, err
	}
	c.ID = id
	return s.repo.Update(ctx, c)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func normalize(c *Customer) {
	c.FullName = strings.TrimSpace(c.FullName)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Phone = strings.TrimSpace(c.Phone)
	c.Address = strings.TrimSpace(c.Address)
	c.CompanyName = strings.TrimSpace(c.CompanyName)
	c.VatID = strings.ToUpper(strings.TrimSpace(c.VatID))
	if c.UserType == "" {
		c.UserType = TypePersona
	}
	c.UserType = UserType(strings.ToLower(string(c.UserType)))
}
