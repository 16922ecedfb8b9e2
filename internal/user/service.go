package user

import (
	"context"
	"errors"
	"strings"

	"formfitness/internal/auth"
	"formfitness/internal/logger"
)

var (
	ErrLoginExists        = errors.New("a user with this login already exists")
	ErrInvalidCredentials = errors.New("invalid login or password")
	ErrEmptyField         = errors.New("login, password and name must not be empty")
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Authenticate(ctx context.Context, req LoginRequest) (*User, error)
	GetByID(ctx context.Context, userID int) (*User, error)
	List(ctx context.Context) ([]User, error)
	ListByRole(ctx context.Context, role Role) ([]User, error)
	Update(ctx context.Context, userID int, req UpdateRequest) (*User, error)
	Delete(ctx context.Context, userID int) error
	SeedDemoUsers(ctx context.Context) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	req.Login = strings.TrimSpace(req.Login)
	req.Name = strings.TrimSpace(req.Name)
	if req.Login == "" || req.Password == "" || req.Name == "" {
		return nil, ErrEmptyField
	}

	exists, err := s.repo.LoginExists(ctx, req.Login)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrLoginExists
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.Create(ctx, User{
		Login:        req.Login,
		PasswordHash: passwordHash,
		Name:         req.Name,
		Role:         RoleMember,
		Phone:        req.Phone,
		Email:        req.Email,
	})
	if err != nil {
		if errors.Is(err, ErrLoginTaken) {
			return nil, ErrLoginExists
		}
		return nil, err
	}

	return u, nil
}

func (s *service) Authenticate(ctx context.Context, req LoginRequest) (*User, error) {
	u, err := s.repo.FindByLogin(ctx, strings.TrimSpace(req.Login))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

func (s *service) GetByID(ctx context.Context, userID int) (*User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *service) ListByRole(ctx context.Context, role Role) ([]User, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]User, 0, len(all))
	for _, u := range all {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, userID int, req UpdateRequest) (*User, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrEmptyField
		}
		u.Name = name
	}
	if req.Phone != nil {
		u.Phone = req.Phone
	}
	if req.Email != nil {
		u.Email = req.Email
	}

	return s.repo.Update(ctx, *u)
}

func (s *service) Delete(ctx context.Context, userID int) error {
	return s.repo.Delete(ctx, userID)
}

type demoUser struct {
	login, password, name string
	role                  Role
}

var demoUsers = []demoUser{
	{"user", "user123", "Client", RoleMember},
	{"staff", "staff123", "Staff", RoleStaff},
	{"admin", "admin123", "Administrator", RoleAdmin},
}

// SeedDemoUsers creates the demo accounts that do not exist yet.
func (s *service) SeedDemoUsers(ctx context.Context) error {
	for _, d := range demoUsers {
		exists, err := s.repo.LoginExists(ctx, d.login)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		hash, err := auth.HashPassword(d.password)
		if err != nil {
			return err
		}
		if _, err := s.repo.Create(ctx, User{Login: d.login, PasswordHash: hash, Name: d.name, Role: d.role}); err != nil {
			return err
		}
		logger.Info("Seeded demo user", "login", d.login, "role", d.role)
	}
	return nil
}
