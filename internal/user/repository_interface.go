package user

import "context"

type Repository interface {
	Create(ctx context.Context, u User) (*User, error)
	FindByLogin(ctx context.Context, login string) (*User, error)
	FindByID(ctx context.Context, id int) (*User, error)
	LoginExists(ctx context.Context, login string) (bool, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, u User) (*User, error)
	Delete(ctx context.Context, id int) error
}
