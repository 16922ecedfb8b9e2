package catalog

import (
	"context"
	"time"
)

type Repository interface {
	List(ctx context.Context) ([]Class, error)
	ListByDay(ctx context.Context, day time.Weekday) ([]Class, error)
	Get(ctx context.Context, id int) (*Class, error)
	Create(ctx context.Context, c Class) (*Class, error)
	Update(ctx context.Context, c Class) (*Class, error)
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
}
