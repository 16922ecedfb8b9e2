package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"formfitness/internal/logger"
)

var ErrInvalidClass = errors.New("invalid class")

type Service interface {
	List(ctx context.Context) ([]Class, error)
	ListByDay(ctx context.Context, day time.Weekday) ([]Class, error)
	Get(ctx context.Context, id int) (*Class, error)
	Create(ctx context.Context, req ClassRequest) (*Class, error)
	Update(ctx context.Context, id int, req ClassRequest) (*Class, error)
	Delete(ctx context.Context, id int) error
	Seed(ctx context.Context) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context) ([]Class, error) {
	return s.repo.List(ctx)
}

func (s *service) ListByDay(ctx context.Context, day time.Weekday) ([]Class, error) {
	return s.repo.ListByDay(ctx, day)
}

func (s *service) Get(ctx context.Context, id int) (*Class, error) {
	return s.repo.Get(ctx, id)
}

// fromRequest validates req and builds the class it describes.
func fromRequest(req ClassRequest) (Class, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return Class{}, fmt.Errorf("%w: name is required", ErrInvalidClass)
	}

	day, ok := ParseDay(req.Day)
	if !ok || !InRotation(day) {
		return Class{}, fmt.Errorf("%w: classes run on monday, wednesday or friday", ErrInvalidClass)
	}

	start := strings.TrimSpace(req.StartTime)
	if _, err := time.Parse("15:04", start); err != nil || len(start) != 5 {
		return Class{}, fmt.Errorf("%w: start time must be HH:MM", ErrInvalidClass)
	}

	return Class{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		DayOfWeek:   day,
		StartTime:   start,
		Capacity:    req.Capacity.Value(),
		TrainerName: req.TrainerName,
	}, nil
}

func (s *service) Create(ctx context.Context, req ClassRequest) (*Class, error) {
	c, err := fromRequest(req)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, c)
}

func (s *service) Update(ctx context.Context, id int, req ClassRequest) (*Class, error) {
	c, err := fromRequest(req)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}
	c.ID = id
	return s.repo.Update(ctx, c)
}

func (s *service) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

var defaultSchedule = []Class{
	{Name: "Yoga", Description: "Gentle flow for flexibility and balance", DayOfWeek: time.Monday, StartTime: "10:00"},
	{Name: "Strength", Description: "Full-body strength training", DayOfWeek: time.Monday, StartTime: "18:00"},
	{Name: "Pilates", Description: "Core stability and posture", DayOfWeek: time.Wednesday, StartTime: "10:00"},
	{Name: "Cardio", Description: "High-energy interval cardio", DayOfWeek: time.Wednesday, StartTime: "18:00"},
	{Name: "Stretching", Description: "Mobility and recovery", DayOfWeek: time.Friday, StartTime: "10:00"},
	{Name: "Functional", Description: "Functional circuit training", DayOfWeek: time.Friday, StartTime: "18:00"},
}

// Seed fills an empty catalog with the default weekly schedule.
func (s *service) Seed(ctx context.Context) error {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	for _, c := range defaultSchedule {
		c.Capacity = DefaultCapacity
		if _, err := s.repo.Create(ctx, c); err != nil {
			return err
		}
	}

	logger.Info("Seeded default class schedule", "classes", len(defaultSchedule))
	return nil
}
