package services

import (
	"context"

	"github.com/brianvoe/gofakeit/v6"

	"users-backend/model"
)

// Seeder fills the users table with plausible fake people.
type Seeder struct {
	repo *UserRepository
	seed int64
}

// NewSeeder returns a seeder. A zero seed picks a random one on every run.
func NewSeeder(repo *UserRepository, seed int64) *Seeder {
	return &Seeder{repo: repo, seed: seed}
}

// Generate builds count users in memory without touching the database.
func (s *Seeder) Generate(count int) []model.User {
	faker := gofakeit.New(s.seed)
	users := make([]model.User, 0, count)
	for i := 0; i < count; i++ {
		users = append(users, model.User{
			Firstname: faker.FirstName(),
			Lastname:  faker.LastName(),
			ZipCode:   faker.Zip(),
			Country:   faker.Country(),
		})
	}
	return users
}

// Seed generates count users and stores them in a single batch.
func (s *Seeder) Seed(ctx context.Context, count int) (int, error) {
	return s.repo.InsertBatch(ctx, s.Generate(count))
}
