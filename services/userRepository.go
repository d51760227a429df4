package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/jinzhu/gorm"

	"users-backend/constant"
	"users-backend/db"
	"users-backend/model"
)

// UserRepository runs the CRUD operations on the users table. Every call
// uses exactly one session; there are no cross-call transactions.
type UserRepository struct {
	pool *db.Pool
}

func NewUserRepository(pool *db.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts a new user and returns it with the id the database assigned.
func (r *UserRepository) Create(ctx context.Context, in model.UserInput) (model.User, error) {
	user := in.ToUser()
	err := r.pool.WithSession(ctx, func(s *db.Session) error {
		if err := s.DB().Create(&user).Error; err != nil {
			return err
		}
		if err := findByID(s, user.ID, &user); err != nil {
			return err
		}
		return s.Commit()
	})
	return user, err
}

// List returns at most limit users after skipping skip rows, in the store's
// natural order.
func (r *UserRepository) List(ctx context.Context, skip, limit int) ([]model.User, error) {
	users := []model.User{}
	err := r.pool.WithSession(ctx, func(s *db.Session) error {
		return s.DB().Offset(skip).Limit(limit).Find(&users).Error
	})
	return users, err
}

func (r *UserRepository) Get(ctx context.Context, id uint) (model.User, error) {
	var user model.User
	err := r.pool.WithSession(ctx, func(s *db.Session) error {
		return findByID(s, id, &user)
	})
	return user, err
}

// Update overwrites all four mutable fields of the user with the given id.
func (r *UserRepository) Update(ctx context.Context, id uint, in model.UserInput) (model.User, error) {
	var user model.User
	err := r.pool.WithSession(ctx, func(s *db.Session) error {
		if err := findByID(s, id, &user); err != nil {
			return err
		}
		in.Apply(&user)
		if err := s.DB().Save(&user).Error; err != nil {
			return err
		}
		if err := findByID(s, id, &user); err != nil {
			return err
		}
		return s.Commit()
	})
	return user, err
}

func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	return r.pool.WithSession(ctx, func(s *db.Session) error {
		var user model.User
		if err := findByID(s, id, &user); err != nil {
			return err
		}
		if err := s.DB().Delete(&user).Error; err != nil {
			return err
		}
		return s.Commit()
	})
}

// InsertBatch writes all users in one transaction and one commit, using
// multi-row INSERTs of at most constant.INSERT_CHUNK_SIZE rows each. Either
// every row is stored or none is.
func (r *UserRepository) InsertBatch(ctx context.Context, users []model.User) (int, error) {
	if len(users) == 0 {
		return 0, nil
	}

	var inserted int64
	err := r.pool.WithSession(ctx, func(s *db.Session) error {
		for start := 0; start < len(users); start += constant.INSERT_CHUNK_SIZE {
			end := start + constant.INSERT_CHUNK_SIZE
			if end > len(users) {
				end = len(users)
			}
			query, args := insertStatement(users[start:end])
			result := s.DB().Exec(query, args...)
			if result.Error != nil {
				return result.Error
			}
			inserted += result.RowsAffected
		}
		return s.Commit()
	})
	if err != nil {
		return 0, err
	}
	return int(inserted), nil
}

func insertStatement(users []model.User) (string, []interface{}) {
	placeholders := make([]string, 0, len(users))
	args := make([]interface{}, 0, 4*len(users))
	for _, u := range users {
		placeholders = append(placeholders, "(?, ?, ?, ?)")
		args = append(args, u.Firstname, u.Lastname, u.ZipCode, u.Country)
	}
	query := fmt.Sprintf("INSERT INTO %s (firstname, lastname, zip_code, country) VALUES %s",
		constant.USERS_TABLE, strings.Join(placeholders, ", "))
	return query, args
}
