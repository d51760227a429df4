package db

import (
	"context"
	"errors"

	"github.com/jinzhu/gorm"
	"github.com/rs/zerolog/log"
)

// Session is one borrowed connection and its transaction. The scope never
// commits for the caller: operations that write call Commit themselves.
type Session struct {
	tx       *gorm.DB
	finished bool
}

// DB returns the transaction-bound gorm handle.
func (s *Session) DB() *gorm.DB { return s.tx }

// Commit commits the transaction. The session is finished either way.
func (s *Session) Commit() error {
	s.finished = true
	return s.tx.Commit().Error
}

func (s *Session) rollback() {
	if s.finished {
		return
	}
	s.finished = true
	if err := s.tx.Rollback().Error; err != nil {
		log.Debug().Err(err).Msg("Session rollback")
	}
}

// WithSession runs fn inside one session. The session is released on every
// path: a commit made by fn, a rollback after an error, or a rollback while a
// panic unwinds. Errors other than ErrNotFound come back as *DataAccessError.
func (p *Pool) WithSession(ctx context.Context, fn func(*Session) error) (err error) {
	tx := p.orm.BeginTx(ctx, nil)
	if tx.Error != nil {
		log.Error().Err(tx.Error).Msg("Database error during request")
		return &DataAccessError{Err: tx.Error}
	}

	s := &Session{tx: tx}
	defer func() {
		if r := recover(); r != nil {
			s.rollback()
			panic(r)
		}
		s.rollback()
		if err == nil || errors.Is(err, ErrNotFound) || IsDataAccess(err) {
			return
		}
		log.Error().Err(err).Msg("Database error during request")
		err = &DataAccessError{Err: err}
	}()

	return fn(s)
}
