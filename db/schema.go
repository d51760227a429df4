package db

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"users-backend/model"
)

// InitSchema creates the users table and its indexes when missing. Existing
// columns are never dropped or altered.
func InitSchema(p *Pool) error {
	if err := p.orm.AutoMigrate(&model.User{}).Error; err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	log.Debug().Str("table", model.User{}.TableName()).Msg("Schema ready")
	return nil
}
