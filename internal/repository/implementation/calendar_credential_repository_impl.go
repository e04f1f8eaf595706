package implementation

import (
	"context"
	"errors"

	"github.com/cridiv/Aedar/internal/mapper"
	"github.com/cridiv/Aedar/internal/model"
	"github.com/cridiv/Aedar/pkg/calendar"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type calendarCredentialRepository struct {
	db *gorm.DB
}

// NewCalendarCredentialRepository creates a postgres-backed credential store
func NewCalendarCredentialRepository(db *gorm.DB) calendar.CredentialStore {
	return &calendarCredentialRepository{db: db}
}

func (r *calendarCredentialRepository) Get(ctx context.Context, userID string) (*calendar.Credential, error) {
	var m model.CalendarCredential
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, calendar.ErrCredentialNotFound
		}
		return nil, err
	}
	return mapper.CredentialFromModel(&m), nil
}

func (r *calendarCredentialRepository) Set(ctx context.Context, userID string, cred calendar.Credential) error {
	m := mapper.CredentialToModel(userID, cred)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"access_token", "refresh_token", "expiry", "updated_at"}),
	}).Create(m).Error
}

func (r *calendarCredentialRepository) Delete(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.CalendarCredential{}).Error
}
