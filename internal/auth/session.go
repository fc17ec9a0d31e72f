package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrSessionNotFound = errors.New("auth: session not found")

// Session keeps the identity provider tokens server side; the browser only
// holds the signed session id.
type Session struct {
	ID           string    `gorm:"primaryKey;type:char(36)"`
	Subject      string    `gorm:"type:varchar(191);not null;index:ix_sessions_subject"`
	Email        string    `gorm:"type:varchar(191)"`
	Name         string    `gorm:"type:varchar(191)"`
	AccessToken  string    `gorm:"type:text;not null"`
	RefreshToken string    `gorm:"type:text"`
	IDToken      string    `gorm:"type:text"`
	TokenExpiry  time.Time `gorm:"not null"`
	ExpiresAt    time.Time `gorm:"not null;index:ix_sessions_expires_at"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
	LastSeenAt   time.Time `gorm:"not null"`
}

func (Session) TableName() string { return "web_sessions" }

type SessionStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSessionStore(db *gorm.DB) *SessionStore {
	return &SessionStore{db: db, now: time.Now}
}

// Migrate creates or updates the sessions table.
func (s *SessionStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&Session{})
}

func (s *SessionStore) Create(ctx context.Context, sess *Session) error {
	now := s.now()
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	sess.CreatedAt = now
	sess.UpdatedAt = now
	sess.LastSeenAt = now
	return s.db.WithContext(ctx).Create(sess).Error
}

// Get returns an unexpired session.
func (s *SessionStore) Get(ctx context.Context, id string) (*Session, error) {
	var sess Session
	err := s.db.WithContext(ctx).
		Where("id = ? AND expires_at > ?", id, s.now()).
		First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *SessionStore) Save(ctx context.Context, sess *Session) error {
	sess.UpdatedAt = s.now()
	return s.db.WithContext(ctx).Save(sess).Error
}

// Touch records activity without rewriting tokens.
func (s *SessionStore) Touch(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Model(&Session{}).
		Where("id = ?", id).
		Update("last_seen_at", s.now()).Error
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&Session{}, "id = ?", id).Error
}

// DeleteExpired purges expired sessions and reports how many were removed.
func (s *SessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at <= ?", s.now()).Delete(&Session{})
	return res.RowsAffected, res.Error
}
