package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/PalikaProfile/Profile-Backend/internal/db"
	"github.com/PalikaProfile/Profile-Backend/internal/utils"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrUsernameTaken = errors.New("username already taken")
)

// SessionInfo is the database-backed session and role lookup used by the
// session and admin middleware.
type SessionInfo struct {
	DB *gorm.DB
}

func NewSessionInfo(d *gorm.DB) SessionInfo {
	return SessionInfo{DB: d}
}

func (si SessionInfo) FindSessionByID(id string) (utils.SessionData, error) {
	var session Session
	if err := si.DB.First(&session, "session_id = ?", id).Error; err != nil {
		return utils.SessionData{}, err
	}
	return utils.SessionData{
		UserID:    session.UserID,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func (si SessionInfo) FindUserRole(userID string) (string, error) {
	var user User
	if err := si.DB.Select("role").First(&user, "user_id = ?", userID).Error; err != nil {
		return "", err
	}
	return user.Role, nil
}

func (si SessionInfo) UserByUsername(ctx context.Context, username string) (*User, error) {
	return si.user(ctx, "username = ?", username)
}

func (si SessionInfo) UserByID(ctx context.Context, id string) (*User, error) {
	return si.user(ctx, "user_id = ?", id)
}

func (si SessionInfo) user(ctx context.Context, where string, arg any) (*User, error) {
	var user User
	err := si.DB.WithContext(ctx).First(&user, where, arg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &user, nil
}

// StartSession replaces any existing session of the user.
func (si SessionInfo) StartSession(ctx context.Context, userID, sessionID string, expires time.Time) error {
	s := Session{SessionID: sessionID, UserID: userID, ExpiresAt: expires}
	err := si.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"session_id", "expires_at"}),
	}).Create(&s).Error
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	return nil
}

func (si SessionInfo) EndSession(ctx context.Context, sessionID string) error {
	res := si.DB.WithContext(ctx).Delete(&Session{}, "session_id = ?", sessionID)
	if res.Error != nil {
		return fmt.Errorf("end session: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (si SessionInfo) SetPassword(ctx context.Context, userID, hashed string) error {
	err := si.DB.WithContext(ctx).Model(&User{}).Where("user_id = ?", userID).
		Update("hashed_password", hashed).Error
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// CreateUser hashes password and stores a new account with the given role.
func CreateUser(ctx context.Context, d *gorm.DB, username, password, role string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(password) < MinPasswordLength {
		return nil, fmt.Errorf("username is required and password must be at least %d characters", MinPasswordLength)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &User{
		UserID:         uuid.NewString(),
		Username:       username,
		HashedPassword: string(hashed),
		Role:           role,
	}
	if err := d.WithContext(ctx).Create(user).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}
