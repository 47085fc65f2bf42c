package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-directory-service/internal/domain/user"
)

// UserRepoPG implements the usecase Repository interface using GORM.
type UserRepoPG struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// NewUserRepoPG creates a new instance of UserRepoPG.
func NewUserRepoPG(db *gorm.DB, log *zap.Logger) *UserRepoPG {
	return &UserRepoPG{db: db, log: log}
}

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	FirstName string `gorm:"column:first_name;not null"`
	LastName  string `gorm:"column:last_name;not null"`
	Email     string `gorm:"not null;unique"`
	Address   string
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

func toSchema(u *user.User) UserSchema {
	return UserSchema{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Address:   u.Address,
	}
}

func toDomain(m *UserSchema) *user.User {
	return &user.User{
		ID:        m.ID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Email:     m.Email,
		Address:   m.Address,
	}
}

func toDomainSlice(models []UserSchema) []user.User {
	users := make([]user.User, len(models))
	for i := range models {
		users[i] = *toDomain(&models[i])
	}
	return users
}

// escapeLike makes a fragment safe for literal substring matching inside
// a LIKE pattern by escaping the pattern metacharacters.
func escapeLike(fragment string) string {
	fragment = strings.ReplaceAll(fragment, `\`, `\\`)
	fragment = strings.ReplaceAll(fragment, "%", `\%`)
	fragment = strings.ReplaceAll(fragment, "_", `\_`)
	return fragment
}

// Save inserts the user when its ID is zero and updates it otherwise.
// The returned entity carries the store-assigned ID.
func (r *UserRepoPG) Save(ctx context.Context, u *user.User) (*user.User, error) {
	if u == nil {
		return nil, errors.New("user cannot be nil")
	}

	model := toSchema(u)
	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		r.log.Error("failed to save user in db", zap.Error(err), zap.String("email", u.Email))
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	r.log.Info("user saved in db", zap.Int64("id", model.ID))
	return toDomain(&model), nil
}

// FindByID retrieves a user by its unique ID, returning (nil, nil) when
// no such user exists.
func (r *UserRepoPG) FindByID(ctx context.Context, id int64) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found", zap.Int64("id", id))
			return nil, nil
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toDomain(&model), nil
}

// FindAll retrieves every user in store default order.
func (r *UserRepoPG) FindAll(ctx context.Context) ([]user.User, error) {
	var models []UserSchema
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		r.log.Error("failed to list users from db", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return toDomainSlice(models), nil
}

// DeleteByID removes a user by ID. Deleting an unknown ID is a no-op.
func (r *UserRepoPG) DeleteByID(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&UserSchema{}, id).Error; err != nil {
		r.log.Error("failed to delete user in db", zap.Error(err), zap.Int64("id", id))
		return fmt.Errorf("failed to delete user: %w", err)
	}

	r.log.Info("user deleted in db", zap.Int64("id", id))
	return nil
}

// FindByFirstName finds users whose first name contains the fragment,
// case-insensitively.
func (r *UserRepoPG) FindByFirstName(ctx context.Context, fragment string) ([]user.User, error) {
	var models []UserSchema
	err := r.db.WithContext(ctx).
		Where(`LOWER(first_name) LIKE LOWER(?) ESCAPE '\'`, "%"+escapeLike(fragment)+"%").
		Find(&models).Error
	if err != nil {
		r.log.Error("failed to search users by first name", zap.Error(err), zap.String("fragment", fragment))
		return nil, fmt.Errorf("failed to search users by first name: %w", err)
	}

	return toDomainSlice(models), nil
}

// FindByLastName finds users whose last name contains the fragment,
// case-insensitively.
func (r *UserRepoPG) FindByLastName(ctx context.Context, fragment string) ([]user.User, error) {
	var models []UserSchema
	err := r.db.WithContext(ctx).
		Where(`LOWER(last_name) LIKE LOWER(?) ESCAPE '\'`, "%"+escapeLike(fragment)+"%").
		Find(&models).Error
	if err != nil {
		r.log.Error("failed to search users by last name", zap.Error(err), zap.String("fragment", fragment))
		return nil, fmt.Errorf("failed to search users by last name: %w", err)
	}

	return toDomainSlice(models), nil
}

// FindByName finds users matching both name fragments at once.
func (r *UserRepoPG) FindByName(ctx context.Context, firstName, lastName string) ([]user.User, error) {
	var models []UserSchema
	err := r.db.WithContext(ctx).
		Where(`LOWER(first_name) LIKE LOWER(?) ESCAPE '\' AND LOWER(last_name) LIKE LOWER(?) ESCAPE '\'`,
			"%"+escapeLike(firstName)+"%", "%"+escapeLike(lastName)+"%").
		Find(&models).Error
	if err != nil {
		r.log.Error("failed to search users by name", zap.Error(err),
			zap.String("first_name", firstName), zap.String("last_name", lastName))
		return nil, fmt.Errorf("failed to search users by name: %w", err)
	}

	return toDomainSlice(models), nil
}

// FindByEmailDomain finds users whose email ends with the given suffix,
// case-insensitively. The suffix goes into the pattern verbatim; callers
// are expected to pass a literal domain such as "@example.com".
func (r *UserRepoPG) FindByEmailDomain(ctx context.Context, suffix string) ([]user.User, error) {
	var models []UserSchema
	err := r.db.WithContext(ctx).
		Where(`LOWER(email) LIKE LOWER(?)`, "%"+suffix).
		Find(&models).Error
	if err != nil {
		r.log.Error("failed to search users by email domain", zap.Error(err), zap.String("suffix", suffix))
		return nil, fmt.Errorf("failed to search users by email domain: %w", err)
	}

	return toDomainSlice(models), nil
}

// SaveAll inserts the given users inside a single transaction so that a
// failure partway through leaves no rows inserted. Result order matches
// input order, with IDs assigned per element.
func (r *UserRepoPG) SaveAll(ctx context.Context, users []user.User) ([]user.User, error) {
	if len(users) == 0 {
		return []user.User{}, nil
	}

	models := make([]UserSchema, len(users))
	for i := range users {
		models[i] = toSchema(&users[i])
		models[i].ID = 0
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&models).Error
	})
	if err != nil {
		r.log.Error("failed to bulk save users", zap.Error(err), zap.Int("count", len(users)))
		return nil, fmt.Errorf("failed to bulk save users: %w", err)
	}

	r.log.Info("users bulk saved in db", zap.Int("count", len(models)))
	return toDomainSlice(models), nil
}
