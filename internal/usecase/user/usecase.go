package user

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"user-directory-service/internal/adapter/cache"
	domain "user-directory-service/internal/domain/user"
	apperrors "user-directory-service/pkg/errors"
)

// Repository defines the interface for user data access operations.
// It abstracts the data layer, so different backing stores can be used
// interchangeably as long as the matching contracts hold.
type Repository interface {
	// Save inserts the user when its ID is zero, updates it otherwise,
	// and returns the entity with the ID populated.
	Save(ctx context.Context, u *domain.User) (*domain.User, error)
	// FindByID returns (nil, nil) when no user with the given ID exists.
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	// DeleteByID is a no-op for an unknown ID.
	DeleteByID(ctx context.Context, id int64) error
	// The fragment finders perform case-insensitive substring matching.
	FindByFirstName(ctx context.Context, fragment string) ([]domain.User, error)
	FindByLastName(ctx context.Context, fragment string) ([]domain.User, error)
	FindByName(ctx context.Context, firstName, lastName string) ([]domain.User, error)
	// FindByEmailDomain performs a case-insensitive ends-with match on email.
	FindByEmailDomain(ctx context.Context, suffix string) ([]domain.User, error)
	// SaveAll inserts all users in a single transaction; partial inserts
	// are rolled back. Result order matches input order.
	SaveAll(ctx context.Context, users []domain.User) ([]domain.User, error)
}

// Service implements the business logic for user management. Input
// validation happens at the transport boundary; the service assumes
// requests it receives are well formed.
type Service struct {
	repo  Repository      // Repository for data access
	cache cache.UserCache // Cache for single-user lookups, may be nil
	log   *zap.Logger     // Logger for structured logging
}

// New creates a new Service with the provided repository, cache, and logger.
// If cache is nil, caching is disabled.
func New(r Repository, c cache.UserCache, log *zap.Logger) *Service {
	return &Service{repo: r, cache: c, log: log}
}

// CreateUser persists a new user and returns the stored record.
func (s *Service) CreateUser(ctx context.Context, in CreateUserRequest) (*UserResponse, error) {
	s.log.Info("creating user", zap.String("email", in.Email))

	saved, err := s.repo.Save(ctx, toEntity(&in))
	if err != nil {
		s.log.Error("failed to create user", zap.String("email", in.Email), zap.Error(err))
		return nil, err
	}
	return toResponse(saved), nil
}

// UpdateUser replaces all mutable fields of an existing user. It returns
// a NotFoundError when no user with the given ID exists.
func (s *Service) UpdateUser(ctx context.Context, id int64, in CreateUserRequest) (*UserResponse, error) {
	s.log.Info("updating user", zap.Int64("id", id), zap.String("email", in.Email))

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.log.Error("failed to load user for update", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	if existing == nil {
		s.log.Warn("user not found for update", zap.Int64("id", id))
		return nil, apperrors.NewNotFoundError("user", fmt.Sprintf("User not found with id: %d", id))
	}

	// Full replace of every mutable field, not a partial patch.
	existing.FirstName = in.FirstName
	existing.LastName = in.LastName
	existing.Email = in.Email
	existing.Address = in.Address

	saved, err := s.repo.Save(ctx, existing)
	if err != nil {
		s.log.Error("failed to update user", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, id); err != nil {
			s.log.Warn("failed to invalidate cache after update", zap.Int64("id", id), zap.Error(err))
		}
	}

	return toResponse(saved), nil
}

// DeleteUser deletes a user by ID. Deleting an unknown ID is a success;
// the operation is idempotent.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	s.log.Info("deleting user", zap.Int64("id", id))

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		s.log.Error("failed to delete user", zap.Int64("id", id), zap.Error(err))
		return err
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, id); err != nil {
			s.log.Warn("failed to invalidate cache after delete", zap.Int64("id", id), zap.Error(err))
		}
	}

	return nil
}

// GetUser retrieves a user by ID, returning (nil, nil) when absent.
// It uses a cache-aside pattern: check cache first, then the store.
func (s *Service) GetUser(ctx context.Context, id int64) (*UserResponse, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err != nil {
			s.log.Warn("cache get error, falling back to store", zap.Int64("id", id), zap.Error(err))
		} else if cached != nil {
			s.log.Debug("user retrieved from cache", zap.Int64("id", id))
			return toResponse(cached), nil
		}
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.log.Error("failed to get user", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	if u == nil {
		return nil, nil
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, u); err != nil {
			s.log.Warn("failed to cache user", zap.Int64("id", id), zap.Error(err))
		}
	}

	return toResponse(u), nil
}

// SearchUsers finds users by name fragments. With both fragments present
// the predicates are combined; with one present the other is dropped;
// with neither it lists every user.
func (s *Service) SearchUsers(ctx context.Context, firstName, lastName string) ([]UserResponse, error) {
	s.log.Info("searching users", zap.String("first_name", firstName), zap.String("last_name", lastName))

	var (
		users []domain.User
		err   error
	)
	switch {
	case firstName != "" && lastName != "":
		users, err = s.repo.FindByName(ctx, firstName, lastName)
	case firstName != "":
		users, err = s.repo.FindByFirstName(ctx, firstName)
	case lastName != "":
		users, err = s.repo.FindByLastName(ctx, lastName)
	default:
		users, err = s.repo.FindAll(ctx)
	}
	if err != nil {
		s.log.Error("failed to search users", zap.Error(err))
		return nil, err
	}

	return toResponses(users), nil
}

// GetUsersByEmailDomain returns all users whose email ends with the given
// suffix. The caller supplies the literal suffix including any leading "@".
func (s *Service) GetUsersByEmailDomain(ctx context.Context, domainSuffix string) ([]UserResponse, error) {
	s.log.Info("looking up users by email domain", zap.String("domain", domainSuffix))

	users, err := s.repo.FindByEmailDomain(ctx, domainSuffix)
	if err != nil {
		s.log.Error("failed to look up users by email domain", zap.String("domain", domainSuffix), zap.Error(err))
		return nil, err
	}

	return toResponses(users), nil
}

// ImportUsers persists a batch of users as one atomic bulk insert and
// returns the stored records in input order.
func (s *Service) ImportUsers(ctx context.Context, in []CreateUserRequest) ([]UserResponse, error) {
	s.log.Info("importing users", zap.Int("count", len(in)))

	entities := make([]domain.User, len(in))
	for i := range in {
		entities[i] = *toEntity(&in[i])
	}

	saved, err := s.repo.SaveAll(ctx, entities)
	if err != nil {
		s.log.Error("failed to import users", zap.Int("count", len(in)), zap.Error(err))
		return nil, err
	}

	return toResponses(saved), nil
}
