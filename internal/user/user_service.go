package user

import (
	"context"
	"encoding/json"
	"time"

	usererrors "go-tutorhub/internal/user/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	ProfileKeyPrefix = "users:profile:"
	profileTTL       = 1 * time.Hour
)

func GetProfileKey(id string) string {
	return ProfileKeyPrefix + id
}

// Directory resolves user ids into display data for history and exports.
//
//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Directory interface {
	GetByID(ctx context.Context, id string) (UserResponse, error)
	// ResolveMany returns the users it could find, keyed by id. Unknown ids
	// are omitted rather than failing the lookup.
	ResolveMany(ctx context.Context, ids []string) (map[string]UserResponse, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Directory {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) GetByID(ctx context.Context, id string) (UserResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}

	cacheKey := GetProfileKey(id)
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp UserResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		u, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		resp := mapToResponse(*u)

		if s.rdb != nil {
			if data, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, cacheKey, data, profileTTL).Err(); err != nil {
					s.logger.Warn("cache user profile failed", zap.String("user_id", id), zap.Error(err))
				}
			}
		}
		return resp, nil
	})
	if err != nil {
		return UserResponse{}, err
	}

	return v.(UserResponse), nil
}

func (s *service) ResolveMany(ctx context.Context, ids []string) (map[string]UserResponse, error) {
	out := make(map[string]UserResponse, len(ids))
	missing := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))

	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, err := uuid.Parse(id); err != nil {
			continue
		}

		if s.rdb != nil {
			if cached, err := s.rdb.Get(ctx, GetProfileKey(id)).Result(); err == nil {
				var resp UserResponse
				if json.Unmarshal([]byte(cached), &resp) == nil {
					out[id] = resp
					continue
				}
			}
		}
		missing = append(missing, id)
	}

	if len(missing) == 0 {
		return out, nil
	}

	users, err := s.repo.FindByIDs(ctx, missing)
	if err != nil {
		s.logger.Error("resolve users failed", zap.Int("count", len(missing)), zap.Error(err))
		return nil, err
	}

	for _, u := range users {
		resp := mapToResponse(u)
		out[resp.ID] = resp
		if s.rdb != nil {
			if data, err := json.Marshal(resp); err == nil {
				_ = s.rdb.Set(ctx, GetProfileKey(resp.ID), data, profileTTL).Err()
			}
		}
	}

	return out, nil
}

func mapToResponse(u User) UserResponse {
	return UserResponse{
		ID:       u.ID.String(),
		Name:     u.DisplayName(),
		Email:    u.Email,
		IsActive: u.IsActive,
	}
}
