package services

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/gravadigital/fring-api/internal/domain/activity"
	"github.com/gravadigital/fring-api/internal/domain/common"
	"github.com/gravadigital/fring-api/internal/domain/profile"
	"github.com/gravadigital/fring-api/internal/logger"
	"github.com/gravadigital/fring-api/internal/storage/postgres"
)

// AdminService backs the admin surface: users, activity log and database stats
type AdminService struct {
	repos postgres.RepositoryContainer
	log   *log.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(repos postgres.RepositoryContainer) *AdminService {
	return &AdminService{
		repos: repos,
		log:   logger.Service("admin"),
	}
}

// ListUsers pages through profiles; a non-blank query filters by username or email
func (s *AdminService) ListUsers(ctx context.Context, query string, params postgres.PaginationParams) (*postgres.PaginatedResult[*profile.Profile], error) {
	if query = strings.TrimSpace(query); query != "" {
		return s.repos.Profiles().Search(ctx, query, params)
	}
	return s.repos.Profiles().List(ctx, params)
}

// DeleteUser removes a user and everything they own
func (s *AdminService) DeleteUser(ctx context.Context, adminID, userID uuid.UUID) error {
	if adminID == userID {
		return common.NewValidationError("admins cannot delete their own account")
	}
	p, err := s.repos.Profiles().GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.repos.Profiles().Delete(ctx, userID); err != nil {
		s.log.Error("Failed to delete user", "user_id", userID, "error", err)
		return err
	}

	s.log.Warn("User deleted", "user_id", userID, "username", p.Username, "admin_id", adminID)
	record(ctx, s.repos, s.log, activity.NewEntry(adminID, activity.ActionUserDeleted, "profile", userID, p.Email))
	return nil
}

// Activity pages through the activity log, newest first
func (s *AdminService) Activity(ctx context.Context, params postgres.PaginationParams) (*postgres.PaginatedResult[*activity.Entry], error) {
	return s.repos.Activity().List(ctx, params)
}

// DatabaseStats reports table sizes and pool usage
func (s *AdminService) DatabaseStats(ctx context.Context) (*postgres.DatabaseStats, error) {
	return s.repos.DatabaseStats(ctx)
}
