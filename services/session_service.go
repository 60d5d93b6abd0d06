package services

import (
	"context"
	"fmt"

	"github.com/bankportal/portal-backend/database"
	"github.com/bankportal/portal-backend/shared"
	"github.com/sirupsen/logrus"
)

// State store keys for the session flags.
const (
	authenticatedKey = "isAuthenticated"
	userRoleKey      = "userRole"
)

// Portal roles.
const (
	RoleClient   = "client"
	RoleEmployee = "employee"
)

// SessionState is the explicit session object handed to the surfaces that
// need it. The zero value is a logged-out client.
type SessionState struct {
	IsAuthenticated bool   `json:"isAuthenticated"`
	Role            string `json:"userRole"`
}

// SessionService holds the demo authentication and role-switching state.
// Persistence is an explicit load-on-read/save-on-change pair against the
// state store; nothing mutates session flags as a side effect.
//
// This is a demo credential check, not authentication.
type SessionService struct {
	store        *database.StateStore
	demoEmail    string
	demoPassword string
}

// NewSessionService creates a session service with the configured demo
// credentials.
func NewSessionService(store *database.StateStore, demoEmail, demoPassword string) *SessionService {
	return &SessionService{
		store:        store,
		demoEmail:    demoEmail,
		demoPassword: demoPassword,
	}
}

// Login validates the demo credentials. On success the authenticated flag
// is persisted; on failure nothing changes and false is returned.
func (s *SessionService) Login(ctx context.Context, email, password string) (bool, error) {
	if email != s.demoEmail || password != s.demoPassword {
		logrus.WithFields(logrus.Fields{
			"service_name": "SessionService",
			"email":        email,
		}).Warn("Rejected login attempt")
		return false, nil
	}

	if err := s.store.Set(ctx, authenticatedKey, "true"); err != nil {
		return false, shared.WrapError(err, shared.ErrorCategoryStorage, "STATE_WRITE", "SessionService", "login", true)
	}

	logrus.WithField("service_name", "SessionService").Info("Demo login accepted")
	return true, nil
}

// Logout clears the authenticated flag and resets the role to client.
func (s *SessionService) Logout(ctx context.Context) error {
	if err := s.store.Delete(ctx, authenticatedKey); err != nil {
		return shared.WrapError(err, shared.ErrorCategoryStorage, "STATE_WRITE", "SessionService", "logout", true)
	}
	if err := s.store.Delete(ctx, userRoleKey); err != nil {
		return shared.WrapError(err, shared.ErrorCategoryStorage, "STATE_WRITE", "SessionService", "logout", true)
	}

	logrus.WithField("service_name", "SessionService").Info("Session cleared")
	return nil
}

// SwitchRole persists the active role. Only client and employee exist.
func (s *SessionService) SwitchRole(ctx context.Context, role string) error {
	if role != RoleClient && role != RoleEmployee {
		return shared.ValidationError(
			fmt.Sprintf("invalid role: %s", role),
			"SessionService", "switch_role",
		)
	}

	if err := s.store.Set(ctx, userRoleKey, role); err != nil {
		return shared.WrapError(err, shared.ErrorCategoryStorage, "STATE_WRITE", "SessionService", "switch_role", true)
	}

	logrus.WithFields(logrus.Fields{
		"service_name": "SessionService",
		"role":         role,
	}).Info("Active role switched")
	return nil
}

// Current loads the session state from the store. Absent keys mean a
// logged-out client.
func (s *SessionService) Current(ctx context.Context) (SessionState, error) {
	state := SessionState{Role: RoleClient}

	authValue, exists, err := s.store.Get(ctx, authenticatedKey)
	if err != nil {
		return state, shared.WrapError(err, shared.ErrorCategoryStorage, "STATE_READ", "SessionService", "current", true)
	}
	state.IsAuthenticated = exists && authValue == "true"

	roleValue, exists, err := s.store.Get(ctx, userRoleKey)
	if err != nil {
		return state, shared.WrapError(err, shared.ErrorCategoryStorage, "STATE_READ", "SessionService", "current", true)
	}
	if exists && (roleValue == RoleClient || roleValue == RoleEmployee) {
		state.Role = roleValue
	}

	return state, nil
}
