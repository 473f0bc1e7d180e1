package claims

import (
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"studio-service/internal/apperr"
	"studio-service/internal/model"
	"studio-service/pkg/jwtutil"
)

// Authorize is the single authorization gate. Every privileged operation
// calls it before touching any state; it fails closed on missing claims.
func Authorize(caller *jwtutil.Claims, requiredRole string) error {
	if caller == nil || caller.Role != requiredRole {
		return apperr.PermissionDenied("caller does not have the " + requiredRole + " role")
	}
	return nil
}

// Manager binds identity accounts to exactly one studio and one role.
type Manager struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewManager(db *gorm.DB, log *zap.Logger) *Manager {
	return &Manager{db: db, log: log}
}

// Bind attaches (studioID, role) claims to the account identified by uid.
// Reapplying identical values is a no-op; claims already bound to a
// different studio are never reassigned. A change only becomes visible to
// the account on its next token refresh, not for requests already in
// flight under an old token.
func (m *Manager) Bind(uid, studioID, role string) error {
	var account model.IdentityAccount
	if err := m.db.First(&account, "uid = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("identity account not found")
		}
		return apperr.Internal("failed to load identity account", err)
	}

	if account.StudioID != nil {
		if *account.StudioID == studioID && account.Role == role {
			return nil
		}
		return apperr.AlreadyExists("identity account is already bound to another studio")
	}

	updates := map[string]interface{}{"studio_id": studioID, "role": role}
	if err := m.db.Model(&account).Updates(updates).Error; err != nil {
		return apperr.Internal("failed to bind claims", err)
	}

	m.log.Info("Claims bound to identity account",
		zap.String("uid", uid),
		zap.String("studio_id", studioID),
		zap.String("role", role))
	return nil
}
