package identity

import (
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"studio-service/internal/apperr"
	"studio-service/internal/model"
)

// Provider manages identity accounts: creation, lookup, disabling. Account
// writes live in their own subsystem and are never part of the studio
// partition's batch writes.
type Provider struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewProvider(db *gorm.DB, log *zap.Logger) *Provider {
	return &Provider{db: db, log: log}
}

// CreateAccount creates a pre-verified identity account with the given
// initial credential. Returns already-exists when the email is taken, in
// which case nothing is mutated.
func (p *Provider) CreateAccount(email, displayName, password string) (*model.IdentityAccount, error) {
	var existing model.IdentityAccount
	err := p.db.First(&existing, "email = ?", email).Error
	if err == nil {
		return nil, apperr.AlreadyExists("an account already exists for this email")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal("failed to look up identity account", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal("failed to hash credential", err)
	}

	account := model.IdentityAccount{
		UID:           uuid.New().String(),
		Email:         email,
		DisplayName:   displayName,
		PasswordHash:  string(hash),
		EmailVerified: true,
	}

	if err := p.db.Create(&account).Error; err != nil {
		return nil, apperr.Internal("failed to create identity account", err)
	}

	p.log.Info("Identity account created",
		zap.String("uid", account.UID),
		zap.String("email", account.Email))
	return &account, nil
}

// GetByEmail returns the account for email, or not-found.
func (p *Provider) GetByEmail(email string) (*model.IdentityAccount, error) {
	var account model.IdentityAccount
	if err := p.db.First(&account, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("identity account not found")
		}
		return nil, apperr.Internal("failed to look up identity account", err)
	}
	return &account, nil
}

// Disable marks the account as unable to log in. Disabling an already
// disabled account is a no-op success.
func (p *Provider) Disable(uid string) error {
	result := p.db.Model(&model.IdentityAccount{}).Where("uid = ?", uid).Update("disabled", true)
	if result.Error != nil {
		return apperr.Internal("failed to disable identity account", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("identity account not found")
	}
	return nil
}

// EnsureSuperAdmin creates the bootstrap super-admin account if no account
// exists for the configured email. Called once at startup.
func (p *Provider) EnsureSuperAdmin(email, password string) error {
	if email == "" {
		return nil
	}

	var existing model.IdentityAccount
	err := p.db.First(&existing, "email = ?", email).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Internal("failed to look up super-admin account", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Internal("failed to hash super-admin credential", err)
	}

	account := model.IdentityAccount{
		UID:           uuid.New().String(),
		Email:         email,
		PasswordHash:  string(hash),
		EmailVerified: true,
		Role:          model.RoleSuperAdmin,
	}
	if err := p.db.Create(&account).Error; err != nil {
		return apperr.Internal("failed to create super-admin account", err)
	}

	p.log.Info("Super-admin account bootstrapped", zap.String("email", email))
	return nil
}
