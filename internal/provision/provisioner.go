package provision

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"studio-service/internal/apperr"
	"studio-service/internal/claims"
	"studio-service/internal/identity"
	"studio-service/internal/model"
	"studio-service/internal/seed"
	"studio-service/pkg/jwtutil"
	"studio-service/prometheus"
)

// defaultSettings is the settings document a fresh studio starts with.
const defaultSettings = `{"timezone":"UTC","currency":"USD"}`

// CreateStudioInput carries the three required provisioning fields.
type CreateStudioInput struct {
	StudioName string `json:"studio_name"`
	AdminName  string `json:"admin_name"`
	AdminEmail string `json:"admin_email"`
}

// CreateStudioResult is returned exactly once; the initial credential is
// never stored in clear form, so losing it requires an out-of-band reset.
type CreateStudioResult struct {
	StudioID          string `json:"studio_id"`
	InitialCredential string `json:"initial_credential"`
}

// Provisioner orchestrates identity creation, claim binding and seeding to
// bring a new studio into existence.
type Provisioner struct {
	identity *identity.Provider
	claims   *claims.Manager
	seeder   *seed.Seeder
	log      *zap.Logger
}

func NewProvisioner(idp *identity.Provider, cm *claims.Manager, seeder *seed.Seeder, log *zap.Logger) *Provisioner {
	return &Provisioner{identity: idp, claims: cm, seeder: seeder, log: log}
}

// CreateStudio provisions a new studio with a bound administrator identity
// and seed data. Authorization and validation fail closed before any write.
// Identity creation and the seeded batch write live in different
// subsystems and are not covered by one transaction: a failure between
// them leaves an orphaned identity account, surfaced as a distinguishable
// internal error for the reconciliation sweep to pick up.
func (p *Provisioner) CreateStudio(input CreateStudioInput, caller *jwtutil.Claims) (*CreateStudioResult, error) {
	prometheus.ProvisionCounter.Inc()

	if err := claims.Authorize(caller, model.RoleSuperAdmin); err != nil {
		return nil, err
	}
	if input.StudioName == "" || input.AdminName == "" || input.AdminEmail == "" {
		return nil, apperr.InvalidArgument("studio_name, admin_name and admin_email are required")
	}

	credential, err := generateCredential()
	if err != nil {
		return nil, apperr.Internal("failed to generate initial credential", err)
	}

	account, err := p.identity.CreateAccount(input.AdminEmail, input.AdminName, credential)
	if err != nil {
		return nil, err
	}

	studioID := uuid.New().String()

	if err := p.claims.Bind(account.UID, studioID, model.RoleAdmin); err != nil {
		p.log.Error("Claim binding failed after identity creation, identity account is orphaned",
			zap.String("uid", account.UID),
			zap.String("email", account.Email),
			zap.Error(err))
		return nil, apperr.Internal("studio provisioning failed after identity creation", err)
	}

	studio := model.Studio{
		ID:         studioID,
		Name:       input.StudioName,
		AdminEmail: input.AdminEmail,
		Settings:   defaultSettings,
		IsArchived: false,
		CreatedAt:  time.Now(),
	}
	if err := p.seeder.Seed(&studio); err != nil {
		p.log.Error("Seeding failed after identity creation, identity account is orphaned",
			zap.String("uid", account.UID),
			zap.String("email", account.Email),
			zap.String("studio_id", studioID),
			zap.Error(err))
		return nil, apperr.Internal("studio provisioning failed after identity creation", err)
	}

	prometheus.ActiveStudiosGauge.Inc()
	p.log.Info("Studio provisioned",
		zap.String("studio_id", studioID),
		zap.String("name", studio.Name),
		zap.String("admin_email", studio.AdminEmail))

	return &CreateStudioResult{
		StudioID:          studioID,
		InitialCredential: credential,
	}, nil
}

// generateCredential returns a random 22-character credential carrying 128
// bits of entropy.
func generateCredential() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
