package lifecycle

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"studio-service/internal/apperr"
	"studio-service/internal/claims"
	"studio-service/internal/identity"
	"studio-service/internal/model"
	"studio-service/internal/purge"
	"studio-service/pkg/jwtutil"
	"studio-service/prometheus"
)

// Controller orchestrates archive, restore and permanent deletion of a
// studio partition.
type Controller struct {
	db       *gorm.DB
	identity *identity.Provider
	engine   *purge.Engine
	log      *zap.Logger
}

func NewController(db *gorm.DB, idp *identity.Provider, engine *purge.Engine, log *zap.Logger) *Controller {
	return &Controller{db: db, identity: idp, engine: engine, log: log}
}

func (c *Controller) loadStudio(id string) (*model.Studio, error) {
	var studio model.Studio
	if err := c.db.First(&studio, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("studio not found")
		}
		return nil, apperr.Internal("failed to load studio", err)
	}
	return &studio, nil
}

// SetArchived flips the archived flag on the studio root row. Setting the
// flag to its current value is a no-op success.
func (c *Controller) SetArchived(id string, archived bool, caller *jwtutil.Claims) error {
	if archived {
		prometheus.RecordLifecycleOperation("archive")
	} else {
		prometheus.RecordLifecycleOperation("unarchive")
	}

	if err := claims.Authorize(caller, model.RoleSuperAdmin); err != nil {
		return err
	}

	studio, err := c.loadStudio(id)
	if err != nil {
		return err
	}
	if studio.IsArchived == archived {
		return nil
	}

	defer prometheus.TrackDBOperation("archive")(time.Now())
	if err := c.db.Model(studio).Update("is_archived", archived).Error; err != nil {
		return apperr.Internal("failed to update archived flag", err)
	}

	if archived {
		prometheus.ActiveStudiosGauge.Dec()
	} else {
		prometheus.ActiveStudiosGauge.Inc()
	}
	c.log.Info("Studio archived flag updated",
		zap.String("studio_id", id),
		zap.Bool("archived", archived))
	return nil
}

// DeleteStudio permanently removes a studio: its admin login is disabled on
// a best-effort basis, every subcollection is emptied in a fixed order, and
// the root row is deleted last. No single transaction spans the whole
// deletion; every step is idempotent, so re-invoking on a partially
// deleted studio completes the remaining work. Once the root row is gone a
// retry reports not-found, which callers treat as "already deleted".
func (c *Controller) DeleteStudio(id string, caller *jwtutil.Claims) error {
	prometheus.RecordLifecycleOperation("delete")

	if err := claims.Authorize(caller, model.RoleSuperAdmin); err != nil {
		return err
	}

	studio, err := c.loadStudio(id)
	if err != nil {
		return err
	}

	// Losing the ability to disable the login is an accepted degradation,
	// not a reason to keep the data alive.
	if account, err := c.identity.GetByEmail(studio.AdminEmail); err != nil {
		c.log.Warn("Could not look up admin identity during studio deletion",
			zap.String("studio_id", id),
			zap.String("admin_email", studio.AdminEmail),
			zap.Error(err))
	} else if err := c.identity.Disable(account.UID); err != nil {
		c.log.Warn("Could not disable admin identity during studio deletion",
			zap.String("studio_id", id),
			zap.String("uid", account.UID),
			zap.Error(err))
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())

	// Subcollections are processed strictly sequentially; each must report
	// fully empty before the next one starts. The root row is only removed
	// after the last subcollection, so a concurrent reader that still sees
	// the root row never observes a studio missing from the index.
	for _, sub := range model.Subcollections() {
		batches, err := c.engine.Purge(id, sub)
		if err != nil {
			c.log.Error("Studio deletion aborted mid-cascade",
				zap.String("studio_id", id),
				zap.String("collection", sub.Name),
				zap.Error(err))
			return err
		}
		c.log.Debug("Subcollection emptied",
			zap.String("studio_id", id),
			zap.String("collection", sub.Name),
			zap.Int("batches", batches))
	}

	if err := c.db.Delete(&model.Studio{}, "id = ?", id).Error; err != nil {
		return apperr.Internal("failed to delete studio root", err)
	}

	if !studio.IsArchived {
		prometheus.ActiveStudiosGauge.Dec()
	}
	c.log.Info("Studio permanently deleted", zap.String("studio_id", id))
	return nil
}

// List returns all studio root rows, optionally including archived ones.
func (c *Controller) List(includeArchived bool, caller *jwtutil.Claims) ([]model.Studio, error) {
	if err := claims.Authorize(caller, model.RoleSuperAdmin); err != nil {
		return nil, err
	}

	var studios []model.Studio
	query := c.db.Order("created_at")
	if !includeArchived {
		query = query.Where("is_archived = ?", false)
	}
	if err := query.Find(&studios).Error; err != nil {
		return nil, apperr.Internal("failed to list studios", err)
	}
	return studios, nil
}
