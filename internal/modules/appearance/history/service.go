package history

import (
	"context"
	"time"

	"github.com/dwellio/core/internal/models"
	"github.com/dwellio/core/internal/pkg/pagination"
	"github.com/dwellio/core/internal/pkg/response"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Store appends and queries the append-only configuration change log.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewStore(db *gorm.DB, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, logger: logger.Named("ConfigHistory")}
}

// AppendTx writes a snapshot entry inside the caller's transaction.
// Version is 1 + the highest version of the same lineage, computed in
// the same transaction as the insert.
func (s *Store) AppendTx(tx *gorm.DB, configID string, doc models.ConfigDocument, actor, description string) error {
	var maxVersion int
	err := tx.Model(&models.ConfigHistoryModel{}).
		Where("config_id = ?", configID).
		Select("COALESCE(MAX(version), 0)").
		Scan(&maxVersion).Error
	if err != nil {
		return err
	}

	entry := models.ConfigHistoryModel{
		ConfigID:          configID,
		Config:            doc.Clone(),
		Version:           maxVersion + 1,
		ChangedBy:         actor,
		ChangeDescription: description,
	}
	return tx.Create(&entry).Error
}

// List returns history entries, newest first.
func (s *Store) List(ctx context.Context, q pagination.Query) ([]models.ConfigHistoryModel, response.Pagination, error) {
	tx := s.db.WithContext(ctx).Model(&models.ConfigHistoryModel{}).Order("created_at DESC, version DESC")
	var items []models.ConfigHistoryModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

// ListForConfig returns the history of one lineage, newest version first.
func (s *Store) ListForConfig(ctx context.Context, configID string, limit int) ([]models.ConfigHistoryModel, error) {
	if limit <= 0 {
		limit = 20
	}
	var items []models.ConfigHistoryModel
	err := s.db.WithContext(ctx).
		Where("config_id = ?", configID).
		Order("version DESC").
		Limit(limit).
		Find(&items).Error
	return items, err
}

// PruneOlderThan hard-deletes entries older than the retention window
// and returns the number removed. Entries are write-once, so pruning by
// age is the only mutation the log ever sees.
func (s *Store) PruneOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	result := s.db.WithContext(ctx).
		Unscoped().
		Where("created_at < ?", cutoff).
		Delete(&models.ConfigHistoryModel{})
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		s.logger.Info("history pruned", zap.Int64("removed", result.RowsAffected))
	}
	return result.RowsAffected, nil
}
