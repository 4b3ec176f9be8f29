// Package legacyimport ingests mongodump archives produced by the
// previous Node portal and loads the appearance collections into the
// relational store. Each collection appears in the dump as either a
// .bson file (concatenated documents) or a .json array; bson wins when
// both are present.
package legacyimport

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/dwellio/core/internal/models"
	"github.com/dwellio/core/internal/modules/appearance"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var importTableNames = []string{
	"interface_configurations",
	"preset_configurations",
	"configuration_history",
	"contextual_configurations",
}

var importTableNameSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(importTableNames))
	for _, name := range importTableNames {
		set[name] = struct{}{}
	}
	return set
}()

// Mongo collection names used by the legacy portal.
var importTableAliases = map[string]string{
	"interfaceconfigurations":  "interface_configurations",
	"presetconfigurations":     "preset_configurations",
	"configurationhistories":   "configuration_history",
	"contextualconfigurations": "contextual_configurations",
}

type entryCandidate struct {
	File   *zip.File
	Format string
}

// Report summarizes one import run.
type Report struct {
	Tables map[string]int `json:"tables"`
	Total  int            `json:"total"`
}

// Importer replaces the appearance tables with the contents of a legacy
// dump, all four collections inside one transaction.
type Importer struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewImporter(db *gorm.DB, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{db: db, logger: logger.Named("LegacyImporter")}
}

// Run imports every recognized collection from the archive. Existing
// rows of an imported table are dropped first; untouched tables keep
// their data. The whole run commits or rolls back as one unit.
func (im *Importer) Run(ctx context.Context, zr *zip.Reader) (*Report, error) {
	if zr == nil {
		return nil, fmt.Errorf("%w: empty archive", appearance.ErrValidation)
	}

	entries := make(map[string]entryCandidate)
	for _, file := range zr.File {
		table, format, ok := parseDumpEntry(file.Name)
		if !ok {
			continue
		}
		table = resolveTableName(table)
		if table == "" {
			continue
		}
		exist, has := entries[table]
		if !has || (exist.Format != "bson" && format == "bson") {
			entries[table] = entryCandidate{File: file, Format: format}
		}
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: archive contains no appearance collections", appearance.ErrValidation)
	}

	report := &Report{Tables: make(map[string]int, len(entries))}
	err := im.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range importTableNames {
			entry, ok := entries[table]
			if !ok {
				continue
			}
			rows, err := decodeDumpRows(entry.File, entry.Format)
			if err != nil {
				return fmt.Errorf("decode rows for %s: %w", table, err)
			}

			inserted, err := im.importTable(tx, table, rows)
			if err != nil {
				return err
			}
			report.Tables[table] = inserted
			report.Total += inserted
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	im.logger.Info("legacy import finished", zap.Int("rows", report.Total), zap.Any("tables", report.Tables))
	return report, nil
}

func (im *Importer) importTable(tx *gorm.DB, table string, rows []map[string]interface{}) (int, error) {
	if err := tx.Exec("DELETE FROM `" + table + "`").Error; err != nil {
		return 0, err
	}

	inserted := 0
	for idx, row := range rows {
		normalized := normalizeRow(table, row)
		if normalized == nil {
			continue
		}
		if err := tx.Table(table).Create(normalized).Error; err != nil {
			if isDuplicateConstraintError(err) {
				continue
			}
			return 0, fmt.Errorf("insert row #%d into %s: %w", idx+1, table, err)
		}
		inserted++
	}

	if err := enforceSingleActive(tx, table); err != nil {
		return 0, err
	}
	return inserted, nil
}

// enforceSingleActive repairs dumps that carry more than one active
// record where only one is allowed: the newest active row wins.
func enforceSingleActive(tx *gorm.DB, table string) error {
	switch table {
	case "interface_configurations":
		var m models.InterfaceConfigModel
		err := tx.Where("is_active = ?", true).Order("updated_at DESC, created_at DESC").First(&m).Error
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return tx.Model(&models.InterfaceConfigModel{}).
			Where("id <> ? AND is_active = ?", m.ID, true).
			Update("is_active", false).Error
	case "contextual_configurations":
		var scopes []struct {
			ContextType string
			ContextID   string
		}
		err := tx.Model(&models.ContextualConfigModel{}).
			Select("context_type, context_id").
			Where("is_active = ?", true).
			Group("context_type, context_id").
			Having("COUNT(*) > 1").
			Scan(&scopes).Error
		if err != nil {
			return err
		}
		for _, scope := range scopes {
			var m models.ContextualConfigModel
			err := tx.Where("context_type = ? AND context_id = ? AND is_active = ?", scope.ContextType, scope.ContextID, true).
				Order("updated_at DESC, created_at DESC").First(&m).Error
			if err != nil {
				return err
			}
			if err := tx.Model(&models.ContextualConfigModel{}).
				Where("context_type = ? AND context_id = ? AND id <> ? AND is_active = ?", scope.ContextType, scope.ContextID, m.ID, true).
				Update("is_active", false).Error; err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}

func parseDumpEntry(name string) (table string, format string, ok bool) {
	base := strings.ToLower(strings.TrimSpace(path.Base(name)))
	if base == "" {
		return "", "", false
	}
	if base == "prelude.json" || base == "manifest.json" || strings.HasSuffix(base, ".metadata.json") {
		return "", "", false
	}

	if strings.HasSuffix(base, ".bson") {
		table = strings.TrimSuffix(base, ".bson")
		if table == "" {
			return "", "", false
		}
		return table, "bson", true
	}
	if strings.HasSuffix(base, ".json") {
		table = strings.TrimSuffix(base, ".json")
		if table == "" {
			return "", "", false
		}
		return table, "json", true
	}
	return "", "", false
}

func resolveTableName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}
	if mapped, ok := importTableAliases[name]; ok {
		name = mapped
	}
	if _, ok := importTableNameSet[name]; !ok {
		return ""
	}
	return name
}

func decodeDumpRows(file *zip.File, format string) ([]map[string]interface{}, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}

	switch format {
	case "bson":
		return decodeBSONRows(data)
	case "json":
		if len(bytes.TrimSpace(data)) == 0 {
			return []map[string]interface{}{}, nil
		}
		var rows []map[string]interface{}
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, err
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("unsupported dump format: %s", format)
	}
}
