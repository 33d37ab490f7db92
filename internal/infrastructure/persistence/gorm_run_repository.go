package persistence

import (
	"context"
	"errors"
	"fmt"

	"code_runner_service/internal/domain/runs"
	"code_runner_service/internal/infrastructure/persistence/models"
	"code_runner_service/internal/pkg/logger"

	"gorm.io/gorm"
)

type gormRunRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormRunRepository creates a new GORM-based RunRepository implementation
func NewGormRunRepository(db *gorm.DB, logger logger.Logger) (runs.RunRepository, error) {
	return &gormRunRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormRunRepository) Create(ctx context.Context, run *runs.RunMeta) error {
	// Validate domain entity (business rules)
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.RunModel{}
	model.FromDomain(run)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	r.logger.Info("Created run metadata with id ", run.ID)
	return nil
}

func (r *gormRunRepository) List(ctx context.Context, query *runs.RunMetaQuery) ([]*runs.RunMeta, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query parameters: %w", err)
	}

	var modelList []*models.RunModel
	dbQuery := r.db.WithContext(ctx).Model(&models.RunModel{})

	// Apply filters
	if query.Status != "" {
		dbQuery = dbQuery.Where("status = ?", query.Status)
	}
	if query.EntryPoint != "" {
		dbQuery = dbQuery.Where("entry_point = ?", query.EntryPoint)
	}
	if !query.DateTimeCreated.IsZero() {
		dbQuery = dbQuery.Where("date_time_created >= ?", query.DateTimeCreated)
	}

	// Sorting; columns are whitelisted by query.Validate
	if query.SortBy != "" {
		order := query.SortOrder
		if order == "" {
			order = "asc"
		}
		dbQuery = dbQuery.Order(fmt.Sprintf("%s %s", query.SortBy, order))
	}

	// Pagination
	if query.Limit > 0 {
		dbQuery = dbQuery.Limit(query.Limit)
	}
	if query.Offset > 0 {
		dbQuery = dbQuery.Offset(query.Offset)
	}

	if err := dbQuery.Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	runMetas := make([]*runs.RunMeta, 0, len(modelList))
	for _, model := range modelList {
		runMetas = append(runMetas, model.ToDomain())
	}

	return runMetas, nil
}

func (r *gormRunRepository) GetByID(ctx context.Context, runID string) (*runs.RunMeta, error) {
	var model models.RunModel

	err := r.db.WithContext(ctx).First(&model, "id = ?", runID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("run with id %s not found", runID)
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	return model.ToDomain(), nil
}

func (r *gormRunRepository) UpdateByID(ctx context.Context, run *runs.RunMeta) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.RunModel{}).Where("id = ?", run.ID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up run: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("run with id %s not found", run.ID)
	}

	model := &models.RunModel{}
	model.FromDomain(run)

	// Save writes every column so zero values (exit code 0, cleared flags) persist
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	r.logger.Info("Updated run metadata with id ", run.ID)
	return nil
}

func (r *gormRunRepository) DeleteByID(ctx context.Context, runID string) error {
	result := r.db.WithContext(ctx).Delete(&models.RunModel{}, "id = ?", runID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete run: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("run with id %s not found", runID)
	}

	r.logger.Info("Deleted run metadata with id ", runID)
	return nil
}
