package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/cajaledger/internal/domain"
	"github.com/iho/cajaledger/internal/infrastructure/postgres/generated"
)

// CategoryRepository implements usecase.CategoryRepository.
type CategoryRepository struct {
	queries *generated.Queries
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db generated.DBTX) *CategoryRepository {
	return &CategoryRepository{
		queries: generated.New(db),
	}
}

// Create creates a new category.
func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	_, err := r.queries.CreateCategory(ctx, generated.CreateCategoryParams{
		ID:        category.ID,
		Name:      category.Name,
		Type:      category.Type,
		ParentID:  category.ParentID,
		CreatedAt: timeToPgTimestamptz(category.CreatedAt),
	})

	return err
}

// GetByID retrieves a category by ID.
func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	row, err := r.queries.GetCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}

		return nil, err
	}

	return rowToCategory(row), nil
}

// ListAll returns every category.
func (r *CategoryRepository) ListAll(ctx context.Context) ([]*domain.Category, error) {
	rows, err := r.queries.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	categories := make([]*domain.Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, rowToCategory(row))
	}

	return categories, nil
}

// UpdateParent re-parents a category.
func (r *CategoryRepository) UpdateParent(ctx context.Context, id string, parentID *string) error {
	n, err := r.queries.UpdateCategoryParent(ctx, generated.UpdateCategoryParentParams{
		ID:       id,
		ParentID: parentID,
	})
	if err != nil {
		return err
	}

	if n == 0 {
		return domain.ErrCategoryNotFound
	}

	return nil
}

func rowToCategory(row generated.Category) *domain.Category {
	return &domain.Category{
		ID:        row.ID,
		Name:      row.Name,
		Type:      row.Type,
		ParentID:  row.ParentID,
		CreatedAt: row.CreatedAt.Time,
	}
}
