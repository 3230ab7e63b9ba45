package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/shopsmarter/cart-engine/pkg/db"
	pkgerrors "github.com/shopsmarter/cart-engine/pkg/errors"
)

// Repository reads products from the catalog.
type Repository interface {
	FindByID(ctx context.Context, id int64) (*Product, error)
	FindByIDs(ctx context.Context, ids []int64) ([]Product, error)
}

type repository struct {
	client *db.Client
}

// NewRepository builds the GORM-backed catalog repository.
func NewRepository(client *db.Client) (Repository, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &repository{client: client}, nil
}

func (r *repository) FindByID(ctx context.Context, id int64) (*Product, error) {
	var product Product
	err := r.client.DB().WithContext(ctx).First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %d not found", id))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "querying product")
	}
	return &product, nil
}

func (r *repository) FindByIDs(ctx context.Context, ids []int64) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}
	var products []Product
	err := r.client.DB().WithContext(ctx).Where("id IN ?", ids).Find(&products).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "querying products")
	}
	return products, nil
}
