package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/visionapps/darkshop-core/pkg/errors"
)

// Service defines catalog operations. Mutations are owner-scoped: a seller
// can only change or remove their own listings.
type Service interface {
	List(ctx context.Context) ([]Product, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Product, error)
	Get(ctx context.Context, productID string) (Product, error)
	Save(ctx context.Context, product Product) (Product, error)
	Update(ctx context.Context, actorID string, product Product) (Product, error)
	Delete(ctx context.Context, actorID, productID string) error
	IncrementSalesCount(ctx context.Context, productID string) error
}

type service struct {
	repo Repository
}

// NewService wires a catalog service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

func (s *service) ListByOwner(ctx context.Context, ownerID string) ([]Product, error) {
	if ownerID == "" {
		return nil, errors.New(errors.CodeValidation, "owner id is required")
	}
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	owned := make([]Product, 0, len(products))
	for _, product := range products {
		if product.OwnerID == ownerID {
			owned = append(owned, product)
		}
	}
	return owned, nil
}

func (s *service) Get(ctx context.Context, productID string) (Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return Product{}, err
	}
	for _, product := range products {
		if product.ID == productID {
			return product, nil
		}
	}
	return Product{}, errors.New(errors.CodeNotFound, "product not found")
}

func (s *service) Save(ctx context.Context, product Product) (Product, error) {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	product.SalesCount = 0
	if err := product.Validate(); err != nil {
		return Product{}, err
	}

	err := s.repo.Replace(ctx, func(products []Product) ([]Product, error) {
		for _, existing := range products {
			if existing.ID == product.ID {
				return nil, errors.New(errors.CodeConflict, "product already exists")
			}
		}
		return append(products, product), nil
	})
	if err != nil {
		return Product{}, err
	}
	return product, nil
}

func (s *service) Update(ctx context.Context, actorID string, product Product) (Product, error) {
	if product.ID == "" {
		return Product{}, errors.New(errors.CodeValidation, "product id is required")
	}

	var updated Product
	err := s.repo.Replace(ctx, func(products []Product) ([]Product, error) {
		for i, existing := range products {
			if existing.ID != product.ID {
				continue
			}
			if existing.OwnerID != actorID {
				return nil, errors.New(errors.CodeValidation, "only the owner can update a product")
			}
			// Ownership and sales history survive the update.
			product.OwnerID = existing.OwnerID
			product.SalesCount = existing.SalesCount
			if err := product.Validate(); err != nil {
				return nil, err
			}
			products[i] = product
			updated = product
			return products, nil
		}
		return nil, errors.New(errors.CodeNotFound, "product not found")
	})
	if err != nil {
		return Product{}, err
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, actorID, productID string) error {
	if productID == "" {
		return errors.New(errors.CodeValidation, "product id is required")
	}

	return s.repo.Replace(ctx, func(products []Product) ([]Product, error) {
		for i, existing := range products {
			if existing.ID != productID {
				continue
			}
			if existing.OwnerID != actorID {
				return nil, errors.New(errors.CodeValidation, "only the owner can delete a product")
			}
			return append(products[:i], products[i+1:]...), nil
		}
		return nil, errors.New(errors.CodeNotFound, "product not found")
	})
}

func (s *service) IncrementSalesCount(ctx context.Context, productID string) error {
	return s.repo.Replace(ctx, func(products []Product) ([]Product, error) {
		for i := range products {
			if products[i].ID == productID {
				products[i].SalesCount++
				return products, nil
			}
		}
		return nil, errors.New(errors.CodeNotFound, "product not found")
	})
}
