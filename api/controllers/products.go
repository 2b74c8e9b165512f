package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/visionapps/darkshop-core/api/responses"
	"github.com/visionapps/darkshop-core/api/validators"
	"github.com/visionapps/darkshop-core/internal/auth"
	"github.com/visionapps/darkshop-core/internal/catalog"
	"github.com/visionapps/darkshop-core/pkg/enums"
	pkgerrors "github.com/visionapps/darkshop-core/pkg/errors"
	"github.com/visionapps/darkshop-core/pkg/logger"
)

type productRequest struct {
	Title          string `json:"title" validate:"required,min=2"`
	Description    string `json:"description"`
	Price          string `json:"price" validate:"required"`
	CommissionRate string `json:"commissionRate"`
	Type           string `json:"type" validate:"required"`
	ImageURL       string `json:"imageUrl"`
	ContentURL     string `json:"contentUrl"`
	PaymentLink    string `json:"paymentLink"`
}

func (req productRequest) toProduct() (catalog.Product, error) {
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return catalog.Product{}, pkgerrors.New(pkgerrors.CodeValidation, "price must be a decimal string")
	}
	rate := decimal.Zero
	if req.CommissionRate != "" {
		rate, err = decimal.NewFromString(req.CommissionRate)
		if err != nil {
			return catalog.Product{}, pkgerrors.New(pkgerrors.CodeValidation, "commission rate must be a decimal string")
		}
	}
	productType, err := enums.ParseProductType(req.Type)
	if err != nil {
		return catalog.Product{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product type")
	}
	return catalog.Product{
		Title:          validators.SanitizeString(req.Title, 200),
		Description:    validators.SanitizeString(req.Description, 2000),
		Price:          price,
		CommissionRate: rate,
		Type:           productType,
		ImageURL:       req.ImageURL,
		ContentURL:     req.ContentURL,
		PaymentLink:    req.PaymentLink,
	}, nil
}

// ProductsList returns the full catalog, or one seller's listings when the
// owner query parameter is present.
func ProductsList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if owner := r.URL.Query().Get("owner"); owner != "" {
			products, err := svc.ListByOwner(ctx, owner)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			responses.WriteSuccess(w, products)
			return
		}

		products, err := svc.List(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

// ProductsGet returns one product by id.
func ProductsGet(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		product, err := svc.Get(ctx, chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ProductsCreate lists a new product owned by the active session.
func ProductsCreate(svc catalog.Service, authSvc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		actor, ok := authSvc.Current()
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInvalidCredential, "no active session"))
			return
		}

		var req productRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		product, err := req.toProduct()
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		product.OwnerID = actor.ID

		saved, err := svc.Save(ctx, product)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, saved)
	}
}

// ProductsUpdate replaces a product owned by the active session.
func ProductsUpdate(svc catalog.Service, authSvc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		actor, ok := authSvc.Current()
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInvalidCredential, "no active session"))
			return
		}

		var req productRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		product, err := req.toProduct()
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		product.ID = chi.URLParam(r, "productId")

		updated, err := svc.Update(ctx, actor.ID, product)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// ProductsDelete removes a product owned by the active session.
func ProductsDelete(svc catalog.Service, authSvc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		actor, ok := authSvc.Current()
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInvalidCredential, "no active session"))
			return
		}

		if err := svc.Delete(ctx, actor.ID, chi.URLParam(r, "productId")); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
