package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/nasiyabro/nasiya-backend/internal/domain"
	"github.com/nasiyabro/nasiya-backend/internal/repository"
	customError "github.com/nasiyabro/nasiya-backend/pkg/errors"
)

// SaleService handles direct cash sales. Same permission and stock
// semantics as loan creation, minus the schedule.
type SaleService struct {
	sales    repository.SaleRepository
	products repository.ProductRepository
	ledger   repository.LedgerRepository
	users    repository.UserRepository
	tx       repository.TxRunner
	log      *logrus.Logger
}

func NewSaleService(
	sales repository.SaleRepository,
	products repository.ProductRepository,
	ledger repository.LedgerRepository,
	users repository.UserRepository,
	tx repository.TxRunner,
	log *logrus.Logger,
) *SaleService {
	return &SaleService{
		sales:    sales,
		products: products,
		ledger:   ledger,
		users:    users,
		tx:       tx,
		log:      log,
	}
}

// Create records a direct sale and decrements stock atomically.
func (s *SaleService) Create(ctx context.Context, actor domain.Actor, request *domain.CreateSaleRequest) (*domain.Sale, error) {
	if actor.MagazineID == uuid.Nil {
		return nil, customError.WrapValidation("user must be assigned to a magazine to create sales")
	}
	if request.SalePrice.LessThanOrEqual(decimal.Zero) {
		return nil, customError.WrapValidation("sale price must be greater than 0")
	}

	product, err := s.products.GetByID(ctx, request.ProductID)
	if err != nil {
		return nil, notFoundOr(err, "product", request.ProductID)
	}

	if !actor.IsAdmin() && product.ManagerID != actor.WarehouseOwner() {
		return nil, customError.WrapForbidden("you can only sell products from your warehouse")
	}

	if product.Count <= 0 {
		return nil, customError.WrapOutOfStock(product.ID.String())
	}

	now := time.Now()
	sale := &domain.Sale{
		ID:         uuid.New(),
		ProductID:  product.ID,
		SellerID:   actor.UserID,
		MagazineID: actor.MagazineID,
		SalePrice:  request.SalePrice,
		IMEI:       request.IMEI,
		SaleDate:   now,
		CreatedAt:  now,
	}

	err = s.tx.WithinTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.sales.Create(ctx, tx, sale); err != nil {
			return customError.WrapPersistence(err)
		}

		ok, err := s.products.DecrementStock(ctx, tx, product.ID)
		if err != nil {
			return customError.WrapPersistence(err)
		}
		if !ok {
			return customError.WrapOutOfStock(product.ID.String())
		}

		entry := &domain.LedgerEntry{
			ID:          uuid.New(),
			Type:        domain.LedgerTypeSale,
			Amount:      sale.SalePrice,
			Description: fmt.Sprintf("Sale of %s %s", product.Name, product.Model),
			SaleID:      &sale.ID,
			ProductID:   &product.ID,
			SellerID:    actor.UserID,
			MagazineID:  actor.MagazineID,
			CreatedAt:   now,
		}
		if err := s.ledger.Create(ctx, tx, entry); err != nil {
			return customError.WrapPersistence(err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"sale_id":    sale.ID,
		"product_id": product.ID,
	}).Info("sale created")

	return sale, nil
}

// List returns scope-filtered sales with optional date and search filters.
func (s *SaleService) List(ctx context.Context, actor domain.Actor, filter domain.SaleFilter) ([]*domain.SaleView, error) {
	scope, err := s.scopeFor(ctx, actor)
	if err != nil {
		return nil, err
	}

	views, err := s.sales.ListViews(ctx, scope, filter)
	if err != nil {
		return nil, customError.WrapPersistence(err)
	}

	return views, nil
}

// RecentActivity returns the latest ledger entries for the activity feed.
func (s *SaleService) RecentActivity(ctx context.Context, actor domain.Actor, limit int) ([]*domain.LedgerEntryView, error) {
	scope, err := s.scopeFor(ctx, actor)
	if err != nil {
		return nil, err
	}

	entries, err := s.ledger.ListRecent(ctx, scope, limit)
	if err != nil {
		return nil, customError.WrapPersistence(err)
	}

	return entries, nil
}

func (s *SaleService) scopeFor(ctx context.Context, actor domain.Actor) (repository.Scope, error) {
	if actor.IsAdmin() {
		return repository.ScopeFor(actor, ""), nil
	}

	magazine, err := s.users.GetMagazine(ctx, actor.MagazineID)
	if err != nil {
		return repository.Scope{}, customError.WrapPersistence(err)
	}

	return repository.ScopeFor(actor, magazine.BusinessMode), nil
}
