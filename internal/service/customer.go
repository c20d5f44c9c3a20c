package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/party-rental/internal/logger"
	"github.com/iliyamo/party-rental/internal/model"
	"github.com/iliyamo/party-rental/internal/repository"
)

// Customer list tabs.
const (
	TabActive      = "ativos"
	TabBlacklisted = "lista_negra"
)

type CustomerInput struct {
	Name         string `validate:"required,max=160"`
	Phone        string `validate:"required,max=40"`
	Document     string `validate:"max=40"`
	Address      string `validate:"max=255"`
	Neighborhood string `validate:"max=120"`
}

// CustomerService manages the customer registry and the blacklist flag.
type CustomerService struct {
	repo     CustomerRepository
	now      func() time.Time
	validate *validator.Validate
}

func NewCustomerService(repo CustomerRepository) *CustomerService {
	return &CustomerService{repo: repo, now: time.Now, validate: validator.New()}
}

func (s *CustomerService) Register(ctx context.Context, in CustomerInput) (model.Customer, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Document = strings.TrimSpace(in.Document)
	if err := s.validate.Struct(in); err != nil {
		return model.Customer{}, fromValidator(err)
	}
	c := model.Customer{
		Name:         in.Name,
		Phone:        in.Phone,
		Address:      strings.TrimSpace(in.Address),
		Neighborhood: strings.TrimSpace(in.Neighborhood),
		CreatedAt:    s.now().UTC(),
	}
	if in.Document != "" {
		c.Document = &in.Document
	}
	if err := s.repo.CreateCustomer(ctx, &c); err != nil {
		return model.Customer{}, err
	}
	logger.Info("customer registered", "customer_id", c.ID)
	return c, nil
}

// List returns customers of one tab (empty for all) whose name contains search.
func (s *CustomerService) List(ctx context.Context, tab, search string) ([]model.Customer, error) {
	f := repository.CustomerFilter{Search: search}
	switch tab {
	case "":
	case TabActive:
		no := false
		f.Blacklisted = &no
	case TabBlacklisted:
		yes := true
		f.Blacklisted = &yes
	default:
		return nil, invalid("tab", "must be ativos or lista_negra")
	}
	return s.repo.ListCustomers(ctx, f)
}

func (s *CustomerService) Get(ctx context.Context, id uint64) (model.Customer, error) {
	return s.repo.GetCustomer(ctx, id)
}

// SetBlacklisted moves a customer in or out of the blacklist.
func (s *CustomerService) SetBlacklisted(ctx context.Context, id uint64, flag bool) (model.Customer, error) {
	if err := s.repo.SetBlacklisted(ctx, id, flag); err != nil {
		return model.Customer{}, err
	}
	logger.Info("customer blacklist changed", "customer_id", id, "blacklisted", flag)
	return s.repo.GetCustomer(ctx, id)
}

// ToggleBlacklist flips the blacklist flag.
func (s *CustomerService) ToggleBlacklist(ctx context.Context, id uint64) (model.Customer, error) {
	c, err := s.repo.GetCustomer(ctx, id)
	if err != nil {
		return model.Customer{}, err
	}
	return s.SetBlacklisted(ctx, id, !c.Blacklisted)
}

// Delete removes a customer without open reservations. Returned rentals
// go with it; ledger entries stay and lose the customer reference.
func (s *CustomerService) Delete(ctx context.Context, id uint64) error {
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		if _, err := tx.GetCustomer(ctx, id); err != nil {
			return err
		}
		n, err := tx.CountOpenLines(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrCustomerHasOpenLines
		}
		return tx.DeleteCustomer(ctx, id)
	})
	if err != nil {
		return err
	}
	logger.Info("customer deleted", "customer_id", id)
	return nil
}

// History lists every reservation line of a customer, newest event first.
func (s *CustomerService) History(ctx context.Context, id uint64) ([]model.ReservationLine, error) {
	if _, err := s.repo.GetCustomer(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListCustomerLines(ctx, id)
}
