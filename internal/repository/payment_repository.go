package repository

import (
	"errors"
	"strings"

	"github.com/stagelight/boxoffice/internal/models"

	"gorm.io/gorm"
)

// PaymentRepository is the payment data access interface.
type PaymentRepository interface {
	Create(payment *models.Payment) error
	GetByID(id uint) (*models.Payment, error)
	GetByProviderTxnID(providerTxnID string) (*models.Payment, error)
	GetLatestForTicket(ticketID string) (*models.Payment, error)
	Update(payment *models.Payment) error
	WithTx(tx *gorm.DB) *GormPaymentRepository
}

// GormPaymentRepository is the GORM implementation.
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates the payment repository.
func NewPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormPaymentRepository) WithTx(tx *gorm.DB) *GormPaymentRepository {
	if tx == nil {
		return r
	}
	return &GormPaymentRepository{db: tx}
}

// Create persists a new payment.
func (r *GormPaymentRepository) Create(payment *models.Payment) error {
	if payment == nil {
		return errors.New("payment is nil")
	}
	return r.db.Create(payment).Error
}

// GetByID fetches a payment by id.
func (r *GormPaymentRepository) GetByID(id uint) (*models.Payment, error) {
	if id == 0 {
		return nil, errors.New("invalid payment id")
	}
	var payment models.Payment
	if err := r.db.Preload("Ticket").First(&payment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// GetByProviderTxnID fetches a payment by the gateway transaction id.
func (r *GormPaymentRepository) GetByProviderTxnID(providerTxnID string) (*models.Payment, error) {
	if strings.TrimSpace(providerTxnID) == "" {
		return nil, errors.New("invalid provider txn id")
	}
	var payment models.Payment
	if err := r.db.Preload("Ticket").Where("provider_txn_id = ?", providerTxnID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// GetLatestForTicket fetches the most recent payment of a ticket.
func (r *GormPaymentRepository) GetLatestForTicket(ticketID string) (*models.Payment, error) {
	if strings.TrimSpace(ticketID) == "" {
		return nil, errors.New("invalid ticket id")
	}
	var payment models.Payment
	if err := r.db.Where("ticket_id = ?", ticketID).Order("id desc").First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// Update persists payment changes.
func (r *GormPaymentRepository) Update(payment *models.Payment) error {
	if payment == nil || payment.ID == 0 {
		return errors.New("invalid payment")
	}
	return r.db.Save(payment).Error
}
