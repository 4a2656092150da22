package repositories

import (
	"errors"

	"phoneadmin_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrTransactionNotFound = errors.New("payment transaction not found")

	// ErrDuplicateOrderID is returned when the unique index on order_id
	// rejects an insert. It is the sole guard against concurrent
	// verifications of the same order — there is deliberately no
	// application-level lock, the process may be horizontally scaled.
	ErrDuplicateOrderID = errors.New("order id already processed")
)

// TransactionCriteria filters the transaction listing.
type TransactionCriteria struct {
	UserID   string               `form:"-"`
	Status   models.PaymentStatus `form:"status"`
	Page     int                  `form:"page"`
	PageSize int                  `form:"page_size"`
}

type PaymentRepository interface {
	// Settings (singleton row)
	GetSettings(db *gorm.DB) (*models.PaymentSettings, error)
	UpdateSettings(db *gorm.DB, settings *models.PaymentSettings) error

	// Transactions
	CreateTransaction(db *gorm.DB, tx *models.PaymentTransaction) error
	FindTransactionByOrderID(db *gorm.DB, orderID string) (*models.PaymentTransaction, error)
	FindTransactions(db *gorm.DB, criteria TransactionCriteria) ([]models.PaymentTransaction, int64, error)
}

type paymentRepository struct{}

func NewPaymentRepository() PaymentRepository {
	return &paymentRepository{}
}

// GetSettings returns the settings row, creating a disabled one on first use.
func (r *paymentRepository) GetSettings(db *gorm.DB) (*models.PaymentSettings, error) {
	var settings models.PaymentSettings
	err := db.Order("created_at ASC").First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = models.PaymentSettings{BinanceEnabled: false}
		if err := db.Create(&settings).Error; err != nil {
			return nil, err
		}
		return &settings, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *paymentRepository) UpdateSettings(db *gorm.DB, settings *models.PaymentSettings) error {
	return db.Save(settings).Error
}

func (r *paymentRepository) CreateTransaction(db *gorm.DB, tx *models.PaymentTransaction) error {
	if err := db.Create(tx).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateOrderID
		}
		return err
	}
	return nil
}

func (r *paymentRepository) FindTransactionByOrderID(db *gorm.DB, orderID string) (*models.PaymentTransaction, error) {
	var tx models.PaymentTransaction
	if err := db.First(&tx, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &tx, nil
}

func (r *paymentRepository) FindTransactions(db *gorm.DB, criteria TransactionCriteria) ([]models.PaymentTransaction, int64, error) {
	query := db.Model(&models.PaymentTransaction{})

	if criteria.UserID != "" {
		query = query.Where("user_id = ?", criteria.UserID)
	}
	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var transactions []models.PaymentTransaction
	err := query.Order("created_at DESC").
		Offset((criteria.Page - 1) * criteria.PageSize).
		Limit(criteria.PageSize).
		Find(&transactions).Error
	return transactions, total, err
}
