package services

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"kalamela-backend/models"
)

// Payments computes registration fees per district and walks each payment
// through the Pending -> Paid/Declined review flow.
type Payments struct {
	db    *gorm.DB
	rules *RuleStore
}

func NewPayments(db *gorm.DB, rules *RuleStore) *Payments {
	return &Payments{db: db, rules: rules}
}

func (p *Payments) districtCounts(districtID int) (individual, group int64, err error) {
	err = p.db.Model(&models.IndividualEventParticipation{}).
		Joins("JOIN users ON users.id = individual_event_participations.added_by_id").
		Where("users.district_id = ?", districtID).
		Count(&individual).Error
	if err != nil {
		return 0, 0, errors.Wrap(err, "count individual registrations")
	}

	err = p.db.Model(&models.GroupEventParticipation{}).
		Joins("JOIN users ON users.id = group_event_participations.added_by_id").
		Where("users.district_id = ?", districtID).
		Count(&group).Error
	if err != nil {
		return 0, 0, errors.Wrap(err, "count group registrations")
	}
	return individual, group, nil
}

// CreatePayment opens a registration payment for the official's district,
// priced from current participation counts. A district can have only one
// active pending payment, and none once a payment is approved.
func (p *Payments) CreatePayment(paidByID int) (*models.KalamelaPayment, error) {
	var official models.User
	if err := p.db.First(&official, paidByID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reject(KindNotFound, "Recording official not found")
		}
		return nil, errors.Wrap(err, "load recording official")
	}

	var pending int64
	err := p.db.Model(&models.KalamelaPayment{}).
		Joins("JOIN users ON users.id = kalamela_payments.paid_by_id").
		Where("users.district_id = ?", official.DistrictID).
		Where("kalamela_payments.payment_status = ?", models.PaymentPending).
		Count(&pending).Error
	if err != nil {
		return nil, errors.Wrap(err, "check pending payments")
	}
	if pending > 0 {
		return nil, reject(KindAlreadyExists, "An active payment already exists. Wait for admin review.")
	}

	var paid int64
	err = p.db.Model(&models.KalamelaPayment{}).
		Joins("JOIN users ON users.id = kalamela_payments.paid_by_id").
		Where("users.district_id = ?", official.DistrictID).
		Where("kalamela_payments.payment_status = ?", models.PaymentPaid).
		Count(&paid).Error
	if err != nil {
		return nil, errors.Wrap(err, "check approved payments")
	}
	if paid > 0 {
		return nil, reject(KindAlreadyExists, "Payment has already been approved for this district.")
	}

	individualCount, groupCount, err := p.districtCounts(official.DistrictID)
	if err != nil {
		return nil, err
	}
	if individualCount == 0 && groupCount == 0 {
		return nil, reject(KindInvalidInput, "No registrations to pay for")
	}

	fees, err := p.rules.Fees()
	if err != nil {
		return nil, err
	}

	payment := models.KalamelaPayment{
		PaidByID:              official.ID,
		IndividualEventsCount: int(individualCount),
		GroupEventsCount:      int(groupCount),
		TotalAmountToPay:      int(individualCount)*fees.IndividualEvent + int(groupCount)*fees.GroupEvent,
		PaymentStatus:         models.PaymentPending,
	}
	if err := p.db.Create(&payment).Error; err != nil {
		return nil, errors.Wrap(err, "create payment")
	}
	return &payment, nil
}

// AttachProof stores the uploaded proof location on a pending payment and
// returns the path it replaced, if any, so the caller can discard the old
// upload.
func (p *Payments) AttachProof(paymentID int, proofPath string) (*models.KalamelaPayment, string, error) {
	var payment models.KalamelaPayment
	if err := p.db.First(&payment, paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", reject(KindNotFound, "Payment not found")
		}
		return nil, "", errors.Wrap(err, "load payment")
	}
	if payment.PaymentStatus != models.PaymentPending {
		return nil, "", reject(KindInvalidTransition, "Payment has already been settled")
	}

	replaced := payment.PaymentProofPath
	payment.PaymentProofPath = proofPath
	if err := p.db.Save(&payment).Error; err != nil {
		return nil, "", errors.Wrap(err, "update payment")
	}
	return &payment, replaced, nil
}

// SetStatus settles a payment after admin review. Pending is the only state
// that can move, and only to Paid or Declined.
func (p *Payments) SetStatus(paymentID int, status models.PaymentStatus) (*models.KalamelaPayment, error) {
	if status != models.PaymentPaid && status != models.PaymentDeclined {
		return nil, reject(KindInvalidTransition, "Payment status must be Paid or Declined")
	}

	var payment models.KalamelaPayment
	if err := p.db.First(&payment, paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reject(KindNotFound, "Payment not found")
		}
		return nil, errors.Wrap(err, "load payment")
	}
	if payment.PaymentStatus != models.PaymentPending {
		return nil, reject(KindInvalidTransition, "Payment has already been settled")
	}

	payment.PaymentStatus = status
	if err := p.db.Save(&payment).Error; err != nil {
		return nil, errors.Wrap(err, "update payment")
	}
	return &payment, nil
}

// ListPayments returns payments newest first, optionally filtered by status.
func (p *Payments) ListPayments(status models.PaymentStatus) ([]models.KalamelaPayment, error) {
	q := p.db.Preload("PaidBy").Order("created_on DESC")
	if status != "" {
		q = q.Where("payment_status = ?", status)
	}
	var payments []models.KalamelaPayment
	if err := q.Find(&payments).Error; err != nil {
		return nil, errors.Wrap(err, "list payments")
	}
	return payments, nil
}

// DistrictPayment returns the most recent payment for a district, or nil.
func (p *Payments) DistrictPayment(districtID int) (*models.KalamelaPayment, error) {
	var payment models.KalamelaPayment
	err := p.db.
		Joins("JOIN users ON users.id = kalamela_payments.paid_by_id").
		Where("users.district_id = ?", districtID).
		Order("kalamela_payments.created_on DESC").
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "load district payment")
	}
	return &payment, nil
}
