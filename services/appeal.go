package services

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"kalamela-backend/models"
)

// appealWindow is how long after a score is published an appeal can be filed.
const appealWindow = 30 * time.Minute

// AppealDesk accepts and resolves score appeals. Each appeal carries a
// payment row at the configured appeal fee.
type AppealDesk struct {
	db    *gorm.DB
	rules *RuleStore
	now   func() time.Time
}

func NewAppealDesk(db *gorm.DB, rules *RuleStore) *AppealDesk {
	return &AppealDesk{db: db, rules: rules, now: time.Now}
}

// latestScoreTime finds the most recent score for a chest number, checking
// individual participations first and team cards second.
func (a *AppealDesk) latestScoreTime(chestNumber, eventName string) (time.Time, bool, error) {
	var individual models.IndividualEventScoreCard
	err := a.db.
		Joins("JOIN individual_event_participations p ON p.id = individual_event_score_cards.event_participation_id").
		Where("p.chest_number = ?", chestNumber).
		Order("individual_event_score_cards.added_on DESC").
		First(&individual).Error
	if err == nil {
		return individual.AddedOn, true, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, false, errors.Wrap(err, "load individual score")
	}

	var group models.GroupEventScoreCard
	q := a.db.Where("chest_number = ?", chestNumber)
	if eventName != "" {
		q = q.Where("event_name = ?", eventName)
	}
	err = q.Order("added_on DESC").First(&group).Error
	if err == nil {
		return group.AddedOn, true, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, false, errors.Wrap(err, "load group score")
	}
	return time.Time{}, false, nil
}

// FileAppeal opens an appeal against the latest score for a chest number.
// Appeals close 30 minutes after the score is published; one appeal per
// chest number and event.
func (a *AppealDesk) FileAppeal(addedByID int, chestNumber, eventName, statement string) (*models.Appeal, error) {
	var member models.Member
	if err := a.db.First(&member, addedByID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reject(KindNotFound, "Participant not found")
		}
		return nil, errors.Wrap(err, "load member")
	}

	scoredAt, found, err := a.latestScoreTime(chestNumber, eventName)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, reject(KindNoScoreFound, "No score found for this chest number")
	}
	if a.now().UTC().Sub(scoredAt) > appealWindow {
		return nil, reject(KindAppealWindowExpired, "Appeal window expired (30 minutes from score publication)")
	}

	var existing models.Appeal
	err = a.db.Where("chest_number = ? AND event_name = ?", chestNumber, eventName).
		First(&existing).Error
	if err == nil {
		return nil, reject(KindAlreadyExists, "Appeal already exists for this chest number and event")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(err, "check existing appeal")
	}

	fees, err := a.rules.Fees()
	if err != nil {
		return nil, err
	}

	appeal := models.Appeal{
		AddedByID:   addedByID,
		ChestNumber: chestNumber,
		EventName:   eventName,
		Statement:   statement,
		Status:      models.AppealPending,
	}
	err = a.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&appeal).Error; err != nil {
			return errors.Wrap(err, "create appeal")
		}
		payment := models.AppealPayment{
			AppealID:         appeal.ID,
			TotalAmountToPay: fees.Appeal,
			PaymentType:      "Appeal Fee",
			PaymentStatus:    models.PaymentPending,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return errors.Wrap(err, "create appeal payment")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &appeal, nil
}

// Resolve settles a pending appeal with a reply. Only Pending appeals can
// move to Approved or Rejected.
func (a *AppealDesk) Resolve(appealID int, status models.AppealStatus, reply string) (*models.Appeal, error) {
	if status != models.AppealApproved && status != models.AppealRejected {
		return nil, reject(KindInvalidTransition, "Appeal status must be Approved or Rejected")
	}

	var appeal models.Appeal
	if err := a.db.First(&appeal, appealID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reject(KindNotFound, "Appeal not found")
		}
		return nil, errors.Wrap(err, "load appeal")
	}
	if appeal.Status != models.AppealPending {
		return nil, reject(KindInvalidTransition, "Appeal has already been resolved")
	}

	appeal.Status = status
	appeal.Reply = reply
	if err := a.db.Save(&appeal).Error; err != nil {
		return nil, errors.Wrap(err, "update appeal")
	}
	return &appeal, nil
}

// ListAppeals returns appeals newest first, optionally filtered by status.
func (a *AppealDesk) ListAppeals(status models.AppealStatus) ([]models.Appeal, error) {
	q := a.db.Preload("AddedBy").Order("created_on DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var appeals []models.Appeal
	if err := q.Find(&appeals).Error; err != nil {
		return nil, errors.Wrap(err, "list appeals")
	}
	return appeals, nil
}

// SetAppealPaymentStatus settles the fee on an appeal. Pending fees can only
// move to Paid or Declined.
func (a *AppealDesk) SetAppealPaymentStatus(appealID int, status models.PaymentStatus) (*models.AppealPayment, error) {
	if status != models.PaymentPaid && status != models.PaymentDeclined {
		return nil, reject(KindInvalidTransition, "Payment status must be Paid or Declined")
	}

	var payment models.AppealPayment
	err := a.db.Where("appeal_id = ?", appealID).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reject(KindNotFound, "Appeal payment not found")
		}
		return nil, errors.Wrap(err, "load appeal payment")
	}
	if payment.PaymentStatus != models.PaymentPending {
		return nil, reject(KindInvalidTransition, "Payment has already been settled")
	}

	payment.PaymentStatus = status
	if err := a.db.Save(&payment).Error; err != nil {
		return nil, errors.Wrap(err, "update appeal payment")
	}
	return &payment, nil
}
