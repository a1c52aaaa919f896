package models

import "time"

// KalamelaPayment is a district's registration payment: amount owed derived
// from participation counts, with an uploaded proof reviewed by an admin.
type KalamelaPayment struct {
	ID                    int           `json:"id" gorm:"primaryKey"`
	PaidByID              int           `json:"paid_by_id" gorm:"index;not null"`
	IndividualEventsCount int           `json:"individual_events_count" gorm:"not null;default:0"`
	GroupEventsCount      int           `json:"group_events_count" gorm:"not null;default:0"`
	TotalAmountToPay      int           `json:"total_amount_to_pay" gorm:"not null"`
	PaymentProofPath      string        `json:"payment_proof_path" gorm:"type:varchar(500)"`
	PaymentStatus         PaymentStatus `json:"payment_status" gorm:"type:varchar(16);not null;default:Pending"`
	CreatedOn             time.Time     `json:"created_on" gorm:"autoCreateTime"`

	PaidBy *User `json:"paid_by,omitempty" gorm:"foreignKey:PaidByID"`
}
