package models

import "time"

// Appeal is a paid dispute of a published score, referencing the chest number
// and event name it contests.
type Appeal struct {
	ID          int          `json:"id" gorm:"primaryKey"`
	AddedByID   int          `json:"added_by_id" gorm:"index;not null"`
	ChestNumber string       `json:"chest_number" gorm:"type:varchar(50);not null"`
	EventName   string       `json:"event_name" gorm:"not null"`
	Statement   string       `json:"statement" gorm:"type:varchar(1000);not null"`
	Reply       string       `json:"reply" gorm:"type:varchar(1000)"`
	Status      AppealStatus `json:"status" gorm:"type:varchar(16);not null;default:Pending"`
	CreatedOn   time.Time    `json:"created_on" gorm:"autoCreateTime"`

	AddedBy *Member `json:"added_by,omitempty" gorm:"foreignKey:AddedByID"`
}

// AppealPayment carries the fixed appeal fee, created alongside each appeal.
type AppealPayment struct {
	ID               int           `json:"id" gorm:"primaryKey"`
	AppealID         int           `json:"appeal_id" gorm:"uniqueIndex;not null"`
	TotalAmountToPay int           `json:"total_amount_to_pay" gorm:"not null"`
	PaymentType      string        `json:"payment_type" gorm:"type:varchar(64);default:Appeal Fee"`
	PaymentStatus    PaymentStatus `json:"payment_status" gorm:"type:varchar(64);not null;default:Pending"`
	CreatedOn        time.Time     `json:"created_on" gorm:"autoCreateTime"`

	Appeal *Appeal `json:"appeal,omitempty" gorm:"foreignKey:AppealID"`
}
