package models

// SeniorityCategory is the Junior/Senior age classification used to scope
// per-district quotas.
type SeniorityCategory string

const (
	SeniorityJunior SeniorityCategory = "Junior"
	SenioritySenior SeniorityCategory = "Senior"
)

// Gender as stored on unit members ("M"/"F").
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

// GenderRestriction on events. Empty means open to all.
type GenderRestriction string

const (
	RestrictMale   GenderRestriction = "Male"
	RestrictFemale GenderRestriction = "Female"
)

type EventType string

const (
	EventTypeIndividual EventType = "individual"
	EventTypeGroup      EventType = "group"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "Pending"
	PaymentPaid     PaymentStatus = "Paid"
	PaymentDeclined PaymentStatus = "Declined"
)

type AppealStatus string

const (
	AppealPending  AppealStatus = "Pending"
	AppealApproved AppealStatus = "Approved"
	AppealRejected AppealStatus = "Rejected"
)

type RuleCategory string

const (
	RuleAgeRestriction     RuleCategory = "age_restriction"
	RuleParticipationLimit RuleCategory = "participation_limit"
	RuleFee                RuleCategory = "fee"
)

type ScheduleStatus string

const (
	ScheduleScheduled ScheduleStatus = "Scheduled"
	ScheduleOngoing   ScheduleStatus = "Ongoing"
	ScheduleCompleted ScheduleStatus = "Completed"
	ScheduleCancelled ScheduleStatus = "Cancelled"
	SchedulePostponed ScheduleStatus = "Postponed"
)
