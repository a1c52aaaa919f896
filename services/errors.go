package services

// Kind classifies a business-rule rejection. These are expected, user-facing
// outcomes and are surfaced verbatim to the caller, not logged as failures.
type Kind string

const (
	KindNotFound            Kind = "not_found"
	KindExcluded            Kind = "excluded"
	KindPersonEventCap      Kind = "person_event_cap_reached"
	KindDistrictQuota       Kind = "district_quota_reached"
	KindUnitQuota           Kind = "unit_quota_reached"
	KindDuplicateMember     Kind = "duplicate_member"
	KindInvalidScore        Kind = "invalid_score"
	KindNoScoreFound        Kind = "no_score_found"
	KindAppealWindowExpired Kind = "appeal_window_expired"
	KindInvalidTransition   Kind = "invalid_transition"
	KindAlreadyExists       Kind = "already_exists"
	KindInvalidInput        Kind = "invalid_input"
)

// Error is a business-rule rejection with a reason string that the
// surrounding UI surfaces verbatim.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func reject(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf returns the rejection kind, or "" for unexpected errors.
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return ""
}

// IsRejection reports whether err is an expected business-rule rejection as
// opposed to an internal persistence failure.
func IsRejection(err error) bool {
	_, ok := err.(*Error)
	return ok
}
