package services

import (
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"kalamela-backend/models"
)

// Rule table keys. Values not present (or inactive) fall back to the
// defaults below.
const (
	ruleMaxIndividualEventsPerPerson = "max_individual_events_per_person"
	ruleMaxPerDistrictPerSeniority   = "max_participants_per_district_per_seniority"
	ruleMaxTeamsPerDistrict          = "max_teams_per_district_per_group_event"
	ruleIndividualEventFee           = "individual_event_fee"
	ruleGroupEventFee                = "group_event_fee"
	ruleAppealFee                    = "appeal_fee"
	ruleJuniorDOBStart               = "junior_dob_start"
	ruleJuniorDOBEnd                 = "junior_dob_end"
	ruleSeniorDOBStart               = "senior_dob_start"
	ruleSeniorDOBEnd                 = "senior_dob_end"
)

const (
	defaultMaxIndividualEventsPerPerson = 5
	defaultMaxPerDistrictPerSeniority   = 2
	defaultMaxTeamsPerDistrict          = 2
	defaultIndividualEventFee           = 50
	defaultGroupEventFee                = 100
	defaultAppealFee                    = 1000

	defaultJuniorDOBStart = "2005-01-11"
	defaultJuniorDOBEnd   = "2011-06-30"
	defaultSeniorDOBStart = "1991-01-11"
	defaultSeniorDOBEnd   = "2005-01-10"
)

const rulesCacheTTL = 5 * time.Minute

// Limits are the participation caps applied by the registrar.
type Limits struct {
	MaxIndividualEventsPerPerson int
	MaxPerDistrictPerSeniority   int
	MaxTeamsPerDistrict          int
}

// Fees are the configured fee amounts.
type Fees struct {
	IndividualEvent int
	GroupEvent      int
	Appeal          int
}

// AgeWindows are the DOB ranges defining the Junior and Senior buckets.
type AgeWindows struct {
	JuniorStart time.Time
	JuniorEnd   time.Time
	SeniorStart time.Time
	SeniorEnd   time.Time
}

// RuleStore reads tunable thresholds from the kalamela rules table, caching
// them briefly. Every component that needs a threshold takes a *RuleStore at
// construction instead of embedding literals.
type RuleStore struct {
	db *gorm.DB

	mu        sync.Mutex
	cache     map[string]string
	fetchedAt time.Time
}

func NewRuleStore(db *gorm.DB) *RuleStore {
	return &RuleStore{db: db}
}

// Invalidate forces a reload on next access. Called after admin rule updates.
func (s *RuleStore) Invalidate() {
	s.mu.Lock()
	s.cache = nil
	s.fetchedAt = time.Time{}
	s.mu.Unlock()
}

func (s *RuleStore) values() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cache != nil && time.Since(s.fetchedAt) < rulesCacheTTL {
		return s.cache, nil
	}

	var rules []models.Rule
	if err := s.db.Where("is_active = ?", true).Find(&rules).Error; err != nil {
		return nil, errors.Wrap(err, "load kalamela rules")
	}

	values := make(map[string]string, len(rules))
	for _, r := range rules {
		values[r.RuleKey] = r.RuleValue
	}
	s.cache = values
	s.fetchedAt = time.Now()
	return values, nil
}

func (s *RuleStore) intValue(values map[string]string, key string, fallback int) int {
	raw, ok := values[key]
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func (s *RuleStore) dateValue(values map[string]string, key, fallback string) time.Time {
	raw, ok := values[key]
	if !ok {
		raw = fallback
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		d, _ = time.Parse("2006-01-02", fallback)
	}
	return d
}

func (s *RuleStore) Limits() (Limits, error) {
	values, err := s.values()
	if err != nil {
		return Limits{}, err
	}
	return Limits{
		MaxIndividualEventsPerPerson: s.intValue(values, ruleMaxIndividualEventsPerPerson, defaultMaxIndividualEventsPerPerson),
		MaxPerDistrictPerSeniority:   s.intValue(values, ruleMaxPerDistrictPerSeniority, defaultMaxPerDistrictPerSeniority),
		MaxTeamsPerDistrict:          s.intValue(values, ruleMaxTeamsPerDistrict, defaultMaxTeamsPerDistrict),
	}, nil
}

func (s *RuleStore) Fees() (Fees, error) {
	values, err := s.values()
	if err != nil {
		return Fees{}, err
	}
	return Fees{
		IndividualEvent: s.intValue(values, ruleIndividualEventFee, defaultIndividualEventFee),
		GroupEvent:      s.intValue(values, ruleGroupEventFee, defaultGroupEventFee),
		Appeal:          s.intValue(values, ruleAppealFee, defaultAppealFee),
	}, nil
}

func (s *RuleStore) AgeWindows() (AgeWindows, error) {
	values, err := s.values()
	if err != nil {
		return AgeWindows{}, err
	}
	return AgeWindows{
		JuniorStart: s.dateValue(values, ruleJuniorDOBStart, defaultJuniorDOBStart),
		JuniorEnd:   s.dateValue(values, ruleJuniorDOBEnd, defaultJuniorDOBEnd),
		SeniorStart: s.dateValue(values, ruleSeniorDOBStart, defaultSeniorDOBStart),
		SeniorEnd:   s.dateValue(values, ruleSeniorDOBEnd, defaultSeniorDOBEnd),
	}, nil
}

// UpdateRule changes a rule value and invalidates the cache.
func (s *RuleStore) UpdateRule(key, value string, updatedBy int) (*models.Rule, error) {
	var rule models.Rule
	if err := s.db.Where("rule_key = ?", key).First(&rule).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reject(KindNotFound, "Rule not found")
		}
		return nil, errors.Wrap(err, "load rule")
	}

	rule.RuleValue = value
	rule.UpdatedByID = &updatedBy
	if err := s.db.Save(&rule).Error; err != nil {
		return nil, errors.Wrap(err, "update rule")
	}
	s.Invalidate()
	return &rule, nil
}

// ListRules returns all rule rows for the admin screen.
func (s *RuleStore) ListRules() ([]models.Rule, error) {
	var rules []models.Rule
	if err := s.db.Order("rule_category, rule_key").Find(&rules).Error; err != nil {
		return nil, errors.Wrap(err, "list rules")
	}
	return rules, nil
}
