package services

import (
	"sort"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"kalamela-backend/models"
)

// Statistics answers the read-only reporting queries: per-district tallies
// and the overall championship titles.
type Statistics struct {
	db *gorm.DB
}

func NewStatistics(db *gorm.DB) *Statistics {
	return &Statistics{db: db}
}

// DistrictStatistics is one district's registration and scoring summary.
type DistrictStatistics struct {
	DistrictID             int    `json:"district_id"`
	DistrictName           string `json:"district_name"`
	IndividualParticipants int64  `json:"individual_participants"`
	GroupParticipants      int64  `json:"group_participants"`
	Teams                  int64  `json:"teams"`
	IndividualPointsTotal  int64  `json:"individual_points_total"`
	PendingPayments        int64  `json:"pending_payments"`
	ApprovedPayments       int64  `json:"approved_payments"`
}

// ForDistrict summarizes one district.
func (s *Statistics) ForDistrict(districtID int) (*DistrictStatistics, error) {
	var district models.District
	if err := s.db.First(&district, districtID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reject(KindNotFound, "District not found")
		}
		return nil, errors.Wrap(err, "load district")
	}

	stats := DistrictStatistics{DistrictID: district.ID, DistrictName: district.Name}

	err := s.db.Model(&models.IndividualEventParticipation{}).
		Joins("JOIN users ON users.id = individual_event_participations.added_by_id").
		Where("users.district_id = ?", districtID).
		Count(&stats.IndividualParticipants).Error
	if err != nil {
		return nil, errors.Wrap(err, "count individual participants")
	}

	err = s.db.Model(&models.GroupEventParticipation{}).
		Joins("JOIN users ON users.id = group_event_participations.added_by_id").
		Where("users.district_id = ?", districtID).
		Count(&stats.GroupParticipants).Error
	if err != nil {
		return nil, errors.Wrap(err, "count group participants")
	}

	err = s.db.Model(&models.GroupEventParticipation{}).
		Joins("JOIN users ON users.id = group_event_participations.added_by_id").
		Where("users.district_id = ?", districtID).
		Distinct("group_event_participations.chest_number").
		Count(&stats.Teams).Error
	if err != nil {
		return nil, errors.Wrap(err, "count teams")
	}

	type pointsRow struct{ Total int64 }
	var points pointsRow
	err = s.db.Model(&models.IndividualEventScoreCard{}).
		Select("COALESCE(SUM(individual_event_score_cards.total_points), 0) AS total").
		Joins("JOIN individual_event_participations p ON p.id = individual_event_score_cards.event_participation_id").
		Joins("JOIN users ON users.id = p.added_by_id").
		Where("users.district_id = ?", districtID).
		Scan(&points).Error
	if err != nil {
		return nil, errors.Wrap(err, "sum district points")
	}
	stats.IndividualPointsTotal = points.Total

	err = s.db.Model(&models.KalamelaPayment{}).
		Joins("JOIN users ON users.id = kalamela_payments.paid_by_id").
		Where("users.district_id = ?", districtID).
		Where("kalamela_payments.payment_status = ?", models.PaymentPending).
		Count(&stats.PendingPayments).Error
	if err != nil {
		return nil, errors.Wrap(err, "count pending payments")
	}

	err = s.db.Model(&models.KalamelaPayment{}).
		Joins("JOIN users ON users.id = kalamela_payments.paid_by_id").
		Where("users.district_id = ?", districtID).
		Where("kalamela_payments.payment_status = ?", models.PaymentPaid).
		Count(&stats.ApprovedPayments).Error
	if err != nil {
		return nil, errors.Wrap(err, "count approved payments")
	}

	return &stats, nil
}

// Champion is one candidate for the overall individual championship.
type Champion struct {
	ParticipantID int           `json:"participant_id"`
	Name          string        `json:"name"`
	Gender        models.Gender `json:"gender"`
	TotalPoints   int           `json:"total_points"`
	PodiumEvents  int           `json:"podium_events"`
	Categories    int           `json:"categories"`
}

// Champions names Kalaprathibha (male) and Kalathilakam (female): the
// highest-scoring participant of each gender with podium finishes in at
// least two events spanning at least two event categories. Either title can
// be nil when no one qualifies.
func (s *Statistics) Champions() (kalaprathibha, kalathilakam *Champion, err error) {
	type cardRow struct {
		ParticipantID int
		Name          string
		Gender        models.Gender
		EventID       int
		CategoryID    int
		TotalPoints   int
		Rank          *int
	}

	var rows []cardRow
	err = s.db.Model(&models.IndividualEventScoreCard{}).
		Select(`individual_event_score_cards.participant_id,
			members.name,
			members.gender,
			p.individual_event_id AS event_id,
			COALESCE(individual_events.category_id, 0) AS category_id,
			individual_event_score_cards.total_points,
			individual_event_score_cards.rank`).
		Joins("JOIN individual_event_participations p ON p.id = individual_event_score_cards.event_participation_id").
		Joins("JOIN individual_events ON individual_events.id = p.individual_event_id").
		Joins("JOIN members ON members.id = individual_event_score_cards.participant_id").
		Scan(&rows).Error
	if err != nil {
		return nil, nil, errors.Wrap(err, "load championship rows")
	}

	type tally struct {
		name       string
		gender     models.Gender
		points     int
		podium     map[int]struct{}
		categories map[int]struct{}
	}
	tallies := make(map[int]*tally)
	for _, row := range rows {
		t, ok := tallies[row.ParticipantID]
		if !ok {
			t = &tally{
				name:       row.Name,
				gender:     row.Gender,
				podium:     make(map[int]struct{}),
				categories: make(map[int]struct{}),
			}
			tallies[row.ParticipantID] = t
		}
		t.points += row.TotalPoints
		if row.Rank != nil && *row.Rank <= 3 {
			t.podium[row.EventID] = struct{}{}
			t.categories[row.CategoryID] = struct{}{}
		}
	}

	var candidates []Champion
	for id, t := range tallies {
		if len(t.podium) < 2 || len(t.categories) < 2 {
			continue
		}
		candidates = append(candidates, Champion{
			ParticipantID: id,
			Name:          t.name,
			Gender:        t.gender,
			TotalPoints:   t.points,
			PodiumEvents:  len(t.podium),
			Categories:    len(t.categories),
		})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].TotalPoints != candidates[j].TotalPoints {
			return candidates[i].TotalPoints > candidates[j].TotalPoints
		}
		return candidates[i].ParticipantID < candidates[j].ParticipantID
	})

	for i := range candidates {
		c := candidates[i]
		switch {
		case c.Gender == models.GenderMale && kalaprathibha == nil:
			kalaprathibha = &candidates[i]
		case c.Gender == models.GenderFemale && kalathilakam == nil:
			kalathilakam = &candidates[i]
		}
		if kalaprathibha != nil && kalathilakam != nil {
			break
		}
	}
	return kalaprathibha, kalathilakam, nil
}
