package services

import (
	"sort"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"kalamela-backend/models"
)

// Ledger records marks and points for participations and teams. Score cards
// are append-only: corrections arrive as new rows (or through the explicit
// recalculation paths), never as silent mutations of recorded history.
type Ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// CalculateGrade maps a mark out of 100 to a letter grade and grade points:
// >=60 A/5, >=50 B/3, >=40 C/1, below 40 no grade.
func CalculateGrade(awardedMark float64) (string, int) {
	switch {
	case awardedMark >= 60:
		return "A", 5
	case awardedMark >= 50:
		return "B", 3
	case awardedMark >= 40:
		return "C", 1
	default:
		return "", 0
	}
}

// rankPoints for podium positions: 1st 5, 2nd 3, 3rd 1.
func rankPoints(rank int) int {
	switch rank {
	case 1:
		return 5
	case 2:
		return 3
	case 3:
		return 1
	default:
		return 0
	}
}

type rankable struct {
	mark       float64
	rank       *int
	rankPoints int
}

// assignRanks orders by mark descending and assigns podium ranks, giving
// equal marks the same rank.
func assignRanks(entries []rankable) []rankable {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].mark > entries[j].mark
	})

	currentRank := 1
	var previous *float64
	for i := range entries {
		mark := entries[i].mark
		if previous != nil && mark < *previous {
			currentRank = i + 1
		}
		if currentRank <= 3 {
			rank := currentRank
			entries[i].rank = &rank
			entries[i].rankPoints = rankPoints(rank)
		} else {
			entries[i].rank = nil
			entries[i].rankPoints = 0
		}
		previous = &entries[i].mark
	}
	return entries
}

// RecordIndividualScore appends one score card for a participation. The
// caller supplies the display grade and total points; negatives are invalid.
func (l *Ledger) RecordIndividualScore(participationID int, awardedMark float64, grade string, totalPoints int) (*models.IndividualEventScoreCard, error) {
	if awardedMark < 0 || totalPoints < 0 {
		return nil, reject(KindInvalidScore, "Score values must not be negative")
	}

	var participation models.IndividualEventParticipation
	if err := l.db.First(&participation, participationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reject(KindNotFound, "Participation not found")
		}
		return nil, errors.Wrap(err, "load participation")
	}

	gradePoints := 0
	if grade != "" {
		_, gradePoints = CalculateGrade(awardedMark)
	}
	card := models.IndividualEventScoreCard{
		EventParticipationID: participation.ID,
		ParticipantID:        participation.ParticipantID,
		AwardedMark:          awardedMark,
		Grade:                grade,
		GradePoints:          gradePoints,
		TotalPoints:          totalPoints,
		AddedOn:              time.Now().UTC(),
	}
	if err := l.db.Create(&card).Error; err != nil {
		return nil, errors.Wrap(err, "create score card")
	}
	return &card, nil
}

// RecordGroupScore appends one score card keyed by event name and team chest
// number. Teams have no participation foreign key by design.
func (l *Ledger) RecordGroupScore(eventName, chestNumber string, awardedMark float64, grade string, totalPoints int) (*models.GroupEventScoreCard, error) {
	if awardedMark < 0 || totalPoints < 0 {
		return nil, reject(KindInvalidScore, "Score values must not be negative")
	}

	gradePoints := 0
	if grade != "" {
		_, gradePoints = CalculateGrade(awardedMark)
	}
	card := models.GroupEventScoreCard{
		EventName:   eventName,
		ChestNumber: chestNumber,
		AwardedMark: awardedMark,
		Grade:       grade,
		GradePoints: gradePoints,
		TotalPoints: totalPoints,
		AddedOn:     time.Now().UTC(),
	}
	if err := l.db.Create(&card).Error; err != nil {
		return nil, errors.Wrap(err, "create score card")
	}
	return &card, nil
}

// ScoreInput is one judge entry for an individual event.
type ScoreInput struct {
	ParticipationID int     `json:"event_participation_id"`
	AwardedMark     float64 `json:"awarded_mark"`
}

// GroupScoreInput is one judge entry for a group event team.
type GroupScoreInput struct {
	ChestNumber string  `json:"chest_number"`
	AwardedMark float64 `json:"awarded_mark"`
}

// ScoreIndividualEvent records a batch of marks for one event, deriving
// grades, podium ranks and total points (grade points + rank points).
// Entries for unknown participations are skipped.
func (l *Ledger) ScoreIndividualEvent(eventID int, inputs []ScoreInput) ([]models.IndividualEventScoreCard, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	for _, in := range inputs {
		if in.AwardedMark < 0 || in.AwardedMark > 100 {
			return nil, reject(KindInvalidScore, "Marks must be between 0 and 100")
		}
	}

	type pending struct {
		participationID int
		participantID   int
		mark            float64
		grade           string
		gradePoints     int
	}
	var valid []pending
	for _, in := range inputs {
		var participation models.IndividualEventParticipation
		err := l.db.Where("id = ? AND individual_event_id = ?", in.ParticipationID, eventID).
			First(&participation).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, errors.Wrap(err, "load participation")
		}
		grade, gradePoints := CalculateGrade(in.AwardedMark)
		valid = append(valid, pending{
			participationID: participation.ID,
			participantID:   participation.ParticipantID,
			mark:            in.AwardedMark,
			grade:           grade,
			gradePoints:     gradePoints,
		})
	}

	ranks := make([]rankable, len(valid))
	for i, p := range valid {
		ranks[i] = rankable{mark: p.mark}
	}
	ranks = assignRanks(ranks)

	// assignRanks sorted by mark descending; re-sort valid to match.
	sort.SliceStable(valid, func(i, j int) bool { return valid[i].mark > valid[j].mark })

	now := time.Now().UTC()
	var cards []models.IndividualEventScoreCard
	err := l.db.Transaction(func(tx *gorm.DB) error {
		for i, p := range valid {
			card := models.IndividualEventScoreCard{
				EventParticipationID: p.participationID,
				ParticipantID:        p.participantID,
				AwardedMark:          p.mark,
				Grade:                p.grade,
				GradePoints:          p.gradePoints,
				Rank:                 ranks[i].rank,
				RankPoints:           ranks[i].rankPoints,
				TotalPoints:          p.gradePoints + ranks[i].rankPoints,
				AddedOn:              now,
			}
			if err := tx.Create(&card).Error; err != nil {
				return errors.Wrap(err, "create score card")
			}
			cards = append(cards, card)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cards, nil
}

// ScoreGroupEvent records a batch of team marks for one event. Group totals
// count rank points only; the grade is display-only.
func (l *Ledger) ScoreGroupEvent(eventName string, inputs []GroupScoreInput) ([]models.GroupEventScoreCard, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	for _, in := range inputs {
		if in.AwardedMark < 0 || in.AwardedMark > 100 {
			return nil, reject(KindInvalidScore, "Marks must be between 0 and 100")
		}
	}

	type pending struct {
		chestNumber string
		mark        float64
		grade       string
		gradePoints int
	}
	var valid []pending
	for _, in := range inputs {
		if in.ChestNumber == "" {
			continue
		}
		grade, gradePoints := CalculateGrade(in.AwardedMark)
		valid = append(valid, pending{
			chestNumber: in.ChestNumber,
			mark:        in.AwardedMark,
			grade:       grade,
			gradePoints: gradePoints,
		})
	}

	ranks := make([]rankable, len(valid))
	for i, p := range valid {
		ranks[i] = rankable{mark: p.mark}
	}
	ranks = assignRanks(ranks)
	sort.SliceStable(valid, func(i, j int) bool { return valid[i].mark > valid[j].mark })

	now := time.Now().UTC()
	var cards []models.GroupEventScoreCard
	err := l.db.Transaction(func(tx *gorm.DB) error {
		for i, p := range valid {
			card := models.GroupEventScoreCard{
				EventName:   eventName,
				ChestNumber: p.chestNumber,
				AwardedMark: p.mark,
				Grade:       p.grade,
				GradePoints: p.gradePoints,
				Rank:        ranks[i].rank,
				RankPoints:  ranks[i].rankPoints,
				TotalPoints: ranks[i].rankPoints,
				AddedOn:     now,
			}
			if err := tx.Create(&card).Error; err != nil {
				return errors.Wrap(err, "create score card")
			}
			cards = append(cards, card)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cards, nil
}

// RecalculateIndividualRanks refreshes grades, ranks and totals for every
// score card of one individual event after corrections.
func (l *Ledger) RecalculateIndividualRanks(eventID int) (int, error) {
	var cards []models.IndividualEventScoreCard
	err := l.db.
		Joins("JOIN individual_event_participations p ON p.id = individual_event_score_cards.event_participation_id").
		Where("p.individual_event_id = ?", eventID).
		Order("individual_event_score_cards.awarded_mark DESC").
		Find(&cards).Error
	if err != nil {
		return 0, errors.Wrap(err, "load score cards")
	}
	return l.recalculate(cards, func(c *models.IndividualEventScoreCard) {
		c.TotalPoints = c.GradePoints + c.RankPoints
	})
}

// RecalculateGroupRanks refreshes grades, ranks and totals for one group
// event's score cards. Group totals remain rank points only.
func (l *Ledger) RecalculateGroupRanks(eventName string) (int, error) {
	var cards []models.GroupEventScoreCard
	err := l.db.Where("event_name = ?", eventName).
		Order("awarded_mark DESC").
		Find(&cards).Error
	if err != nil {
		return 0, errors.Wrap(err, "load score cards")
	}

	ranks := make([]rankable, len(cards))
	for i, c := range cards {
		ranks[i] = rankable{mark: c.AwardedMark}
	}
	ranks = assignRanks(ranks)

	err = l.db.Transaction(func(tx *gorm.DB) error {
		for i := range cards {
			grade, gradePoints := CalculateGrade(cards[i].AwardedMark)
			cards[i].Grade = grade
			cards[i].GradePoints = gradePoints
			cards[i].Rank = ranks[i].rank
			cards[i].RankPoints = ranks[i].rankPoints
			cards[i].TotalPoints = ranks[i].rankPoints
			if err := tx.Save(&cards[i]).Error; err != nil {
				return errors.Wrap(err, "update score card")
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(cards), nil
}

func (l *Ledger) recalculate(cards []models.IndividualEventScoreCard, total func(*models.IndividualEventScoreCard)) (int, error) {
	ranks := make([]rankable, len(cards))
	for i, c := range cards {
		ranks[i] = rankable{mark: c.AwardedMark}
	}
	ranks = assignRanks(ranks)

	err := l.db.Transaction(func(tx *gorm.DB) error {
		for i := range cards {
			grade, gradePoints := CalculateGrade(cards[i].AwardedMark)
			cards[i].Grade = grade
			cards[i].GradePoints = gradePoints
			cards[i].Rank = ranks[i].rank
			cards[i].RankPoints = ranks[i].rankPoints
			total(&cards[i])
			if err := tx.Save(&cards[i]).Error; err != nil {
				return errors.Wrap(err, "update score card")
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(cards), nil
}

// TopIndividualResults returns the highest-scoring individual cards, first
// scorer winning ties. eventID of 0 spans all events.
func (l *Ledger) TopIndividualResults(eventID, limit int) ([]models.IndividualEventScoreCard, error) {
	if limit <= 0 {
		limit = 3
	}
	q := l.db.Model(&models.IndividualEventScoreCard{}).
		Preload("Participation").
		Order("total_points DESC, added_on ASC").
		Limit(limit)
	if eventID != 0 {
		q = q.Joins("JOIN individual_event_participations p ON p.id = individual_event_score_cards.event_participation_id").
			Where("p.individual_event_id = ?", eventID)
	}

	var cards []models.IndividualEventScoreCard
	if err := q.Find(&cards).Error; err != nil {
		return nil, errors.Wrap(err, "list top results")
	}
	return cards, nil
}

// TopGroupResults returns the highest-scoring team cards for an event name
// (empty for all events), first scorer winning ties.
func (l *Ledger) TopGroupResults(eventName string, limit int) ([]models.GroupEventScoreCard, error) {
	if limit <= 0 {
		limit = 3
	}
	q := l.db.Order("total_points DESC, added_on ASC").Limit(limit)
	if eventName != "" {
		q = q.Where("event_name = ?", eventName)
	}

	var cards []models.GroupEventScoreCard
	if err := q.Find(&cards).Error; err != nil {
		return nil, errors.Wrap(err, "list top results")
	}
	return cards, nil
}

// BackfillGrades derives missing letter grades and grade points from marks
// across both score tables. One-shot utility for rows recorded before grade
// derivation existed; not applied on live writes.
func (l *Ledger) BackfillGrades() (int, error) {
	updated := 0
	err := l.db.Transaction(func(tx *gorm.DB) error {
		var individual []models.IndividualEventScoreCard
		if err := tx.Where("grade = '' OR grade IS NULL").Find(&individual).Error; err != nil {
			return errors.Wrap(err, "load ungraded individual cards")
		}
		for i := range individual {
			grade, gradePoints := CalculateGrade(individual[i].AwardedMark)
			if grade == "" {
				continue
			}
			individual[i].Grade = grade
			individual[i].GradePoints = gradePoints
			individual[i].TotalPoints = gradePoints + individual[i].RankPoints
			if err := tx.Save(&individual[i]).Error; err != nil {
				return errors.Wrap(err, "update individual card")
			}
			updated++
		}

		var group []models.GroupEventScoreCard
		if err := tx.Where("grade = '' OR grade IS NULL").Find(&group).Error; err != nil {
			return errors.Wrap(err, "load ungraded group cards")
		}
		for i := range group {
			grade, gradePoints := CalculateGrade(group[i].AwardedMark)
			if grade == "" {
				continue
			}
			group[i].Grade = grade
			group[i].GradePoints = gradePoints
			if err := tx.Save(&group[i]).Error; err != nil {
				return errors.Wrap(err, "update group card")
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}
