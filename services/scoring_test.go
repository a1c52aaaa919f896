package services

import (
	"testing"
	"time"

	"kalamela-backend/models"
)

func TestCalculateGrade(t *testing.T) {
	cases := []struct {
		mark       float64
		wantGrade  string
		wantPoints int
	}{
		{95, "A", 5},
		{60, "A", 5},
		{59.9, "B", 3},
		{50, "B", 3},
		{49, "C", 1},
		{40, "C", 1},
		{39.5, "", 0},
		{0, "", 0},
	}
	for _, tc := range cases {
		grade, points := CalculateGrade(tc.mark)
		if grade != tc.wantGrade || points != tc.wantPoints {
			t.Errorf("CalculateGrade(%v) = (%q, %d), want (%q, %d)",
				tc.mark, grade, points, tc.wantGrade, tc.wantPoints)
		}
	}
}

func TestAssignRanks(t *testing.T) {
	t.Run("podium ranks with distinct marks", func(t *testing.T) {
		ranks := assignRanks([]rankable{{mark: 70}, {mark: 90}, {mark: 80}, {mark: 60}})

		wantMarks := []float64{90, 80, 70, 60}
		wantPoints := []int{5, 3, 1, 0}
		for i := range ranks {
			if ranks[i].mark != wantMarks[i] {
				t.Errorf("position %d mark = %v, want %v", i, ranks[i].mark, wantMarks[i])
			}
			if ranks[i].rankPoints != wantPoints[i] {
				t.Errorf("position %d rank points = %d, want %d", i, ranks[i].rankPoints, wantPoints[i])
			}
		}
		if ranks[3].rank != nil {
			t.Errorf("fourth place should have no rank, got %d", *ranks[3].rank)
		}
	})

	t.Run("equal marks share a rank", func(t *testing.T) {
		ranks := assignRanks([]rankable{{mark: 90}, {mark: 90}, {mark: 80}})

		if *ranks[0].rank != 1 || *ranks[1].rank != 1 {
			t.Errorf("tied marks got ranks %v and %v, want 1 and 1", *ranks[0].rank, *ranks[1].rank)
		}
		// The next distinct mark skips the shared position.
		if *ranks[2].rank != 3 {
			t.Errorf("third entry rank = %d, want 3", *ranks[2].rank)
		}
		if ranks[2].rankPoints != 1 {
			t.Errorf("third entry rank points = %d, want 1", ranks[2].rankPoints)
		}
	})
}

func TestScoreIndividualEvent(t *testing.T) {
	setup := func(t *testing.T) (*fixture, *Registrar, *Ledger, *models.IndividualEvent, []int) {
		f := newFixture(t)
		unit := f.unit("Unit A", f.district("Malappuram").ID)
		official := f.official("a@unit.org", unit)
		event := f.individualEvent("Elocution")
		f.rule(ruleMaxPerDistrictPerSeniority, "10", models.RuleParticipationLimit)

		registrar := NewRegistrar(f.db, NewRuleStore(f.db))
		var ids []int
		for i := 0; i < 3; i++ {
			p, err := registrar.RegisterIndividual(event.ID, f.member(unit.ID, models.GenderMale).ID, official.ID, models.SeniorityJunior)
			if err != nil {
				t.Fatalf("register %d: %v", i, err)
			}
			ids = append(ids, p.ID)
		}
		return f, registrar, NewLedger(f.db), event, ids
	}

	t.Run("totals combine grade and rank points", func(t *testing.T) {
		_, _, ledger, event, ids := setup(t)

		cards, err := ledger.ScoreIndividualEvent(event.ID, []ScoreInput{
			{ParticipationID: ids[0], AwardedMark: 85},
			{ParticipationID: ids[1], AwardedMark: 55},
			{ParticipationID: ids[2], AwardedMark: 30},
		})
		if err != nil {
			t.Fatalf("score: %v", err)
		}
		if len(cards) != 3 {
			t.Fatalf("got %d cards, want 3", len(cards))
		}

		// Cards come back ordered by mark descending.
		wantTotals := []int{5 + 5, 3 + 3, 0 + 1}
		wantGrades := []string{"A", "B", ""}
		for i, card := range cards {
			if card.TotalPoints != wantTotals[i] {
				t.Errorf("card %d total = %d, want %d", i, card.TotalPoints, wantTotals[i])
			}
			if card.Grade != wantGrades[i] {
				t.Errorf("card %d grade = %q, want %q", i, card.Grade, wantGrades[i])
			}
		}
	})

	t.Run("rejects marks outside 0..100", func(t *testing.T) {
		_, _, ledger, event, ids := setup(t)

		_, err := ledger.ScoreIndividualEvent(event.ID, []ScoreInput{{ParticipationID: ids[0], AwardedMark: -1}})
		wantKind(t, err, KindInvalidScore)

		_, err = ledger.ScoreIndividualEvent(event.ID, []ScoreInput{{ParticipationID: ids[0], AwardedMark: 101}})
		wantKind(t, err, KindInvalidScore)
	})

	t.Run("skips entries for unknown participations", func(t *testing.T) {
		_, _, ledger, event, ids := setup(t)

		cards, err := ledger.ScoreIndividualEvent(event.ID, []ScoreInput{
			{ParticipationID: ids[0], AwardedMark: 70},
			{ParticipationID: 9999, AwardedMark: 80},
		})
		if err != nil {
			t.Fatalf("score: %v", err)
		}
		if len(cards) != 1 {
			t.Fatalf("got %d cards, want 1", len(cards))
		}
	})

	t.Run("scoring is append-only", func(t *testing.T) {
		f, _, ledger, event, ids := setup(t)

		input := []ScoreInput{{ParticipationID: ids[0], AwardedMark: 70}}
		if _, err := ledger.ScoreIndividualEvent(event.ID, input); err != nil {
			t.Fatalf("first score: %v", err)
		}
		if _, err := ledger.ScoreIndividualEvent(event.ID, input); err != nil {
			t.Fatalf("second score: %v", err)
		}

		var count int64
		if err := f.db.Model(&models.IndividualEventScoreCard{}).Count(&count).Error; err != nil {
			t.Fatalf("count cards: %v", err)
		}
		if count != 2 {
			t.Errorf("card count = %d, want 2", count)
		}
	})
}

func TestScoreGroupEvent(t *testing.T) {
	t.Run("group totals count rank points only", func(t *testing.T) {
		f := newFixture(t)
		ledger := NewLedger(f.db)

		cards, err := ledger.ScoreGroupEvent("Group Song", []GroupScoreInput{
			{ChestNumber: "GS001-01-001", AwardedMark: 92},
			{ChestNumber: "GS001-01-002", AwardedMark: 75},
		})
		if err != nil {
			t.Fatalf("score: %v", err)
		}

		if cards[0].TotalPoints != 5 {
			t.Errorf("winner total = %d, want 5 (rank points only)", cards[0].TotalPoints)
		}
		if cards[0].Grade != "A" {
			t.Errorf("winner grade = %q, want A", cards[0].Grade)
		}
		if cards[1].TotalPoints != 3 {
			t.Errorf("runner-up total = %d, want 3", cards[1].TotalPoints)
		}
	})
}

func TestRecordScores(t *testing.T) {
	t.Run("negative values are rejected", func(t *testing.T) {
		f := newFixture(t)
		ledger := NewLedger(f.db)

		_, err := ledger.RecordIndividualScore(1, -5, "A", 10)
		wantKind(t, err, KindInvalidScore)

		_, err = ledger.RecordIndividualScore(1, 50, "B", -1)
		wantKind(t, err, KindInvalidScore)

		_, err = ledger.RecordGroupScore("Group Song", "GS001-01-001", -1, "", 0)
		wantKind(t, err, KindInvalidScore)
	})

	t.Run("unknown participation is not found", func(t *testing.T) {
		f := newFixture(t)
		ledger := NewLedger(f.db)

		_, err := ledger.RecordIndividualScore(1234, 60, "A", 5)
		wantKind(t, err, KindNotFound)
	})
}

func TestTopResults(t *testing.T) {
	t.Run("orders by points then by first scored", func(t *testing.T) {
		f := newFixture(t)
		ledger := NewLedger(f.db)

		base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
		cards := []models.GroupEventScoreCard{
			{EventName: "Group Song", ChestNumber: "GS001-01-001", AwardedMark: 80, TotalPoints: 5, AddedOn: base.Add(2 * time.Minute)},
			{EventName: "Group Song", ChestNumber: "GS001-01-002", AwardedMark: 80, TotalPoints: 5, AddedOn: base},
			{EventName: "Group Song", ChestNumber: "GS001-01-003", AwardedMark: 70, TotalPoints: 3, AddedOn: base.Add(time.Minute)},
		}
		for i := range cards {
			if err := f.db.Create(&cards[i]).Error; err != nil {
				t.Fatalf("create card: %v", err)
			}
		}

		top, err := ledger.TopGroupResults("Group Song", 3)
		if err != nil {
			t.Fatalf("top results: %v", err)
		}
		wantOrder := []string{"GS001-01-002", "GS001-01-001", "GS001-01-003"}
		for i, card := range top {
			if card.ChestNumber != wantOrder[i] {
				t.Errorf("position %d = %q, want %q", i, card.ChestNumber, wantOrder[i])
			}
		}
	})

	t.Run("limit defaults to three", func(t *testing.T) {
		f := newFixture(t)
		ledger := NewLedger(f.db)

		for i := 0; i < 5; i++ {
			card := models.GroupEventScoreCard{
				EventName:   "Group Song",
				ChestNumber: "GS001-01-001",
				TotalPoints: i,
				AddedOn:     time.Now().UTC(),
			}
			if err := f.db.Create(&card).Error; err != nil {
				t.Fatalf("create card: %v", err)
			}
		}

		top, err := ledger.TopGroupResults("Group Song", 0)
		if err != nil {
			t.Fatalf("top results: %v", err)
		}
		if len(top) != 3 {
			t.Errorf("got %d results, want 3", len(top))
		}
	})
}

func TestBackfillGrades(t *testing.T) {
	f := newFixture(t)
	ledger := NewLedger(f.db)

	cards := []models.GroupEventScoreCard{
		{EventName: "Group Song", ChestNumber: "A", AwardedMark: 65, RankPoints: 5, TotalPoints: 5, AddedOn: time.Now().UTC()},
		{EventName: "Group Song", ChestNumber: "B", AwardedMark: 30, AddedOn: time.Now().UTC()},
	}
	for i := range cards {
		if err := f.db.Create(&cards[i]).Error; err != nil {
			t.Fatalf("create card: %v", err)
		}
	}

	updated, err := ledger.BackfillGrades()
	if err != nil {
		t.Fatalf("backfill: %v", err)
	}
	if updated != 1 {
		t.Errorf("updated = %d, want 1 (below-threshold marks stay ungraded)", updated)
	}

	var card models.GroupEventScoreCard
	if err := f.db.Where("chest_number = ?", "A").First(&card).Error; err != nil {
		t.Fatalf("load card: %v", err)
	}
	if card.Grade != "A" || card.GradePoints != 5 {
		t.Errorf("backfilled grade = %q/%d, want A/5", card.Grade, card.GradePoints)
	}
}
