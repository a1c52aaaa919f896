package services

import (
	"fmt"
	"testing"

	"kalamela-backend/models"
)

func TestRegisterIndividual(t *testing.T) {
	t.Run("allocates a chest number and stores the registration", func(t *testing.T) {
		f := newFixture(t)
		district := f.district("Malappuram")
		unit := f.unit("Unit A", district.ID)
		official := f.official("a@unit.org", unit)
		member := f.member(unit.ID, models.GenderMale)
		event := f.individualEvent("Elocution")

		registrar := NewRegistrar(f.db, NewRuleStore(f.db))
		p, err := registrar.RegisterIndividual(event.ID, member.ID, official.ID, models.SeniorityJunior)
		if err != nil {
			t.Fatalf("register: %v", err)
		}

		want := fmt.Sprintf("J%03d-%02d-001", event.ID, district.ID)
		if p.ChestNumber != want {
			t.Errorf("chest number = %q, want %q", p.ChestNumber, want)
		}
		if p.SeniorityCategory != models.SeniorityJunior {
			t.Errorf("seniority = %q, want Junior", p.SeniorityCategory)
		}
	})

	t.Run("chest numbers increment per event, district and bucket", func(t *testing.T) {
		f := newFixture(t)
		district := f.district("Kannur")
		unit := f.unit("Unit A", district.ID)
		official := f.official("a@unit.org", unit)
		event := f.individualEvent("Essay Writing")

		f.rule(ruleMaxPerDistrictPerSeniority, "5", models.RuleParticipationLimit)
		registrar := NewRegistrar(f.db, NewRuleStore(f.db))

		for i := 1; i <= 3; i++ {
			member := f.member(unit.ID, models.GenderMale)
			p, err := registrar.RegisterIndividual(event.ID, member.ID, official.ID, models.SeniorityJunior)
			if err != nil {
				t.Fatalf("register %d: %v", i, err)
			}
			want := fmt.Sprintf("J%03d-%02d-%03d", event.ID, district.ID, i)
			if p.ChestNumber != want {
				t.Errorf("chest number %d = %q, want %q", i, p.ChestNumber, want)
			}
		}
	})

	t.Run("senior bucket uses the S prefix", func(t *testing.T) {
		f := newFixture(t)
		unit := f.unit("Unit A", f.district("Idukki").ID)
		official := f.official("a@unit.org", unit)
		member := f.member(unit.ID, models.GenderFemale)
		event := f.individualEvent("Recitation")

		registrar := NewRegistrar(f.db, NewRuleStore(f.db))
		p, err := registrar.RegisterIndividual(event.ID, member.ID, official.ID, models.SenioritySenior)
		if err != nil {
			t.Fatalf("register: %v", err)
		}
		if p.ChestNumber[0] != 'S' {
			t.Errorf("chest number = %q, want S prefix", p.ChestNumber)
		}
	})

	t.Run("rejects an excluded member", func(t *testing.T) {
		f := newFixture(t)
		unit := f.unit("Unit A", f.district("Kollam").ID)
		official := f.official("a@unit.org", unit)
		member := f.member(unit.ID, models.GenderMale)
		event := f.individualEvent("Elocution")

		if err := f.db.Create(&models.ExclusionEntry{MemberID: member.ID}).Error; err != nil {
			t.Fatalf("create exclusion: %v", err)
		}

		registrar := NewRegistrar(f.db, NewRuleStore(f.db))
		_, err := registrar.RegisterIndividual(event.ID, member.ID, official.ID, models.SeniorityJunior)
		wantKind(t, err, KindExcluded)
	})

	t.Run("rejects a duplicate registration for the same event", func(t *testing.T) {
		f := newFixture(t)
		unit := f.unit("Unit A", f.district("Wayanad").ID)
		official := f.official("a@unit.org", unit)
		member := f.member(unit.ID, models.GenderMale)
		event := f.individualEvent("Elocution")

		registrar := NewRegistrar(f.db, NewRuleStore(f.db))
		if _, err := registrar.RegisterIndividual(event.ID, member.ID, official.ID, models.SeniorityJunior); err != nil {
			t.Fatalf("first register: %v", err)
		}
		_, err := registrar.RegisterIndividual(event.ID, member.ID, official.ID, models.SeniorityJunior)
		wantKind(t, err, KindDuplicateMember)
	})

	t.Run("rejects the sixth event for one member", func(t *testing.T) {
		f := newFixture(t)
		unit := f.unit("Unit A", f.district("Thrissur").ID)
		official := f.official("a@unit.org", unit)
		member := f.member(unit.ID, models.GenderMale)

		registrar := NewRegistrar(f.db, NewRuleStore(f.db))
		for i := 1; i <= 5; i++ {
			event := f.individualEvent(fmt.Sprintf("Event %d", i))
			if _, err := registrar.RegisterIndividual(event.ID, member.ID, official.ID, models.SeniorityJunior); err != nil {
				t.Fatalf("register event %d: %v", i, err)
			}
		}

		sixth := f.individualEvent("Event 6")
		_, err := registrar.RegisterIndividual(sixth.ID, member.ID, official.ID, models.SeniorityJunior)
		wantKind(t, err, KindPersonEventCap)
	})

	t.Run("rejects the third registration per district and seniority", func(t *testing.T) {
		f := newFixture(t)
		district := f.district("Palakkad")
		unitA := f.unit("Unit A", district.ID)
		unitB := f.unit("Unit B", district.ID)
		officialA := f.official("a@unit.org", unitA)
		officialB := f.official("b@unit.org", unitB)
		event := f.individualEvent("Elocution")

		registrar := NewRegistrar(f.db, NewRuleStore(f.db))
		if _, err := registrar.RegisterIndividual(event.ID, f.member(unitA.ID, models.GenderMale).ID, officialA.ID, models.SeniorityJunior); err != nil {
			t.Fatalf("first register: %v", err)
		}
		if _, err := registrar.RegisterIndividual(event.ID, f.member(unitB.ID, models.GenderMale).ID, officialB.ID, models.SeniorityJunior); err != nil {
			t.Fatalf("second register: %v", err)
		}

		_, err := registrar.RegisterIndividual(event.ID, f.member(unitA.ID, models.GenderMale).ID, officialA.ID, models.SeniorityJunior)
		wantKind(t, err, KindDistrictQuota)
	})

	t.Run("district quota is tracked per seniority bucket", func(t *testing.T) {
		f := newFixture(t)
		unit := f.unit("Unit A", f.district("Kottayam").ID)
		official := f.official("a@unit.org", unit)
		event := f.individualEvent("Elocution")

		registrar := NewRegistrar(f.db, NewRuleStore(f.db))
		for i := 0; i < 2; i++ {
			if _, err := registrar.RegisterIndividual(event.ID, f.member(unit.ID, models.GenderMale).ID, official.ID, models.SeniorityJunior); err != nil {
				t.Fatalf("junior register %d: %v", i, err)
			}
		}

		// Junior slots are full; a senior still gets in.
		if _, err := registrar.RegisterIndividual(event.ID, f.member(unit.ID, models.GenderMale).ID, official.ID, models.SenioritySenior); err != nil {
			t.Fatalf("senior register: %v", err)
		}
	})

	t.Run("a rule override raises the district cap", func(t *testing.T) {
		f := newFixture(t)
		unit := f.unit("Unit A", f.district("Alappuzha").ID)
		official := f.official("a@unit.org", unit)
		event := f.individualEvent("Elocution")
		f.rule(ruleMaxPerDistrictPerSeniority, "3", models.RuleParticipationLimit)

		registrar := NewRegistrar(f.db, NewRuleStore(f.db))
		for i := 0; i < 3; i++ {
			if _, err := registrar.RegisterIndividual(event.ID, f.member(unit.ID, models.GenderMale).ID, official.ID, models.SeniorityJunior); err != nil {
				t.Fatalf("register %d: %v", i, err)
			}
		}
		_, err := registrar.RegisterIndividual(event.ID, f.member(unit.ID, models.GenderMale).ID, official.ID, models.SeniorityJunior)
		wantKind(t, err, KindDistrictQuota)
	})

	t.Run("unknown participant and event are reported as not found", func(t *testing.T) {
		f := newFixture(t)
		unit := f.unit("Unit A", f.district("Kozhikode").ID)
		official := f.official("a@unit.org", unit)
		member := f.member(unit.ID, models.GenderMale)
		event := f.individualEvent("Elocution")

		registrar := NewRegistrar(f.db, NewRuleStore(f.db))

		_, err := registrar.RegisterIndividual(event.ID, member.ID+999, official.ID, models.SeniorityJunior)
		wantKind(t, err, KindNotFound)

		_, err = registrar.RegisterIndividual(event.ID+999, member.ID, official.ID, models.SeniorityJunior)
		wantKind(t, err, KindNotFound)
	})
}

func TestRegisterGroupTeam(t *testing.T) {
	t.Run("teammates from one unit share a chest number", func(t *testing.T) {
		f := newFixture(t)
		district := f.district("Ernakulam")
		unit := f.unit("Unit A", district.ID)
		official := f.official("a@unit.org", unit)
		event := f.groupEvent("Group Song (Boys)", 10, 5)

		registrar := NewRegistrar(f.db, NewRuleStore(f.db))
		first, err := registrar.RegisterGroupTeam(event.ID,
			[]int{f.member(unit.ID, models.GenderMale).ID, f.member(unit.ID, models.GenderMale).ID}, official.ID)
		if err != nil {
			t.Fatalf("first register: %v", err)
		}

		want := fmt.Sprintf("GS%03d-%02d-001", event.ID, district.ID)
		for _, row := range first {
			if row.ChestNumber != want {
				t.Errorf("chest number = %q, want %q", row.ChestNumber, want)
			}
		}

		// A later addition from the same unit reuses the team chest number.
		later, err := registrar.RegisterGroupTeam(event.ID,
			[]int{f.member(unit.ID, models.GenderMale).ID}, official.ID)
		if err != nil {
			t.Fatalf("later register: %v", err)
		}
		if later[0].ChestNumber != want {
			t.Errorf("later chest number = %q, want %q", later[0].ChestNumber, want)
		}
	})

	t.Run("a second unit gets the next team number", func(t *testing.T) {
		f := newFixture(t)
		district := f.district("Thiruvananthapuram")
		unitA := f.unit("Unit A", district.ID)
		unitB := f.unit("Unit B", district.ID)
		event := f.groupEvent("Group Dance", 10, 5)

		registrar := NewRegistrar(f.db, NewRuleStore(f.db))
		if _, err := registrar.RegisterGroupTeam(event.ID,
			[]int{f.member(unitA.ID, models.GenderFemale).ID}, f.official("a@unit.org", unitA).ID); err != nil {
			t.Fatalf("unit A register: %v", err)
		}

		rows, err := registrar.RegisterGroupTeam(event.ID,
			[]int{f.member(unitB.ID, models.GenderFemale).ID}, f.official("b@unit.org", unitB).ID)
		if err != nil {
			t.Fatalf("unit B register: %v", err)
		}
		want := fmt.Sprintf("GD%03d-%02d-002", event.ID, district.ID)
		if rows[0].ChestNumber != want {
			t.Errorf("chest number = %q, want %q", rows[0].ChestNumber, want)
		}
	})

	t.Run("district cap counts teams, not members", func(t *testing.T) {
		f := newFixture(t)
		district := f.district("Kasaragod")
		unitA := f.unit("Unit A", district.ID)
		unitB := f.unit("Unit B", district.ID)
		unitC := f.unit("Unit C", district.ID)
		event := f.groupEvent("Group Song", 2, 5)

		registrar := NewRegistrar(f.db, NewRuleStore(f.db))

		// A full team from one unit is a single team against the cap.
		officialA := f.official("a@unit.org", unitA)
		if _, err := registrar.RegisterGroupTeam(event.ID, []int{
			f.member(unitA.ID, models.GenderMale).ID,
			f.member(unitA.ID, models.GenderMale).ID,
			f.member(unitA.ID, models.GenderMale).ID,
		}, officialA.ID); err != nil {
			t.Fatalf("first team register: %v", err)
		}

		if _, err := registrar.RegisterGroupTeam(event.ID,
			[]int{f.member(unitB.ID, models.GenderMale).ID}, f.official("b@unit.org", unitB).ID); err != nil {
			t.Fatalf("second team register: %v", err)
		}

		// A third team in the district exceeds the cap.
		_, err := registrar.RegisterGroupTeam(event.ID,
			[]int{f.member(unitC.ID, models.GenderMale).ID}, f.official("c@unit.org", unitC).ID)
		wantKind(t, err, KindDistrictQuota)

		// Joining an existing team is not a new team and stays allowed.
		if _, err := registrar.RegisterGroupTeam(event.ID,
			[]int{f.member(unitA.ID, models.GenderMale).ID}, officialA.ID); err != nil {
			t.Fatalf("join existing team: %v", err)
		}
	})

	t.Run("rejects when the batch would exceed the unit cap", func(t *testing.T) {
		f := newFixture(t)
		unit := f.unit("Unit A", f.district("Pathanamthitta").ID)
		official := f.official("a@unit.org", unit)
		event := f.groupEvent("Group Song", 10, 1)

		registrar := NewRegistrar(f.db, NewRuleStore(f.db))
		if _, err := registrar.RegisterGroupTeam(event.ID,
			[]int{f.member(unit.ID, models.GenderMale).ID}, official.ID); err != nil {
			t.Fatalf("first register: %v", err)
		}
		_, err := registrar.RegisterGroupTeam(event.ID,
			[]int{f.member(unit.ID, models.GenderMale).ID}, official.ID)
		wantKind(t, err, KindUnitQuota)
	})

	t.Run("rejects excluded and duplicate members in the batch", func(t *testing.T) {
		f := newFixture(t)
		unit := f.unit("Unit A", f.district("Malappuram").ID)
		official := f.official("a@unit.org", unit)
		event := f.groupEvent("Group Song", 10, 5)

		registrar := NewRegistrar(f.db, NewRuleStore(f.db))

		excluded := f.member(unit.ID, models.GenderMale)
		if err := f.db.Create(&models.ExclusionEntry{MemberID: excluded.ID}).Error; err != nil {
			t.Fatalf("create exclusion: %v", err)
		}
		_, err := registrar.RegisterGroupTeam(event.ID,
			[]int{f.member(unit.ID, models.GenderMale).ID, excluded.ID}, official.ID)
		wantKind(t, err, KindExcluded)

		registered := f.member(unit.ID, models.GenderMale)
		if _, err := registrar.RegisterGroupTeam(event.ID, []int{registered.ID}, official.ID); err != nil {
			t.Fatalf("register: %v", err)
		}
		_, err = registrar.RegisterGroupTeam(event.ID, []int{registered.ID}, official.ID)
		wantKind(t, err, KindDuplicateMember)
	})

	t.Run("rejects a batch with an unknown member", func(t *testing.T) {
		f := newFixture(t)
		unit := f.unit("Unit A", f.district("Kannur").ID)
		official := f.official("a@unit.org", unit)
		event := f.groupEvent("Group Song", 10, 5)

		registrar := NewRegistrar(f.db, NewRuleStore(f.db))
		_, err := registrar.RegisterGroupTeam(event.ID,
			[]int{f.member(unit.ID, models.GenderMale).ID, 9999}, official.ID)
		wantKind(t, err, KindNotFound)
	})
}

func TestEventAbbreviation(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Group Song", "GS"},
		{"Group Dance (Girls)", "GD"},
		{"(Mixed) Group Drill", "MG"},
		{"Drama", "D"},
		{"", "G"},
	}
	for _, tc := range cases {
		if got := eventAbbreviation(tc.name); got != tc.want {
			t.Errorf("eventAbbreviation(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}
