package services

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"kalamela-backend/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	// A single in-memory sqlite database exists per connection.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.District{},
		&models.Unit{},
		&models.User{},
		&models.Member{},
		&models.ArchivedMember{},
		&models.ExclusionEntry{},
		&models.EventCategory{},
		&models.RegistrationFee{},
		&models.IndividualEvent{},
		&models.GroupEvent{},
		&models.IndividualEventParticipation{},
		&models.GroupEventParticipation{},
		&models.IndividualEventScoreCard{},
		&models.GroupEventScoreCard{},
		&models.Appeal{},
		&models.AppealPayment{},
		&models.KalamelaPayment{},
		&models.Rule{},
		&models.EventSchedule{},
	)
	if err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

type fixture struct {
	t  *testing.T
	db *gorm.DB

	memberSeq int
}

func newFixture(t *testing.T) *fixture {
	return &fixture{t: t, db: newTestDB(t)}
}

func (f *fixture) district(name string) *models.District {
	f.t.Helper()
	d := models.District{Name: name}
	if err := f.db.Create(&d).Error; err != nil {
		f.t.Fatalf("create district: %v", err)
	}
	return &d
}

func (f *fixture) unit(name string, districtID int) *models.Unit {
	f.t.Helper()
	u := models.Unit{Name: name, DistrictID: districtID}
	if err := f.db.Create(&u).Error; err != nil {
		f.t.Fatalf("create unit: %v", err)
	}
	return &u
}

func (f *fixture) official(email string, unit *models.Unit) *models.User {
	f.t.Helper()
	u := models.User{
		Email:      email,
		Name:       "Official " + email,
		Role:       models.RoleOfficial,
		UnitID:     unit.ID,
		DistrictID: unit.DistrictID,
	}
	if err := f.db.Create(&u).Error; err != nil {
		f.t.Fatalf("create official: %v", err)
	}
	return &u
}

// member creates a unit member born inside the default Junior window unless
// a DOB is given.
func (f *fixture) member(unitID int, gender models.Gender, dob ...time.Time) *models.Member {
	f.t.Helper()
	f.memberSeq++
	born := time.Date(2008, 5, 1, 0, 0, 0, 0, time.UTC)
	if len(dob) > 0 {
		born = dob[0]
	}
	m := models.Member{
		Name:   fmt.Sprintf("Member %d", f.memberSeq),
		Gender: gender,
		DOB:    &born,
		UnitID: unitID,
	}
	if err := f.db.Create(&m).Error; err != nil {
		f.t.Fatalf("create member: %v", err)
	}
	return &m
}

func (f *fixture) individualEvent(name string) *models.IndividualEvent {
	f.t.Helper()
	e := models.IndividualEvent{Name: name, IsActive: true}
	if err := f.db.Create(&e).Error; err != nil {
		f.t.Fatalf("create individual event: %v", err)
	}
	return &e
}

func (f *fixture) groupEvent(name string, maxPerDistrict, perUnit int) *models.GroupEvent {
	f.t.Helper()
	e := models.GroupEvent{
		Name:                name,
		IsActive:            true,
		MaxAllowedLimit:     maxPerDistrict,
		MinAllowedLimit:     1,
		PerUnitAllowedLimit: perUnit,
	}
	if err := f.db.Create(&e).Error; err != nil {
		f.t.Fatalf("create group event: %v", err)
	}
	return &e
}

func (f *fixture) rule(key, value string, category models.RuleCategory) {
	f.t.Helper()
	r := models.Rule{
		RuleKey:     key,
		Category:    category,
		RuleValue:   value,
		DisplayName: key,
		IsActive:    true,
	}
	if err := f.db.Create(&r).Error; err != nil {
		f.t.Fatalf("create rule: %v", err)
	}
}

func wantKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s rejection, got nil", kind)
	}
	if got := KindOf(err); got != kind {
		t.Fatalf("expected %s rejection, got %q (%v)", kind, got, err)
	}
}
