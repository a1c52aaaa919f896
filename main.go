package main

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"kalamela-backend/controllers"
	"kalamela-backend/driver"
	"kalamela-backend/models"
	"kalamela-backend/services"
)

func migrate(db *gorm.DB) {
	err := db.AutoMigrate(
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
		log.WithError(err).Fatal("database migration failed")
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn("no .env file found, relying on environment")
	}
	if level, err := log.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	}
	if os.Getenv("SECRET") == "" {
		log.Fatal("SECRET variable is not set")
	}

	db := driver.ConnectDB()
	migrate(db)

	rules := services.NewRuleStore(db)
	registrar := services.NewRegistrar(db, rules)
	roster := services.NewRoster(db, rules)
	ledger := services.NewLedger(db)
	desk := services.NewAppealDesk(db, rules)
	payments := services.NewPayments(db, rules)
	stats := services.NewStatistics(db)
	scheduler := services.NewScheduler(db)

	auth := controllers.AuthController{DB: db}
	org := controllers.OrgController{DB: db}
	events := controllers.EventController{DB: db}
	participation := controllers.ParticipationController{DB: db, Registrar: registrar, Roster: roster}
	rosterCtl := controllers.RosterController{DB: db, Roster: roster}
	scoring := controllers.ScoringController{DB: db, Ledger: ledger, Stats: stats}
	appeal := controllers.AppealController{DB: db, Desk: desk}
	payment := controllers.PaymentController{DB: db, Payments: payments, Stats: stats}
	rulesCtl := controllers.RuleController{DB: db, Rules: rules}
	schedule := controllers.ScheduleController{DB: db, Scheduler: scheduler}

	router := mux.NewRouter()

	router.HandleFunc("/auth/login", auth.Login()).Methods("POST")
	router.HandleFunc("/auth/session", auth.Session()).Methods("GET")

	router.HandleFunc("/districts", org.GetDistricts()).Methods("GET")
	router.HandleFunc("/districts", org.CreateDistrict()).Methods("POST")
	router.HandleFunc("/units", org.GetUnits()).Methods("GET")
	router.HandleFunc("/units", org.CreateUnit()).Methods("POST")
	router.HandleFunc("/members", org.GetMembers()).Methods("GET")
	router.HandleFunc("/members", org.CreateMember()).Methods("POST")
	router.HandleFunc("/users", org.CreateUser()).Methods("POST")

	router.HandleFunc("/categories", events.GetCategories()).Methods("GET")
	router.HandleFunc("/categories", events.CreateCategory()).Methods("POST")
	router.HandleFunc("/fees", events.GetFees()).Methods("GET")
	router.HandleFunc("/fees", events.CreateFee()).Methods("POST")
	router.HandleFunc("/events/individual", events.GetIndividualEvents()).Methods("GET")
	router.HandleFunc("/events/individual", events.CreateIndividualEvent()).Methods("POST")
	router.HandleFunc("/events/group", events.GetGroupEvents()).Methods("GET")
	router.HandleFunc("/events/group", events.CreateGroupEvent()).Methods("POST")
	router.HandleFunc("/events/{id}/active", events.SetEventActive()).Methods("PUT")
	router.HandleFunc("/events/{id}/eligible", participation.EligibleMembers()).Methods("GET")

	router.HandleFunc("/participations/individual", participation.RegisterIndividual()).Methods("POST")
	router.HandleFunc("/participations/individual", participation.MyDistrictIndividual()).Methods("GET")
	router.HandleFunc("/participations/individual/{id}", participation.RemoveIndividual()).Methods("DELETE")
	router.HandleFunc("/participations/group", participation.RegisterGroupTeam()).Methods("POST")
	router.HandleFunc("/participations/group", participation.MyDistrictGroup()).Methods("GET")
	router.HandleFunc("/participations/group/{id}", participation.RemoveGroup()).Methods("DELETE")

	router.HandleFunc("/exclusions", rosterCtl.ListExclusions()).Methods("GET")
	router.HandleFunc("/exclusions", rosterCtl.ExcludeMember()).Methods("POST")
	router.HandleFunc("/exclusions/{id}", rosterCtl.RemoveExclusion()).Methods("DELETE")
	router.HandleFunc("/members/{id}/archive", rosterCtl.ArchiveMember()).Methods("POST")

	router.HandleFunc("/scores/individual", scoring.ScoreIndividualEvent()).Methods("POST")
	router.HandleFunc("/scores/group", scoring.ScoreGroupEvent()).Methods("POST")
	router.HandleFunc("/scores/recalculate/{id}", scoring.RecalculateRanks()).Methods("POST")
	router.HandleFunc("/scores/backfill-grades", scoring.BackfillGrades()).Methods("POST")
	router.HandleFunc("/results/individual", scoring.TopIndividualResults()).Methods("GET")
	router.HandleFunc("/results/group", scoring.TopGroupResults()).Methods("GET")
	router.HandleFunc("/results/champions", scoring.Champions()).Methods("GET")

	router.HandleFunc("/appeals", appeal.ListAppeals()).Methods("GET")
	router.HandleFunc("/appeals", appeal.FileAppeal()).Methods("POST")
	router.HandleFunc("/appeals/{id}/resolve", appeal.ResolveAppeal()).Methods("PUT")
	router.HandleFunc("/appeals/{id}/payment", appeal.SetAppealPaymentStatus()).Methods("PUT")

	router.HandleFunc("/payments", payment.ListPayments()).Methods("GET")
	router.HandleFunc("/payments", payment.CreatePayment()).Methods("POST")
	router.HandleFunc("/payments/mine", payment.MyDistrictPayment()).Methods("GET")
	router.HandleFunc("/payments/{id}/proof", payment.UploadProof()).Methods("PUT")
	router.HandleFunc("/payments/{id}/status", payment.SetPaymentStatus()).Methods("PUT")
	router.HandleFunc("/districts/{id}/statistics", payment.DistrictStatistics()).Methods("GET")

	router.HandleFunc("/rules", rulesCtl.ListRules()).Methods("GET")
	router.HandleFunc("/rules", rulesCtl.UpdateRule()).Methods("PUT")

	router.HandleFunc("/schedules", schedule.GetSchedules()).Methods("GET")
	router.HandleFunc("/schedules", schedule.CreateSchedule()).Methods("POST")
	router.HandleFunc("/schedules/{id}", schedule.Reschedule()).Methods("PUT")
	router.HandleFunc("/schedules/{id}/status", schedule.SetScheduleStatus()).Methods("PUT")

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	log.WithField("port", port).Info("server started")
	log.Fatal(http.ListenAndServe(":"+port, router))
}
