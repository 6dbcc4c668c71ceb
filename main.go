package main

import (
	"log"

	"github.com/redis/go-redis/v9"
	"github.com/techagentng/complaintx/config"
	"github.com/techagentng/complaintx/db"
	"github.com/techagentng/complaintx/logging"
	"github.com/techagentng/complaintx/mailingservices"
	"github.com/techagentng/complaintx/realtime"
	"github.com/techagentng/complaintx/server"
	"github.com/techagentng/complaintx/services"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := logging.Init(conf); err != nil {
		log.Fatal(err)
	}
	defer logging.Logger.Sync()

	mailgunClient := &mailingservices.Mailgun{}
	mailgunClient.Init()

	var cache *redis.Client
	if conf.RedisAddr != "" {
		cache = redis.NewClient(&redis.Options{
			Addr:     conf.RedisAddr,
			Password: conf.RedisPassword,
		})
	}

	gormDB := db.GetDB(conf)
	userRepo := db.NewUserRepo(gormDB)
	complaintRepo := db.NewComplaintRepo(gormDB)
	pointsRepo := db.NewPointsRepo(gormDB)
	actionRepo := db.NewActionHistoryRepo(gormDB)
	withdrawalRepo := db.NewWithdrawalRepo(gormDB)
	analyticsRepo := db.NewAnalyticsRepo(gormDB)

	hub := realtime.NewHub()
	dispatcher := services.NewNotificationService(conf.GoogleApplicationCredentials)

	pointsService := services.NewPointsService(pointsRepo, conf)
	authService := services.NewAuthService(userRepo, conf)
	complaintService := services.NewComplaintService(complaintRepo, userRepo, pointsService, dispatcher, hub, mailgunClient, conf)
	withdrawalService := services.NewWithdrawalService(withdrawalRepo, actionRepo, pointsService, hub, conf)
	analyticsService := services.NewAnalyticsService(analyticsRepo, cache, conf)
	mediaService := services.NewMediaService(complaintRepo, conf)

	s := &server.Server{
		Config:               conf,
		Mail:                 mailgunClient,
		Hub:                  hub,
		UserRepository:       userRepo,
		ComplaintRepository:  complaintRepo,
		PointsRepository:     pointsRepo,
		ActionRepository:     actionRepo,
		WithdrawalRepository: withdrawalRepo,
		AuthService:          authService,
		ComplaintService:     complaintService,
		PointsService:        pointsService,
		WithdrawalService:    withdrawalService,
		AnalyticsService:     analyticsService,
		MediaService:         mediaService,
	}

	s.Start()
}
