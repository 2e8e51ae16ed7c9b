package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/DanielSousa07/Backend-Ludus/app/echoServer"
	authctrl "github.com/DanielSousa07/Backend-Ludus/app/echoServer/controller/auth"
	engagementctrl "github.com/DanielSousa07/Backend-Ludus/app/echoServer/controller/engagement"
	favoritectrl "github.com/DanielSousa07/Backend-Ludus/app/echoServer/controller/favorite"
	gamectrl "github.com/DanielSousa07/Backend-Ludus/app/echoServer/controller/game"
	copyctrl "github.com/DanielSousa07/Backend-Ludus/app/echoServer/controller/gamecopy"
	rentalctrl "github.com/DanielSousa07/Backend-Ludus/app/echoServer/controller/rental"
	"github.com/DanielSousa07/Backend-Ludus/app/echoServer/validation"
	"github.com/DanielSousa07/Backend-Ludus/config"
	cooldownrepo "github.com/DanielSousa07/Backend-Ludus/repository/cooldown"
	copyrepo "github.com/DanielSousa07/Backend-Ludus/repository/copy"
	engagementrepo "github.com/DanielSousa07/Backend-Ludus/repository/engagement"
	favoriterepo "github.com/DanielSousa07/Backend-Ludus/repository/favorite"
	gamerepo "github.com/DanielSousa07/Backend-Ludus/repository/game"
	ludopediarepo "github.com/DanielSousa07/Backend-Ludus/repository/ludopedia"
	mailerrepo "github.com/DanielSousa07/Backend-Ludus/repository/mailer"
	rentalrepo "github.com/DanielSousa07/Backend-Ludus/repository/rental"
	twiliorepo "github.com/DanielSousa07/Backend-Ludus/repository/twilio"
	userrepo "github.com/DanielSousa07/Backend-Ludus/repository/user"
	authsvc "github.com/DanielSousa07/Backend-Ludus/service/auth"
	copysvc "github.com/DanielSousa07/Backend-Ludus/service/copy"
	engagementsvc "github.com/DanielSousa07/Backend-Ludus/service/engagement"
	favoritesvc "github.com/DanielSousa07/Backend-Ludus/service/favorite"
	gamesvc "github.com/DanielSousa07/Backend-Ludus/service/game"
	rentalsvc "github.com/DanielSousa07/Backend-Ludus/service/rental"
	"github.com/DanielSousa07/Backend-Ludus/util/database"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// repos
	ur := userrepo.New(db)
	gr := gamerepo.New(db)
	cr := copyrepo.New(db)
	rr := rentalrepo.New(db)
	er := engagementrepo.New(db)
	fr := favoriterepo.New(db)

	ludo := ludopediarepo.NewHTTP(cfg.LudopediaAPIKey)
	sms := twiliorepo.NewHTTP(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber)
	mail := mailerrepo.NewSMTP(cfg.SMTPServer, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	cooldown := cooldownrepo.NewRedis(cfg.RedisAddr, cfg.RedisPassword)

	// services
	es := engagementsvc.New(db, er)
	as := authsvc.New(ur, sms, mail, cooldown, cfg.JWTSecret, log)
	gs := gamesvc.New(db, gr, ludo)
	cs := copysvc.New(db, cr)
	rs := rentalsvc.New(db, rr, es, log)
	fs := favoritesvc.New(fr)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	gameC := &gamectrl.Controller{Svc: gs, V: v, Log: log}
	copyC := &copyctrl.Controller{Svc: cs, V: v, Log: log}
	rentalC := &rentalctrl.Controller{Svc: rs, V: v, Log: log}
	engC := &engagementctrl.Controller{Svc: es, Log: log}
	favC := &favoritectrl.Controller{Svc: fs, Log: log}

	e := echo.New()
	e.HideBanner = true
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	echoServer.Register(e, echoServer.C{
		Auth:       authC,
		Game:       gameC,
		Copy:       copyC,
		Rental:     rentalC,
		Engagement: engC,
		Favorite:   favC,

		Users:     ur,
		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	log.Info("starting server", "port", port, "env", cfg.Env)
	e.Logger.Fatal(e.Start(":" + port))
}
