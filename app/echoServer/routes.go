package echoServer

import (
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/DanielSousa07/Backend-Ludus/app/echoServer/controller/auth"
	"github.com/DanielSousa07/Backend-Ludus/app/echoServer/controller/engagement"
	"github.com/DanielSousa07/Backend-Ludus/app/echoServer/controller/favorite"
	"github.com/DanielSousa07/Backend-Ludus/app/echoServer/controller/game"
	"github.com/DanielSousa07/Backend-Ludus/app/echoServer/controller/gamecopy"
	"github.com/DanielSousa07/Backend-Ludus/app/echoServer/controller/rental"
	userrepo "github.com/DanielSousa07/Backend-Ludus/repository/user"
)

type C struct {
	Auth       *auth.Controller
	Game       *game.Controller
	Copy       *gamecopy.Controller
	Rental     *rental.Controller
	Engagement *engagement.Controller
	Favorite   *favorite.Controller

	Users     userrepo.Repo
	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	e.POST("/auth/login", c.Auth.Login)
	e.POST("/auth/register", c.Auth.Register)
	e.POST("/auth/verify-email", c.Auth.VerifyEmail)
	e.POST("/auth/verify-phone", c.Auth.VerifyPhone)
	e.POST("/auth/resend-email-code", c.Auth.ResendEmailCode)
	e.POST("/auth/resend-code", c.Auth.ResendPhoneCode)

	e.GET("/games", c.Game.List)
	e.GET("/games/:id", c.Game.Detail)
	e.GET("/engagement/levels", c.Engagement.Levels)

	// Authenticated
	authed := e.Group("")
	authed.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(c.JWTSecret),
		TokenLookup: "header:Authorization:Bearer ",
		NewClaimsFunc: func(echo.Context) jwt.Claims {
			return jwt.MapClaims{}
		},
	}))
	authed.Use(ExtractIdentity())

	verified := RequireVerifiedEmail(c.Users)
	userOnly := BlockAdmins()

	authed.GET("/games/:id/can-rate", c.Game.CanRate)
	authed.POST("/games/:id/rating", c.Game.Rate, verified)

	authed.POST("/rentals", c.Rental.Create, verified, userOnly)
	authed.GET("/rentals/me", c.Rental.My)
	authed.PATCH("/rentals/:id/return", c.Rental.Return)

	authed.GET("/engagement/leaderboard", c.Engagement.Leaderboard)
	authed.GET("/engagement/me", c.Engagement.Me)

	authed.GET("/favorites", c.Favorite.List, userOnly)
	authed.POST("/favorites/:gameId", c.Favorite.Add, userOnly)
	authed.DELETE("/favorites/:gameId", c.Favorite.Remove, userOnly)
	authed.GET("/favorites/check/:gameId", c.Favorite.Check, userOnly)

	// Admin
	admin := authed.Group("", RequireAdmin())
	admin.GET("/games/search-ludopedia", c.Game.SearchLudopedia)
	admin.POST("/games", c.Game.Create)
	admin.PATCH("/games/:id", c.Game.Update)
	admin.DELETE("/games/:id", c.Game.Delete)

	admin.GET("/games/:id/copies", c.Copy.List)
	admin.POST("/games/:id/copies", c.Copy.Create)
	admin.PATCH("/games/copies/:copyId", c.Copy.Update)
	admin.DELETE("/games/copies/:copyId", c.Copy.Delete)

	admin.GET("/admin/rentals", c.Rental.AdminList)
	admin.PATCH("/admin/rentals/:id/status", c.Rental.SetStatus)
}
