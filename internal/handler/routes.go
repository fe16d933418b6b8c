package handler

import "github.com/gin-gonic/gin"

type Handlers struct {
	Auth     *AuthHandler
	Stocks   *StockHandler
	News     *NewsHandler
	Settings *SettingsHandler
	Cron     *CronHandler
	Health   *HealthHandler
}

func RegisterRoutes(r *gin.Engine, h Handlers, tokens TokenVerifier) {
	r.GET("/health", h.Health.GetHealth)

	api := r.Group("/api")
	api.POST("/auth/signup", h.Auth.Signup)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/logout", h.Auth.Logout)
	api.GET("/stocks/search", h.Stocks.Search)
	api.POST("/cron/daily-digest", h.Cron.DailyDigest)

	private := api.Group("", RequireAuth(tokens))
	private.GET("/auth/me", h.Auth.Me)
	private.PUT("/auth/profile", h.Auth.UpdateProfile)
	private.PUT("/auth/password", h.Auth.ChangePassword)
	private.DELETE("/auth/delete", h.Auth.DeleteAccount)

	private.GET("/stocks", h.Stocks.ListStocks)
	private.POST("/stocks", h.Stocks.AddStock)
	private.DELETE("/stocks/:stockId", h.Stocks.RemoveStock)

	private.GET("/news", h.News.ListNews)
	private.POST("/news", h.News.RefreshNews)

	private.PUT("/settings", h.Settings.UpdateSettings)
	private.POST("/email/test", h.Settings.SendTestEmail)
}
