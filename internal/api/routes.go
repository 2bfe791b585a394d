package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	registerAPIRoutes(app, handler)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Get("/setup-status", handler.SetupStatus)
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Get("/me", handler.AuthRequired, handler.Me)

	settings := api.Group("/settings", handler.AuthRequired)
	settings.Get("", handler.GetSettings)
	settings.Put("", handler.UpdateSettings)
	settings.Post("/reset", handler.ResetSettings)
	settings.Post("/onboarding", handler.CompleteOnboarding)
	settings.Post("/change-password", handler.ChangePassword)
	settings.Post("/clear-data", handler.ClearAllData)
	settings.Delete("/delete-account", handler.DeleteAccount)

	cycles := api.Group("/cycles", handler.AuthRequired)
	cycles.Get("", handler.ListCycles)
	cycles.Post("", handler.CreateCycle)
	cycles.Post("/check-overlap", handler.CheckCycleOverlap)
	cycles.Put("/:id", handler.UpdateCycle)
	cycles.Delete("/:id", handler.DeleteCycle)

	diary := api.Group("/diary", handler.AuthRequired)
	diary.Get("", handler.ListDiary)
	diary.Post("", handler.CreateDiaryEntry)
	diary.Put("/:id", handler.UpdateDiaryEntry)
	diary.Delete("/:id", handler.DeleteDiaryEntry)

	api.Get("/phase", handler.AuthRequired, handler.GetPhase)
	api.Get("/overview", handler.AuthRequired, handler.GetOverview)
	api.Get("/stats", handler.AuthRequired, handler.GetStats)
	api.Get("/calendar", handler.AuthRequired, handler.GetCalendar)
	api.Get("/days/:date", handler.AuthRequired, handler.GetDay)

	chat := api.Group("/chat", handler.AuthRequired)
	chat.Get("", handler.GetChat)
	chat.Post("", handler.SendChat)
	chat.Delete("", handler.ClearChat)

	export := api.Group("/export", handler.AuthRequired)
	export.Get("/summary", handler.ExportSummary)
	export.Get("/csv", handler.ExportCSV)
	export.Get("/json", handler.ExportJSON)

	api.Get("/events", handler.AuthRequired, handler.Events)
}
