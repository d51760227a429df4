package route

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	zlog "github.com/rs/zerolog/log"

	"users-backend/api"
	"users-backend/config"
	"users-backend/db"
	"users-backend/docs"
	"users-backend/services"
	"users-backend/validator"
)

func Init(pool *db.Pool, configuration config.Configuration) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(logLevel(configuration.LOG_LEVEL))
	e.Validator = validator.New()
	e.HTTPErrorHandler = api.ErrorHandler

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	e.Use(requestLogger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.HEAD, echo.PUT, echo.POST, echo.DELETE},
	}))

	repo := services.NewUserRepository(pool)
	users := api.NewUserHandler(repo, services.NewSeeder(repo, 0))
	health := api.NewHealthHandler(pool)

	e.GET("/", api.Root)
	e.GET("/healthz", health.Check)

	// trailing slashes are stripped by the pre-router middleware, so
	// /users/ and /users both land here
	e.POST("/users", users.CreateUser)
	e.GET("/users", users.ListUsers)
	e.GET("/users/:id", users.DetailUser)
	e.PUT("/users/:id", users.UpdateUser)
	e.DELETE("/users/:id", users.DeleteUser)

	e.POST("/populate_50", users.Populate)

	if doc, err := docs.Load(); err != nil {
		zlog.Error().Err(err).Msg("API documentation disabled")
	} else {
		apiDocs := api.NewDocsHandler(doc)
		e.GET("/docs", apiDocs.UI)
		e.GET("/openapi.json", apiDocs.OpenAPIJSON)
		e.GET("/openapi.yaml", apiDocs.OpenAPIYAML)
	}

	return e
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := zlog.Info()
			if v.Error != nil {
				event = zlog.Warn().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}

func logLevel(level string) log.Lvl {
	switch level {
	case "trace", "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	default:
		return log.INFO
	}
}
