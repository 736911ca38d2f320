package router

import (
	appuser "github.com/oksasatya/go-user-registration/internal/application"
	"github.com/oksasatya/go-user-registration/internal/container"
	handlers "github.com/oksasatya/go-user-registration/internal/interface/http"
	"github.com/oksasatya/go-user-registration/internal/interface/middleware"
	"github.com/oksasatya/go-user-registration/internal/router/modules"
	"github.com/oksasatya/go-user-registration/pkg/helpers"
)

// UserModuleDeps groups what the registration module is built from.
type UserModuleDeps struct {
	Service *appuser.Service
	Handler *handlers.UserHandler
}

func buildUserDeps(c *container.Container) UserModuleDeps {
	cfg := c.Config

	var pub appuser.JobPublisher
	if c.RabbitPub != nil {
		pub = c.RabbitPub
	}

	service := appuser.NewService(
		c.Users,
		helpers.BcryptHasher{Cost: helpers.PasswordCost},
		c.Logger,
		c.ES,
		cfg.ESUsersIndex,
		pub,
		cfg.AppName,
	)

	return UserModuleDeps{
		Service: service,
		Handler: handlers.NewUserHandler(service, c.Logger),
	}
}

// InitModules builds every module from the container and adds it to the registry.
// Call once during startup.
func InitModules(r *Registry, c *container.Container) {
	cfg := c.Config

	var allow middleware.AllowFunc
	if cfg.RateLimitAllowPrivate {
		allow = middleware.AllowPrivateIP()
	}
	registerLimiter := middleware.RateLimit(c.Redis, cfg.RegisterRateLimit, cfg.RateLimitWindow, middleware.KeyByIPAndPath(), allow, c.Logger)

	userDeps := buildUserDeps(c)
	r.Add(modules.New(userDeps.Handler, registerLimiter))

	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(middleware.RateLimit(c.Redis, 120, cfg.RateLimitWindow, middleware.KeyByIP(), allow, c.Logger)))
	}
}
