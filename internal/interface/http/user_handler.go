package handlers

import (
	"context"
	"expvar"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/go-user-registration/internal/application"
	"github.com/oksasatya/go-user-registration/internal/domain/entity"
	"github.com/oksasatya/go-user-registration/internal/interface/middleware"
	"github.com/oksasatya/go-user-registration/pkg/helpers"
	"github.com/oksasatya/go-user-registration/pkg/response"
	"github.com/oksasatya/go-user-registration/pkg/validation"
)

const (
	greeting       = "User registration service is running"
	saveFailureMsg = "Failed to save user"
)

var (
	registrations        = expvar.NewInt("registrations_total")
	registrationFailures = expvar.NewMap("registration_failures")
)

// UserCreator is the write path the handler drives. *userapp.Service satisfies it.
type UserCreator interface {
	Create(ctx context.Context, in entity.UserInput) (*entity.User, error)
}

type UserHandler struct {
	Svc    UserCreator
	Logger *logrus.Logger
}

func NewUserHandler(svc UserCreator, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Index GET /
func (h *UserHandler) Index(c *gin.Context) {
	c.String(http.StatusOK, greeting)
}

// Register POST /register
// Every failure is reported to the client as the same 500; the cause is only logged.
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// An unreadable body is treated as an empty candidate so the store
		// rejects it like any other input with missing fields.
		h.logger(c).WithField("details", validation.ToDetails(err)).Debug("register payload not bound")
		req = registerRequest{}
	}

	u, err := h.Svc.Create(c.Request.Context(), entity.UserInput{Name: req.Name, Email: req.Email, Password: req.Password})
	if err != nil {
		helpers.LogError(h.logger(c), "failed to save user", err, logrus.Fields{
			"kind":  entity.Kind(err),
			"email": req.Email,
		})
		registrationFailures.Add(entity.Kind(err), 1)
		response.Error(c, http.StatusInternalServerError, saveFailureMsg)
		return
	}

	registrations.Add(1)
	response.Success(c, http.StatusOK, u)
}

func (h *UserHandler) logger(c *gin.Context) *logrus.Entry {
	l := h.Logger
	if l == nil {
		l = logrus.StandardLogger()
	}
	return l.WithField("request_id", c.GetString(middleware.CtxRequestIDKey))
}

var _ UserCreator = (*userapp.Service)(nil)
