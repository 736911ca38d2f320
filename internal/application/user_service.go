package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-registration/internal/domain/entity"
	repo "github.com/oksasatya/go-user-registration/internal/domain/repository"
	"github.com/oksasatya/go-user-registration/pkg/mailer"
	"github.com/oksasatya/go-user-registration/pkg/validation"
)

// JobPublisher enqueues background jobs. *helpers.RabbitPublisher satisfies it.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// Service is the user record store: it validates candidates, hashes the
// password once and persists the resulting document.
type Service struct {
	Repo         repo.UserRepository
	Hasher       entity.PasswordHasher
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESUsersIndex string
	Pub          JobPublisher
	AppName      string

	validate *validator.Validate
}

func NewService(repo repo.UserRepository, hasher entity.PasswordHasher, logger *logrus.Logger, es *elasticsearch.Client, esUsersIndex string, pub JobPublisher, appName string) *Service {
	return &Service{
		Repo:         repo,
		Hasher:       hasher,
		Logger:       logger,
		ES:           es,
		ESUsersIndex: esUsersIndex,
		Pub:          pub,
		AppName:      appName,
		validate:     validation.New(),
	}
}

// Create registers a new user. The returned user carries the store-assigned
// id and version and the password digest.
func (s *Service) Create(ctx context.Context, in entity.UserInput) (*entity.User, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, &entity.ValidationError{Fields: validation.ToDetails(err)}
	}

	digest, err := s.Hasher.Hash(in.Password)
	if err != nil {
		if !errors.Is(err, entity.ErrHashing) {
			err = fmt.Errorf("%w: %v", entity.ErrHashing, err)
		}
		return nil, err
	}

	u := &entity.User{Name: in.Name, Email: in.Email, Password: digest}
	if err := s.Repo.Insert(ctx, u); err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	s.afterCreate(ctx, u)
	return u, nil
}

// afterCreate runs side effects that must never fail a registration.
func (s *Service) afterCreate(ctx context.Context, u *entity.User) {
	s.indexUser(ctx, u)

	if s.Pub == nil {
		return
	}
	job := mailer.NewWelcomeJob(u.Email, u.Name, s.AppName)
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("failed to publish welcome email job")
	}
}

// indexUser projects the user into the search index. The digest is never
// indexed. Failures are logged here and not reported to the caller.
func (s *Service) indexUser(ctx context.Context, u *entity.User) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return
	}
	doc := map[string]any{
		"id":         u.ID,
		"email":      u.Email,
		"name":       u.Name,
		"created_at": u.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: u.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		if s.Logger != nil {
			s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
		}
	}
}
