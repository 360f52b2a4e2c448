package subscriptions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/UnknownOlympus/hestia/internal/lib/logger/sl"
	"github.com/UnknownOlympus/hestia/internal/models"
	"github.com/UnknownOlympus/hestia/internal/repository"
)

var ErrInvalidSubscription = errors.New("invalid push subscription")

type browserSubscription struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}

type Service struct {
	log  *slog.Logger
	repo repository.SubscriptionRepoIface
}

func NewService(log *slog.Logger, repo repository.SubscriptionRepoIface) *Service {
	return &Service{log: log, repo: repo}
}

// Subscribe stores the browser registration document raw under department.
// An empty department falls back to callerDepartment and then to the default one.
// Registering the same endpoint again replaces the stored record.
func (s *Service) Subscribe(
	ctx context.Context,
	raw []byte,
	department, callerDepartment string,
) (models.PushSubscription, error) {
	var doc browserSubscription
	if err := json.Unmarshal(raw, &doc); err != nil {
		return models.PushSubscription{}, fmt.Errorf("%w: %w", ErrInvalidSubscription, err)
	}

	endpoint, err := url.Parse(doc.Endpoint)
	if err != nil || endpoint.Host == "" || (endpoint.Scheme != "https" && endpoint.Scheme != "http") {
		return models.PushSubscription{}, fmt.Errorf("%w: endpoint must be an absolute URL", ErrInvalidSubscription)
	}
	if doc.Keys.P256dh == "" || doc.Keys.Auth == "" {
		return models.PushSubscription{}, fmt.Errorf("%w: keys are required", ErrInvalidSubscription)
	}

	sub := models.PushSubscription{
		Endpoint:   doc.Endpoint,
		Department: pickDepartment(department, callerDepartment),
		Payload:    string(raw),
	}

	if err = s.repo.SaveSubscription(ctx, sub); err != nil {
		return models.PushSubscription{}, fmt.Errorf("failed to save subscription: %w", err)
	}

	s.log.InfoContext(ctx, "push subscription saved", slog.String("division", "subscriptions"),
		sl.Department(sub.Department))

	return sub, nil
}

func pickDepartment(candidates ...string) string {
	for _, dept := range candidates {
		if dept = strings.TrimSpace(dept); dept != "" {
			return dept
		}
	}

	return models.DefaultDepartment
}
