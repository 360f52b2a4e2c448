package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/UnknownOlympus/hestia/internal/models"
)

// SaveSubscription stores a push registration. Subscribing again with a known endpoint
// replaces its department and payload.
func (r *Repository) SaveSubscription(ctx context.Context, sub models.PushSubscription) error {
	defer r.observe("save_subscription", time.Now())

	query := `
		INSERT INTO push_subscriptions (endpoint, department, subscription)
		VALUES ($1, $2, $3)
		ON CONFLICT (endpoint) DO UPDATE SET department = EXCLUDED.department, subscription = EXCLUDED.subscription;`

	_, err := r.db.Exec(ctx, query, sub.Endpoint, sub.Department, sub.Payload)
	if err != nil {
		return fmt.Errorf("failed to save push subscription: %w", err)
	}

	return nil
}

// ListSubscriptionsByDepartment returns every push registration of a department.
func (r *Repository) ListSubscriptionsByDepartment(
	ctx context.Context,
	department string,
) ([]models.PushSubscription, error) {
	defer r.observe("list_subscriptions", time.Now())

	query := `SELECT endpoint, department, subscription FROM push_subscriptions WHERE department = $1 ORDER BY id`

	rows, err := r.db.Query(ctx, query, department)
	if err != nil {
		return nil, fmt.Errorf("failed to list push subscriptions of '%s': %w", department, err)
	}
	defer rows.Close()

	subs := make([]models.PushSubscription, 0)
	for rows.Next() {
		var sub models.PushSubscription
		if err = rows.Scan(&sub.Endpoint, &sub.Department, &sub.Payload); err != nil {
			return nil, fmt.Errorf("failed to scan push subscription: %w", err)
		}
		subs = append(subs, sub)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate over push subscriptions: %w", err)
	}

	return subs, nil
}

// DeleteSubscription removes the registration identified by endpoint.
func (r *Repository) DeleteSubscription(ctx context.Context, endpoint string) error {
	defer r.observe("delete_subscription", time.Now())

	_, err := r.db.Exec(ctx, "DELETE FROM push_subscriptions WHERE endpoint = $1", endpoint)
	if err != nil {
		return fmt.Errorf("failed to delete push subscription: %w", err)
	}

	return nil
}
