// Package store persists the protocol singleton in the shared kv space.
package store

import (
	"context"
	"errors"

	"sovereign/internal/protocol/models"
	"sovereign/internal/storage/kv"
	dErrors "sovereign/pkg/domain-errors"
	"sovereign/pkg/platform/sentinel"
)

const (
	// ConfigKey holds the singleton record.
	ConfigKey = "protocol/config"
	// LockKey serializes every protocol-level write, including sovereign creation.
	LockKey = "protocol"
)

// Load returns the config or a not_found error when the protocol was never initialized.
func Load(ctx context.Context, r kv.Reader) (*models.Config, error) {
	cfg, err := kv.GetJSON[models.Config](ctx, r, ConfigKey)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "protocol is not initialized")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load protocol config")
	}
	return &cfg, nil
}

func Save(ctx context.Context, txn kv.Txn, cfg *models.Config) error {
	if err := kv.PutJSON(ctx, txn, ConfigKey, cfg); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save protocol config")
	}
	return nil
}
