package settings

import "context"

type SettingsRepository interface {
	GetAll(ctx context.Context) ([]Setting, error)
	Get(ctx context.Context, key string) (Setting, error)
	Upsert(ctx context.Context, key, value string) error
}
