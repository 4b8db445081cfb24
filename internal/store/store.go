// Package store persists the whole planner document under one fixed key,
// plus the list of named versions. Every save writes the full document; the
// last write wins.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"backstage/internal/domain"
)

var ErrNotFound = errors.New("not found")

const DefaultKey = "backstage"

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
	DriverRedis    Driver = "redis"
	DriverMemory   Driver = "memory"
)

type Store interface {
	// Load returns nil and no error when nothing has been saved yet.
	Load(ctx context.Context) (*domain.State, error)
	Save(ctx context.Context, s domain.State) error
	// ListVersions returns versions oldest first.
	ListVersions(ctx context.Context) ([]domain.Version, error)
	AppendVersion(ctx context.Context, v domain.Version) error
	GetVersion(ctx context.Context, id string) (domain.Version, error)
	DeleteVersion(ctx context.Context, id string) error
	Close() error
}

type Config struct {
	Driver Driver
	// Workspace is the directory holding the sqlite file when DSN is empty.
	Workspace     string
	DSN           string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Key           string
}

// Open builds the store selected by cfg.Driver.
func Open(ctx context.Context, cfg Config) (Store, error) {
	if cfg.Key == "" {
		cfg.Key = DefaultKey
	}
	switch cfg.Driver {
	case DriverSQLite, "":
		return OpenSQLite(ctx, cfg.Workspace, cfg.DSN, cfg.Key)
	case DriverPostgres:
		return OpenPostgres(ctx, cfg.DSN, cfg.Key)
	case DriverRedis:
		return OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.Key)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func encodeState(s domain.State) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return data, nil
}

func decodeState(data []byte) (*domain.State, error) {
	var s domain.State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	s.Normalize()
	return &s, nil
}

func encodeVersion(v domain.Version) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode version: %w", err)
	}
	return data, nil
}

func decodeVersion(data []byte) (domain.Version, error) {
	var v domain.Version
	if err := json.Unmarshal(data, &v); err != nil {
		return domain.Version{}, fmt.Errorf("decode version: %w", err)
	}
	v.State.Normalize()
	return v, nil
}

func sortVersions(vs []domain.Version) {
	sort.SliceStable(vs, func(i, j int) bool { return vs[i].CreatedAt < vs[j].CreatedAt })
}
