// Package storage opens the contact repository selected by STORAGE_DRIVER.
package storage

import (
	"context"
	"contactmanager/contact"
	"contactmanager/dynamodb"
	"contactmanager/memory"
	"contactmanager/pkg/config"
	"contactmanager/postgres"
	"contactmanager/sqlite"
	"fmt"
	"strconv"
)

// Store is an open repository together with whatever must be released when
// the process is done with it.
type Store struct {
	contact.Repository
	Driver string
	close  func() error
}

func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

func PostgresOptions(cfg *config.Config) postgres.Options {
	return postgres.Options{
		DBName:   cfg.DB.Name,
		DBUser:   cfg.DB.User,
		Password: cfg.DB.Pass,
		Host:     cfg.DB.Host,
		Port:     strconv.Itoa(cfg.DB.Port),
		SSLMode:  cfg.DB.EnableSSL,
	}
}

func DynamoDBOptions(cfg *config.Config) dynamodb.Options {
	return dynamodb.Options{
		Region:       cfg.DynamoDB.Region,
		Endpoint:     cfg.DynamoDB.Endpoint,
		AccessKey:    cfg.DynamoDB.AccessKey,
		SecretKey:    cfg.DynamoDB.SecretKey,
		SessionToken: cfg.DynamoDB.SessionToken,
	}
}

func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.Storage {
	case config.StorageMemory, "":
		return &Store{Repository: memory.NewContactRepository(), Driver: config.StorageMemory}, nil

	case config.StoragePostgres:
		db, err := postgres.NewConnection(PostgresOptions(cfg))
		if err != nil {
			return nil, fmt.Errorf("storage: open postgres: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("storage: postgres pool: %w", err)
		}
		return &Store{
			Repository: postgres.NewContactRepository(db),
			Driver:     cfg.Storage,
			close:      sqlDB.Close,
		}, nil

	case config.StorageSQLite:
		repo, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("storage: %w", err)
		}
		return &Store{Repository: repo, Driver: cfg.Storage, close: repo.Close}, nil

	case config.StorageDynamoDB:
		client, err := dynamodb.NewClient(ctx, DynamoDBOptions(cfg))
		if err != nil {
			return nil, fmt.Errorf("storage: %w", err)
		}
		repo, err := dynamodb.NewContactRepository(client, cfg.DynamoDB.ContactsTable)
		if err != nil {
			return nil, fmt.Errorf("storage: %w", err)
		}
		if err := repo.Seed(ctx); err != nil {
			return nil, fmt.Errorf("storage: %w", err)
		}
		return &Store{Repository: repo, Driver: cfg.Storage}, nil
	}

	return nil, fmt.Errorf("storage: unknown driver %q", cfg.Storage)
}
