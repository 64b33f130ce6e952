// Package session persists the teacher session between runs.
//
// The token and username live under the teacherToken and teacherUsername
// keys of the local metadata table. They are always written together and
// removed together.
package session

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mergington/signup/internal/client/models"
	"github.com/mergington/signup/internal/client/repositories/metadata"
	"github.com/mergington/signup/internal/common"
	"github.com/mergington/signup/internal/dbx"
)

// Store loads and saves the AuthSession.
type Store interface {
	Load(ctx context.Context) (models.AuthSession, error)
	Save(ctx context.Context, s models.AuthSession) error
}

// SQLStore keeps the session in the local SQLite database.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Load returns the stored session. A missing or empty token yields a
// logged-out session even if a username is stored.
func (s *SQLStore) Load(ctx context.Context) (models.AuthSession, error) {
	// One read, so the token and username come from the same snapshot.
	all, err := metadata.NewSQLiteRepository(s.db).List(ctx)
	if err != nil {
		return models.AuthSession{}, fmt.Errorf("load session: %w", err)
	}

	token := all[common.TokenStorageKey]
	if token == "" {
		return models.AuthSession{}, nil
	}
	return models.AuthSession{Token: token, Username: all[common.UsernameStorageKey]}, nil
}

// Save writes both keys when sess has a token and deletes both otherwise.
func (s *SQLStore) Save(ctx context.Context, sess models.AuthSession) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)

		if !sess.Authenticated() {
			if err := repo.Delete(ctx, common.TokenStorageKey); err != nil {
				return err
			}
			return repo.Delete(ctx, common.UsernameStorageKey)
		}

		if err := repo.Set(ctx, common.TokenStorageKey, sess.Token); err != nil {
			return err
		}
		return repo.Set(ctx, common.UsernameStorageKey, sess.Username)
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
