// Package seed provides the directory used the first time the session store
// runs against an empty persistent store.
package seed

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/dmitrijs2005/kodjobs/internal/client/models"
	"github.com/dmitrijs2005/kodjobs/internal/common"
)

//go:embed users.json
var bundled []byte

// Default returns the bundled demo directory.
func Default() ([]models.UserRecord, error) {
	users, err := models.DecodeDirectory(bundled)
	if err != nil {
		return nil, fmt.Errorf("bundled seed: %w", err)
	}
	if err := uniqueEmails(users); err != nil {
		return nil, fmt.Errorf("bundled seed: %w", err)
	}
	return users, nil
}

// Load reads a directory from path. An empty path yields Default(). A
// directory with duplicate emails is rejected with common.ErrEmailTaken.
func Load(path string) ([]models.UserRecord, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed %s: %w", path, err)
	}
	users, err := models.DecodeDirectory(data)
	if err != nil {
		return nil, fmt.Errorf("decode seed %s: %w", path, err)
	}
	if err := uniqueEmails(users); err != nil {
		return nil, fmt.Errorf("seed %s: %w", path, err)
	}
	return users, nil
}

// uniqueEmails rejects a directory in which two users share an email.
func uniqueEmails(users []models.UserRecord) error {
	seen := make(map[string]models.ID, len(users))
	for _, u := range users {
		if id, ok := seen[u.Email]; ok {
			return fmt.Errorf("%w: %q used by %s and %s", common.ErrEmailTaken, u.Email, id, u.ID)
		}
		seen[u.Email] = u.ID
	}
	return nil
}
