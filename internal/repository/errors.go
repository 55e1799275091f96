package repository

import (
	"errors"

	"petromatch/internal/database"
)

var ErrNotFound = errors.New("record not found")

func notFound(err error) error {
	if errors.Is(err, database.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
