package repository

import (
	"errors"

	"github.com/lib/pq"
)

var ErrEmailTaken = errors.New("email already registered")

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
