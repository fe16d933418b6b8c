package repository

import "database/sql"

// DigestStore bundles the repositories one digest run reads and writes.
type DigestStore struct {
	*UserRepository
	*NewsRepository
	*EmailLogRepository
}

func NewDigestStore(db *sql.DB) *DigestStore {
	return &DigestStore{
		UserRepository:     NewUserRepository(db),
		NewsRepository:     NewNewsRepository(db),
		EmailLogRepository: NewEmailLogRepository(db),
	}
}
