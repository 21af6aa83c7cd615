package postgres

import (
	"errors"

	"github.com/lib/pq"
)

// SQLSTATE codes mapped to domain errors.
const (
	codeForeignKeyViolation       pq.ErrorCode = "23503"
	codeInvalidTextRepresentation pq.ErrorCode = "22P02"
)

func hasCode(err error, codes ...pq.ErrorCode) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	for _, code := range codes {
		if pqErr.Code == code {
			return true
		}
	}
	return false
}
