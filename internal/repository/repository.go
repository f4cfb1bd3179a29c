// Package repository holds the GORM-backed implementations of the domain
// repository interfaces. Storage failures are wrapped in
// domain.ErrStorageUnavailable so callers can fail closed without knowing
// the driver.
package repository

import (
	"fmt"

	"github.com/clinicdesk/clinicdesk/internal/domain"
)

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrStorageUnavailable, op, err)
}
