// Package csv reads identifier records from a CSV file with a header row.
package csv

import (
	"context"
	stdcsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/custodia-labs/adsync/internal/core/domain"
	"github.com/custodia-labs/adsync/internal/core/ports/driven"
	"github.com/custodia-labs/adsync/internal/logger"
)

// Ensure Reader implements the interface.
var _ driven.RecordSource = (*Reader)(nil)

// DefaultEmailColumn is the header of the email column.
const DefaultEmailColumn = "Email"

// Reader yields one record per data row of a CSV file.
type Reader struct {
	path        string
	emailColumn string
}

// NewReader creates a reader for path. emailColumn is matched against the
// header case-insensitively; empty means DefaultEmailColumn.
func NewReader(path, emailColumn string) *Reader {
	if emailColumn == "" {
		emailColumn = DefaultEmailColumn
	}
	return &Reader{path: path, emailColumn: emailColumn}
}

// Records reads every data row. Rows too short to reach the email column
// yield an empty email.
func (r *Reader) Records(ctx context.Context) ([]domain.IdentifierRecord, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", r.path, err)
	}
	defer f.Close()

	return r.decode(ctx, f)
}

func (r *Reader) decode(ctx context.Context, in io.Reader) ([]domain.IdentifierRecord, error) {
	// BOMOverride drops a UTF-8 byte order mark so it cannot stick to the
	// first header name.
	cr := stdcsv.NewReader(transform.NewReader(in, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s is empty", domain.ErrInvalidInput, r.path)
	}
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", r.path, err)
	}

	col := columnIndex(header, r.emailColumn)
	if col < 0 {
		return nil, fmt.Errorf("%w: %s has no %q column", domain.ErrInvalidInput, r.path, r.emailColumn)
	}

	var records []domain.IdentifierRecord
	for row := 1; ; row++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", r.path, err)
		}

		rec := domain.IdentifierRecord{Row: row}
		if col < len(fields) {
			rec.Email = fields[col]
		}
		records = append(records, rec)
	}

	logger.Debug("Read %d rows from %s", len(records), r.path)
	return records, nil
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}
