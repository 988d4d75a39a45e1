package ledger

import (
	"fmt"

	"github.com/gyeh/carestats/internal/model"
	"github.com/gyeh/carestats/internal/table"
)

// EventColumnTypes declares dtypes for residency ledger columns. Date-like
// columns stay String so the loader can coerce every layout it knows.
var EventColumnTypes = map[string]table.Dtype{
	model.ColResidentID: table.Int64,
	model.ColSequenceNo: table.Int64,
	model.ColBirthYear:  table.NullableInt64,
}

// CertificationColumnTypes declares dtypes for certification ledger columns.
var CertificationColumnTypes = map[string]table.Dtype{
	model.ColResidentID:  table.Int64,
	model.ColValidMonths: table.NullableInt64,
	model.ColCareLevel:   table.NullableInt64,
}

var (
	requiredEventColumns = []string{model.ColResidentID, model.ColSequenceNo}

	requiredCertificationColumns = []string{
		model.ColResidentID,
		model.ColApplicationDate,
		model.ColDecisionDate,
		model.ColValidMonths,
	}
)

// MissingColumnError reports a required header absent from a ledger.
type MissingColumnError struct {
	Ledger string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s ledger: missing required column %q", e.Ledger, e.Column)
}

// ValidateEvents checks that a residency ledger has the columns the
// eligibility rules cannot do without.
func ValidateEvents(t *table.Table) error {
	return requireColumns(t, "residency", requiredEventColumns)
}

// ValidateCertifications checks the certification ledger headers.
func ValidateCertifications(t *table.Table) error {
	return requireColumns(t, "certification", requiredCertificationColumns)
}

func requireColumns(t *table.Table, ledger string, cols []string) error {
	for _, c := range cols {
		if !t.Has(c) {
			return &MissingColumnError{Ledger: ledger, Column: c}
		}
	}
	return nil
}
