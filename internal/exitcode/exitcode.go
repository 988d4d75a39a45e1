package exitcode

const (
	Success         = 0
	UsageError      = 1
	ValidationError = 2
	DBConnError     = 3
	CopyError       = 4
	SchemaMismatch  = 5
	ReconcileError  = 6
	OutputError     = 7
)
