package errors

// ErrorCode identifies a specific failure category. Codes are stable
// strings so they can be used as log fields and metric labels.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	CodeOK           ErrorCode = "OK"
	CodeUnknown      ErrorCode = "COMMON_000"
	CodeInternal     ErrorCode = "COMMON_001"
	CodeInvalidParam ErrorCode = "COMMON_002"
	CodeTimeout      ErrorCode = "COMMON_003"
	CodeRateLimited  ErrorCode = "COMMON_004"
	CodeParse        ErrorCode = "COMMON_005"
)

// Extraction pipeline error codes. The split mirrors the run's error
// policy: auth failures and a failed first search window abort the run,
// everything else degrades to empty fields for the affected call.
const (
	CodeAuthFailed          ErrorCode = "OPS_001"
	CodeSearchFailed        ErrorCode = "OPS_002"
	CodeDetailFetch         ErrorCode = "OPS_003"
	CodeClassificationFetch ErrorCode = "OPS_004"
	CodeRegisterFetch       ErrorCode = "OPS_005"
	CodeExportFailed        ErrorCode = "OPS_006"
)

// Fatal reports whether an error carrying this code must abort the
// extraction run. All other codes are recoverable at their call site.
func (c ErrorCode) Fatal() bool {
	return c == CodeAuthFailed
}
