package constants

import "fmt"

// ============================================================================
// REPORT REQUEST ERRORS
// ============================================================================

const (
	ErrInvalidStartDate   = "Invalid start date: %s"
	ErrInvalidEndDate     = "Invalid end date: %s"
	ErrPeriodReversed     = "Start date must not be after end date"
	ErrPartialPeriod      = "Both start and end dates are required for a custom period"
	ErrUnknownPurpose     = "Unknown service purpose: %s"
	ErrUnknownAppType     = "Unknown application type: %s"
	ErrSnapshotNotLoaded  = "File entries have not been loaded yet. Please try again shortly"
	ErrExportFailed       = "Failed to generate the Excel workbook"
	ErrSnapshotRefreshBad = "Failed to refresh file entries: %s"
	ErrFileEntryNotFound  = "File entry not found: %s"
	ErrFileEntryLookup    = "Failed to look up file entry: %s"
)

// ============================================================================
// UPLOAD ERRORS
// ============================================================================

const (
	ErrFileRequired        = "file is required"
	ErrFileTooLarge        = "Uploaded file exceeds the %d MB limit"
	ErrUnsupportedFile     = "Unsupported file type. Please upload .xlsx, .xls or .csv"
	ErrRegisterParseFailed = "Failed to read register: %s"
)

// ============================================================================
// SUCCESS MESSAGES
// ============================================================================

const (
	SuccessUploaded  = "File uploaded successfully. %d file entries processed"
	SuccessRefreshed = "File entries refreshed"
)

// FormatError formats an error message with additional context
func FormatError(baseError string, context ...interface{}) string {
	if len(context) == 0 {
		return baseError
	}
	return fmt.Sprintf(baseError, context...)
}
