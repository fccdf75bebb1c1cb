package commands

// History command defaults
const (
	DefaultHistoryLimit = 10
	previewWidth        = 60
)

// Error messages
const (
	ErrHistoryStoreUnavailable  = "history store unavailable"
	ErrDoctorServiceUnavailable = "doctor service unavailable"
	ErrConfirmClear             = "refusing to clear history without --yes"
)

// Success messages
const (
	MsgConfigurationValid       = "Configuration valid"
	MsgNoDifferencesFromDefault = "No differences from default configuration."
	MsgNoHistoryRecorded        = "No history recorded yet."
	MsgHistoryCleared           = "History cleared."
)
