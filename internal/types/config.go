package types

type RunMode string

const (
	// ModeLocal is the mode for running the API server and the housekeeper locally
	ModeLocal RunMode = "local"
	// ModeAPI is the mode for running just the API server
	ModeAPI RunMode = "api"
	// ModeHousekeeper is the mode for running just the scheduled housekeeping jobs
	ModeHousekeeper RunMode = "housekeeper"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
)
