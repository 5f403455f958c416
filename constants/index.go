package constants

const (
	ERROR_INPUT          = "Invalid input"
	ERROR_INTERNAL_ERROR = "Internal server error"
	ERROR_UPSTREAM       = "Upstream provider error"
	ERROR_NOT_FOUND      = "Not found"

	CAN_NOT_GET_CINEMAS    = "Can not get cinemas"
	CAN_NOT_GET_SHOWTIMES  = "Can not get showtimes"
	CAN_NOT_GET_LANDMARKS  = "Can not get landmarks"
	CAN_NOT_GET_POSTERS    = "Can not get movie posters"
	CAN_NOT_INGEST_POSTERS = "Can not ingest movie posters"

	// Locals keys set by the validate middlewares.
	LOCALS_QUERY = "query"
	LOCALS_BODY  = "body"

	// Cache namespaces.
	NS_CINEMAS   = "cinemas"
	NS_SHOWTIMES = "showtimes"
	NS_LANDMARKS = "landmarks"
)
