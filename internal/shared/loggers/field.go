package loggers

const (
	FieldApp       = "app"
	FieldComponent = "component"

	FieldHttpMethod = "http_method"
	FieldHttpPath   = "http_path"
	FieldHttpStatus = "http_status"

	FieldDuration   = "duration"
	FieldRequestID  = "request_id"
	FieldErrorStack = "error_stack"
	FieldErrorCode  = "error_code"

	FieldSessionID  = "session_id"
	FieldBatchSize  = "batch_size"
	FieldEndpoint   = "endpoint"
	FieldStatusCode = "status_code"
	FieldEventKind  = "event_kind"
)
