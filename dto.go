package goredact

// HTTPData captures a request/response exchange for logging.
// When logged, header values under sensitive names are masked, the URL has
// its sensitive query parameters redacted and a JSON Body is sanitized
// field by field.
//
// Example:
//
//	data := goredact.HTTPData{
//		Method:     "POST",
//		URL:        "https://example.com/api/v1/login?captcha=8812",
//		StatusCode: 201,
//		Body:       `{"username":"alice","password":"hunter2"}`,
//	}
//	goredact.Info("trace-001", "http", goredact.MessageTypeRequest, "request completed", data)
type HTTPData struct {
	Method     string              `json:"method,omitempty"`
	URL        string              `json:"url,omitempty"`
	StatusCode int                 `json:"status_code,omitempty"`
	Headers    map[string][]string `json:"headers,omitempty"`
	Body       any                 `json:"body,omitempty"`
	Duration   string              `json:"duration,omitempty"`
	ClientIP   string              `json:"client_ip,omitempty"`
}

// GenericData is a free-form payload for interactions that do not fit HTTPData.
type GenericData struct {
	Service string `json:"service,omitempty"`
	Action  string `json:"action,omitempty"`
	Payload any    `json:"payload,omitempty"`
}
