package domain

// BackendHealth is the backend's answer to a health probe.
type BackendHealth struct {
	Status           string `json:"status"`
	Message          string `json:"message"`
	GeminiConfigured bool   `json:"gemini_configured"`
}

// OK reports whether the backend considers itself healthy.
func (h *BackendHealth) OK() bool {
	return h != nil && (h.Status == "OK" || h.Status == "ok")
}
