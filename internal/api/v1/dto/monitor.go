package dto

// ServiceStatus reports the availability of one dependency.
type ServiceStatus struct {
	Name           string  `json:"name"`
	Status         string  `json:"status"`
	Message        string  `json:"message"`
	ResponseTimeMs float64 `json:"response_time_ms"`
	Timestamp      float64 `json:"timestamp"`
}

// StatusResponse aggregates per-dependency checks. Status is "healthy" only
// when every service reports available, otherwise "degraded".
type StatusResponse struct {
	Status   string                   `json:"status"`
	Services map[string]ServiceStatus `json:"services"`
}

// HealthResponse is the minimal liveness body.
type HealthResponse struct {
	Status string `json:"status"`
}

// PingResponse confirms the authentication service is reachable.
type PingResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ServiceInfoResponse describes the API at its root path.
type ServiceInfoResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Docs    string `json:"docs"`
}
