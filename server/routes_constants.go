package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Auth Routes - Login, Callback & Logout
	RouteAuthLogin  = "/auth/login"
	RouteAuthLogout = "/auth/logout"
	RouteCallback   = "/auth"

	// API Routes
	RouteUserInfo   = "/api/user/info"
	RouteResumeLink = "/api/resume/link"

	// Download Routes
	RouteDownloadResume = "/download/{token}/resume.pdf"

	// Internal Routes (API key guarded)
	RouteInternalSessionPurge = "/internal/sessions/{username}"
)
