package authflow

// errorMessage maps the backend's callback error codes to user-facing text.
func errorMessage(code string) string {
	switch code {
	case "oauth_failed":
		return "OAuth authentication failed. Please try again."
	case "no_user":
		return "Could not retrieve user information."
	case "server_error":
		return "Server error occurred. Please try again later."
	default:
		return "An unknown error occurred."
	}
}
