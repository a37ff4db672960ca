package session

// Route names the screen a flow hands control to.
type Route string

const (
	RouteSignup  Route = "signup"
	RouteLogin   Route = "login"
	RouteScanner Route = "scanner"
	RouteChat    Route = "chat"
)
