package portalclient

import "net/url"

const loginPath = "/login"

// Route describes one navigable path and its access requirements.
type Route struct {
	Path         string
	RequiresAuth bool
	RequiredRole string
}

// Decision is the outcome of a guard check: either proceed, or navigate
// somewhere else first.
type Decision struct {
	Allowed  bool
	Redirect string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func redirect(target string) Decision {
	return Decision{Redirect: target}
}

// Guard makes the same routing decisions the portal frontend makes: it
// gates protected routes on a stored session and per-route roles, and
// bounces logged-in users away from the login page.
type Guard struct {
	store *Store
}

func NewGuard(store *Store) *Guard {
	return &Guard{store: store}
}

// Check decides whether navigation to route may proceed.
func (g *Guard) Check(route Route) (Decision, error) {
	session, err := g.store.Load()
	if err != nil {
		return Decision{}, err
	}
	return Evaluate(route, session), nil
}

// Evaluate applies the routing rules to an already-loaded session.
func Evaluate(route Route, session *Session) Decision {
	loggedIn := session != nil && session.Token != ""

	if route.Path == loginPath {
		if loggedIn {
			return redirect("/")
		}
		return allow()
	}

	if route.RequiresAuth && !loggedIn {
		// carry the intended path so login can resume navigation
		return redirect(loginPath + "?redirect=" + url.QueryEscape(route.Path))
	}

	if route.RequiredRole != "" && !session.HasRole(route.RequiredRole) {
		return redirect("/")
	}

	return allow()
}
