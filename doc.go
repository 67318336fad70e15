// Package travessera turns declarative endpoint registrations into HTTP
// calls. A host application describes each remote operation once (service,
// method, path template, parameter declaration) and gets back an invocable
// endpoint that runs the whole pipeline:
//
//   - Parameter classification: path placeholders, query parameters and the
//     request body are derived from the declaration, once, at registration
//   - Config cascade: endpoint beats service beats global defaults for
//     timeout, retry policy, serializer and headers
//   - Request building: deterministic URL, query and header assembly with
//     pluggable per-call header factories and body transforms
//   - Response handling: status mapping to a typed error taxonomy, custom
//     per-status error maps, JSON decoding into caller values
//   - Retries with deterministic exponential backoff over network and
//     server failures
//
// Design goals:
//   - Declarations are data, not reflection: what an endpoint sends and
//     expects is visible at the registration site
//   - All I/O behind the Transport interface; everything else is pure and
//     deterministic given its inputs
//   - Safe concurrent use of a single *Travessera instance
//   - Observability as optional collaborators: Prometheus metrics and
//     structured debug logging are off unless configured
//
// Typical usage:
//
//	users, _ := travessera.NewService(travessera.ServiceConfig{
//	    Name:    "users",
//	    BaseURL: "https://api.example.com",
//	    Timeout: 5 * time.Second,
//	})
//	t, _ := travessera.New([]*travessera.Service{users})
//	getUser, _ := t.Get("users", "/users/{user_id}", travessera.Function{
//	    Name:    "get_user",
//	    Params:  []travessera.Param{travessera.Required("user_id", travessera.TypeInt)},
//	    Returns: User{},
//	})
//	var u User
//	err := getUser.Call(ctx, travessera.Args{"user_id": 42}, &u)
//
// Errors carry their taxonomy: errors.Is(err, travessera.ErrNotFound),
// errors.Is(err, travessera.ErrServer) and friends match what happened on
// the wire.
package travessera
