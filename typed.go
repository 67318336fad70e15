package travessera

import "context"

// Call resolves key in the registry, calls the endpoint and returns the
// decoded payload as a value of T, sparing callers the out-pointer
// plumbing of Travessera.Call. T should be the type the endpoint's
// Function declares in Returns.
func Call[T any](ctx context.Context, t *Travessera, key string, args Args) (T, error) {
	var out T
	if err := t.Call(ctx, key, args, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// CallEndpoint is Call for an endpoint handle obtained at registration,
// skipping the registry lookup.
func CallEndpoint[T any](ctx context.Context, ep *Endpoint, args Args) (T, error) {
	var out T
	if err := ep.Call(ctx, args, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
