// Minimal example for travessera demonstrating a declared endpoint plus
// the typed call helpers. The verbose scenarios were moved under
// examples/ to keep this one approachable.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gllona/travessera"
)

type user struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func main() {
	users, err := travessera.NewService(travessera.ServiceConfig{
		Name:    "users",
		BaseURL: "https://jsonplaceholder.typicode.com",
	})
	if err != nil {
		log.Fatalf("invalid service config: %v", err)
	}

	t, err := travessera.New([]*travessera.Service{users}, travessera.WithSimpleLogger())
	if err != nil {
		log.Fatalf("invalid client config: %v", err)
	}
	defer t.Close()

	getUser, err := t.Get("users", "/users/{user_id}", travessera.Function{
		Name:    "get_user",
		Params:  []travessera.Param{travessera.Required("user_id", travessera.TypeInt)},
		Returns: user{},
	})
	if err != nil {
		log.Fatalf("registration failed: %v", err)
	}
	listUsers, err := t.Get("users", "/users", travessera.Function{
		Name:    "list_users",
		Params:  []travessera.Param{travessera.Optional("_limit", travessera.TypeInt, nil)},
		Returns: []user{},
	})
	if err != nil {
		log.Fatalf("registration failed: %v", err)
	}

	ctx := context.Background()

	// Classic form: decode into a caller-supplied value.
	var u user
	if err := getUser.Call(ctx, travessera.Args{"user_id": 1}, &u); err != nil {
		log.Fatalf("get_user failed: %v", err)
	}
	fmt.Printf("user 1: %s <%s>\n", u.Name, u.Email)

	// Typed form: the helper returns the decoded value directly.
	u2, err := travessera.Call[user](ctx, t, "users.get_user", travessera.Args{"user_id": 2})
	if err != nil {
		log.Fatalf("typed get_user failed: %v", err)
	}
	fmt.Printf("user 2: %s <%s>\n", u2.Name, u2.Email)

	all, err := travessera.CallEndpoint[[]user](ctx, listUsers, travessera.Args{"_limit": 3})
	if err != nil {
		log.Fatalf("list_users failed: %v", err)
	}
	fmt.Printf("listed %d users\n", len(all))
}
