// Package tokensession manages a client-side session token: acquiring it
// from a remote authority, persisting it, and deriving the session status
// from its structure and expiry claim.
//
// The token is never verified cryptographically. A structured (three
// segment) token marks an authenticated session; anything else is an
// opaque guest token. Authenticity is checked by the servers that receive
// the token.
//
// Usage:
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//	    "log"
//
//	    "github.com/bluescreen10/tokensession"
//	    "github.com/bluescreen10/tokensession/gormstore"
//	    "github.com/bluescreen10/tokensession/remote"
//	)
//
//	func main() {
//	    store, err := gormstore.Open("session.db")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    mgr := tokensession.NewManager(store, remote.New("https://example.com"))
//	    mgr.Init()
//
//	    ok, err := mgr.Login(context.Background(), map[string]string{"user": "a", "pass": "b"})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(ok, mgr.IsAdmin(), mgr.IsValid())
//	}
package tokensession
