// Package client is the UPX Go SDK.
//
// It authenticates against a UPX backend and invokes its remote procedures:
// credentials are held per Client, every call carries a freshly built auth
// payload, and responses are normalized into an Outcome that settles once.
//
// # Configuring a client
//
//	c, err := client.New(client.WithServer("https://api.example.com"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	c.SetAccount("acme")
//	c.SetUser("alice")
//	c.SetAPIKey(os.Getenv("UPX_APIKEY"))
//
// Use SetAnonymous for public procedures, and SetSubaccount to act as a
// subuser. Setters never fail; missing pieces are reported by Call.
//
// # Calling a procedure
//
// Parameters are a Value tree. From converts ordinary Go maps, slices and
// scalars:
//
//	params := client.MustFrom(map[string]any{"id": 42, "filter": map[string]any{"name": "x"}})
//	outcome, err := c.Call(ctx, "Relation", "getInfo", params, nil)
//	if err != nil {
//	    return err // configuration error, nothing was sent
//	}
//	info, err := outcome.Wait(ctx)
//
// A rejected Outcome carries one of:
//
//	client.CodeTimeout         // the request timed out ("timeout")
//	client.CodeNotImplemented  // the backend answered HTTP 501 ("501")
//	*client.EnvelopeError      // the backend answered success=false
//	*client.TransportError     // any other failure
//
// # Deferred and joint calls
//
// PrepareCall turns a call into a reusable function with reactions attached,
// and MultiCall fires several of them and joins the results:
//
//	info := client.PrepareCall(c.Prepare("Relation", "getInfo", params, nil), onInfo, onErr)
//	list := client.PrepareCall(c.Prepare("Relation", "list", nil, nil), onList, onErr)
//	run := client.MultiCall([]client.PreparedCall{info, list}, onBoth, onErr)
//	joint := run()
//	<-joint.Done()
//
// Credentials are read when a prepared call runs, not when it is prepared.
package client
