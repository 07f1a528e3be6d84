// Package searchapi provides the client-side contract for issuing search
// queries from front-end plugins and tools.
//
// The package has three parts:
//   - API, the single operation a search backend must provide
//   - MockAPI, a deterministic stand-in for tests and isolated UI work
//   - Results, a binder that turns a partial query into a live async state
//
// # Wiring an implementation
//
//	client, _ := searchapi.NewClient(searchapi.WithBaseURL("http://localhost:7007/api/search"))
//	results, _ := searchapi.NewResults(client)
//	defer results.Close()
//
//	q := &searchapi.PartialQuery{Term: searchapi.Ptr("kafka")}
//	results.Use(ctx, q) // starts the query, returns the loading state
//	st, _ := results.Wait(ctx)
//
// Passing the same *PartialQuery to Use again does not issue a new query.
// Passing a different pointer does, and only the response to the latest
// call is ever applied to the state.
package searchapi
