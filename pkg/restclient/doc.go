// Package restclient provides the primary entry point for constructing a
// restkit.Client against any REST-like HTTP API.
//
// It normalizes the host, wires authentication and logging, and hands the
// configuration to the internal client implementation. Most applications
// import restclient to build a client and then use the returned
// restkit.Client to reach resources by name.
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/restkit/pkg/restclient"
//	  "github.com/fivetwenty-io/restkit/pkg/restkit"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  // Minimal: a host and version, no auth. "api.spacexdata.com" is
//	  // normalized to "https://api.spacexdata.com".
//	  cli, err := restclient.NewWithHost("api.spacexdata.com", "v3")
//	  if err != nil { log.Fatal(err) }
//
//	  // Or with an API key sent in a custom header:
//	  cli, err = restclient.New(&restkit.Config{
//	    Host:           "https://api.example.com",
//	    Version:        "v1",
//	    AuthHeaderName: "X-Api-Key",
//	    APIKey:         "secret",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  rockets, err := cli.Resource("rockets").List(ctx, restkit.Paginate())
//	  if err != nil { log.Fatal(err) }
//	  _ = rockets
//	}
//
// # Helpers
//
// NewWithHost, NewWithAPIKey and NewWithClientCredentials cover the common
// configurations. Setting Config.Debug without a Logger logs every request
// and response to stderr through go-hclog.
package restclient
