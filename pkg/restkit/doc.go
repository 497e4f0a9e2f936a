// Package restkit provides the types and interfaces for building clients
// against REST-like HTTP APIs.
//
// # Overview
//
// A client is created from a Config by the restclient package. Resources are
// addressed by name; every resource knows its path below the API base URL and
// offers Get, List, Create, Update and Delete. Names that were never declared
// still work: the client creates a generic resource the first time a name is
// used and caches it.
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
//	  cli, err := restclient.New(&restkit.Config{Host: "https://api.spacexdata.com", Version: "v3"})
//	  if err != nil { log.Fatal(err) }
//
//	  // GET https://api.spacexdata.com/v3/dragons
//	  dragons, err := cli.Resource("dragons").List(ctx)
//	  if err != nil { log.Fatal(err) }
//	  _ = dragons
//
//	  // GET https://api.spacexdata.com/v3/launches/past?limit=5
//	  past, err := cli.Resource("launches").Child("past").List(ctx, restkit.WithQuery("limit", "5"))
//	  if err != nil { log.Fatal(err) }
//	  _ = past
//	}
//
// # Path segments
//
// Resource names are turned into path segments with PathSegment: CamelCase and
// underscores become hyphen-separated lower case, so "SpaceDragon" maps to
// "space-dragon". Config.Pluralize pluralizes derived segments; a Declaration
// can set its Path explicitly instead.
//
// # Declarations and decorators
//
// Resources listed in Config.Resources are built when the client is created
// and exposed under their snake_case name. A Declaration's Wrap function
// receives the default implementation and can return a type embedding it to
// override selected operations:
//
//	type launches struct{ restkit.Resource }
//
//	func (l launches) Delete(ctx context.Context, id string, opts ...restkit.CallOption) (any, error) {
//	  return l.Client().Request(ctx, http.MethodDelete, l.URL(id))
//	}
//
// # Pagination
//
// List with the Paginate option follows rel="next" entries of the Link header
// (the header name is configurable) and returns the concatenation of all
// pages. Pages are fetched one after the other and Config.MaxPages bounds the
// walk.
//
// # Errors
//
// Failed responses are returned as *ClientError (4xx), *ServerError (5xx) or
// *UnexpectedStatusError, each carrying the status code, URL and decoded body
// (raw bytes when the body is not JSON). Success bodies that are not valid
// JSON yield *DecodeError, unimplemented operations *NotSupportedError and bad
// input *ConfigurationError. Helpers such as IsNotFound and StatusCode make
// branching easy. Nothing is retried.
package restkit
