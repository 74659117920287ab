// Package autopsyd exposes the simulation core over HTTP and gRPC.
//
// Both transports share one Service, which runs the orchestrator, publishes
// per-service health to the standard gRPC health service and asks the
// explainer for a narrative. Transport code only decodes requests, maps
// errors to status codes and encodes views.
package autopsyd
