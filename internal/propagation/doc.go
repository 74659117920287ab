// Package propagation cascades a scenario's direct effect one hop along the
// static service dependency chain.
//
// The graph is fixed: database feeds orders_service, which feeds
// api_gateway. external_dependency has no downstream edge. Each edge carries
// multiplicative latency and error-rate factors keyed by the upstream
// service's health tier. The engine reads upstream tiers as they stand when
// it is called and never assigns status itself.
package propagation
