package autopsyd

import (
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/GoSim-25-26J-441/system-autopsy/internal/health"
	"github.com/GoSim-25-26J-441/system-autopsy/pkg/models"
)

// SimulatedServicePrefix prefixes the health service name of each
// simulated service, e.g. "simulated.database".
const SimulatedServicePrefix = "simulated."

// SimulatedSystem is the health service name for the worst tier of the
// most recent run.
const SimulatedSystem = "simulated"

// HealthPublisher exposes the daemon and the last simulated run through
// the standard gRPC health service. The daemon itself ("" and the autopsy
// service) is always SERVING.
type HealthPublisher struct {
	server *grpchealth.Server
}

// NewHealthPublisher creates a publisher with every simulated service SERVING.
func NewHealthPublisher() *HealthPublisher {
	s := grpchealth.NewServer()
	s.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.SetServingStatus(AutopsyServiceName, healthpb.HealthCheckResponse_SERVING)
	s.SetServingStatus(SimulatedSystem, healthpb.HealthCheckResponse_SERVING)
	for _, name := range models.ServiceNames() {
		s.SetServingStatus(SimulatedServicePrefix+string(name), healthpb.HealthCheckResponse_SERVING)
	}
	return &HealthPublisher{server: s}
}

// Server returns the underlying health server for registration.
func (p *HealthPublisher) Server() *grpchealth.Server {
	return p.server
}

// Publish maps the tiers of a finished run onto serving statuses.
func (p *HealthPublisher) Publish(result *models.SimulationResult) {
	if p == nil || result == nil {
		return
	}
	for _, name := range models.ServiceNames() {
		svc := result.Service(name)
		if svc == nil {
			continue
		}
		p.server.SetServingStatus(SimulatedServicePrefix+string(name), servingStatus(svc.Status))
	}
	p.server.SetServingStatus(SimulatedSystem, servingStatus(health.Worst(result.Statuses()...)))
}

// Shutdown sets every status to NOT_SERVING and ignores later updates.
func (p *HealthPublisher) Shutdown() {
	if p == nil {
		return
	}
	p.server.Shutdown()
}

func servingStatus(status models.HealthStatus) healthpb.HealthCheckResponse_ServingStatus {
	if status == models.StatusUnhealthy {
		return healthpb.HealthCheckResponse_NOT_SERVING
	}
	return healthpb.HealthCheckResponse_SERVING
}
