package autopsyd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/GoSim-25-26J-441/system-autopsy/pkg/models"
)

func TestServingStatus(t *testing.T) {
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, servingStatus(models.StatusHealthy))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, servingStatus(models.StatusDegraded))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, servingStatus(models.StatusUnhealthy))
}

func TestHealthPublisherNilSafe(t *testing.T) {
	var p *HealthPublisher
	assert.NotPanics(t, func() {
		p.Publish(models.NewSimulationResult("x"))
		p.Shutdown()
	})
	assert.NotPanics(t, func() { NewHealthPublisher().Publish(nil) })
}
