package health

import (
	"context"
	"log"
	"time"

	grpchealth "google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"yuzu/tutor/internal/config"
)

// Watch runs CheckAll every interval and mirrors the result into the gRPC health
// server's overall status until ctx is done.
func Watch(ctx context.Context, cfg config.Config, db Pinger, hs *grpchealth.Server, interval time.Duration) {
	check := func() {
		cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		st := CheckAll(cctx, cfg, db)
		status := grpc_health_v1.HealthCheckResponse_SERVING
		if !st.OK {
			status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
			log.Printf("[health] %s", st)
		}
		hs.SetServingStatus("", status)
	}
	check()
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			check()
		}
	}
}
