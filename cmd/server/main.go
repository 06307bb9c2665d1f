package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"yuzu/tutor/internal/api"
	"yuzu/tutor/internal/clientws"
	"yuzu/tutor/internal/config"
	"yuzu/tutor/internal/elevenlabs"
	"yuzu/tutor/internal/health"
	"yuzu/tutor/internal/imagesearch"
	"yuzu/tutor/internal/loop"
	"yuzu/tutor/internal/mcpserver"
	"yuzu/tutor/internal/progress"
	"yuzu/tutor/internal/session"
	"yuzu/tutor/internal/store"
	"yuzu/tutor/internal/vision"
)

var version = "dev"

const healthInterval = 30 * time.Second

func main() {
	// Load .env file if present (ignored if missing)
	_ = godotenv.Load()

	cfg := config.Load()

	st := store.New()
	prog, err := progress.Open(cfg.Progress.DBPath)
	if err != nil {
		log.Fatalf("progress db: %v", err)
	}

	images := imagesearch.NewClient(imagesearch.Options{
		BaseURL:   cfg.Images.BaseURL,
		APIKey:    cfg.Images.APIKey,
		Model:     cfg.Images.Model,
		Aspect:    cfg.Images.Aspect,
		ImageType: cfg.Images.ImageType,
		Timeout:   cfg.Images.Timeout,
	})
	judge := vision.NewClient(cfg.Vision.BaseURL, cfg.Vision.Timeout)
	signer := elevenlabs.NewClient(cfg.Eleven.APIKey, cfg.Eleven.AgentID, cfg.Eleven.BaseURL)

	reg := clientws.NewRegistry()
	sessions := session.NewManager(session.Options{
		Out:        reg,
		Events:     st,
		Recorder:   prog,
		Images:     images,
		Judge:      judge,
		RetryDelay: cfg.Activity.RetryDelay,
	})

	mcpHandler := mcpserver.NewHandler(sessions, st, cfg.Client.TokenSecret, cfg.Client.TokenSkewSecs, version)

	h := api.NewHandlers(cfg, st, sessions, signer, images, prog)
	h.Ready = func(ctx context.Context) health.HealthStatus { return health.CheckAll(ctx, cfg, prog) }
	h.OnEnd = func(id string) {
		mcpHandler.Forget(id)
		go reg.Drop(id, "session ended")
	}

	mux := http.NewServeMux()
	mux.Handle("/", api.NewRouter(h))
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle(mcpserver.Prefix, mcpHandler)
	// WS client route
	wss := clientws.NewServer(cfg, st, reg)
	disp := loop.New(reg, st, sessions, 30*time.Second)
	wss.OnConnect = disp.OnConnect
	wss.OnMessage = disp.OnMessage
	mux.HandleFunc("/ws/client", wss.HandleClientWS)

	// gRPC health for orchestrators that probe over gRPC
	grpcServer := grpc.NewServer()
	healthServer := grpchealth.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go health.Watch(ctx, cfg, prog, healthServer, healthInterval)

	grpcAddr := ":" + cfg.Server.GRPCHealthPort
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		log.Fatalf("grpc health listen: %v", err)
	}
	go func() {
		log.Printf("grpc health on %s", grpcAddr)
		if err := grpcServer.Serve(lis); err != nil {
			log.Printf("grpc health: %v", err)
		}
	}()

	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           logMiddleware(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigc
		log.Printf("shutdown signal received; stopping server...")
		stop()
		healthServer.Shutdown()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		// Unmount every activity first so cameras are released before clients drop.
		sessions.CloseAll(shutdownCtx)
		reg.Close()
		_ = srv.Shutdown(shutdownCtx)
		grpcServer.GracefulStop()
	}()

	log.Printf("server starting on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Println("server error:", err)
		os.Exit(1)
	}
	if err := prog.Close(); err != nil {
		log.Printf("progress db close: %v", err)
	}
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}
