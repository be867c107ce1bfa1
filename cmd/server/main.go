// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/jaycherian/go-reel-metadata/internal/core/cor"
	"github.com/jaycherian/go-reel-metadata/internal/core/model"
	"github.com/jaycherian/go-reel-metadata/internal/core/workflow"
	"github.com/jaycherian/go-reel-metadata/internal/downloader"
	"github.com/jaycherian/go-reel-metadata/internal/telemetry"
)

func main() {
	telemetry.SetupLogging()
	slog.Info("Logging initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := GetConfig()

	shutdownTelemetry, err := telemetry.SetupOpenTelemetry(ctx, cfg)
	if err != nil {
		slog.Error("Failed to setup OpenTelemetry", "error", err)
		log.Fatal(err)
	}
	slog.Info("Tracing initialized")

	InitState(ctx)
	slog.Info("Initialized State")

	r := gin.Default()
	r.Use(otelgin.Middleware(cfg.Application.Name))
	r.Use(cors.Default())

	apiV1 := r.Group("/api/v1")
	{
		MetadataRouter(apiV1)
		apiV1.GET("/healthz", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Application.Port),
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to listen", "error", err)
		}
	}()
	slog.Info("Server ready", "port", cfg.Application.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutdown Server ...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server Shutdown Failed", "error", err)
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		slog.Error("Telemetry Shutdown Failed", "error", err)
	}

	log.Println("Server exiting")
}

// generateRequest is the body of POST /api/v1/metadata. Exactly one of URL
// or Path must be set.
type generateRequest struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

// MetadataRouter sets up the metadata generation route.
func MetadataRouter(r *gin.RouterGroup) {
	metadata := r.Group("/metadata")
	{
		metadata.POST("", func(c *gin.Context) {
			var req generateRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
				return
			}
			if (req.URL == "") == (req.Path == "") {
				c.JSON(http.StatusBadRequest, gin.H{"error": "exactly one of url or path is required"})
				return
			}

			videoPath := req.Path
			if req.URL != "" {
				downloaded, err := state.downloader.Download(c.Request.Context(), req.URL)
				if err != nil {
					c.JSON(downloadStatus(err), gin.H{"error": err.Error()})
					return
				}
				videoPath = downloaded
			} else if _, err := os.Stat(videoPath); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("video not found: %s", videoPath)})
				return
			}

			record, err := generateMetadata(c.Request.Context(), videoPath)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, record)
		})
	}
}

// generateMetadata runs the pipeline for one video and returns the
// assembled record. Degraded records built from fallbacks are still a
// success.
func generateMetadata(ctx context.Context, videoPath string) (*model.MetadataRecord, error) {
	chainCtx := cor.NewBaseContext()
	defer chainCtx.Close()
	chainCtx.SetContext(ctx)
	chainCtx.Add(cor.CtxIn, videoPath)

	state.pipeline.Execute(chainCtx)

	record, ok := chainCtx.Get(workflow.RecordParamName).(*model.MetadataRecord)
	if !ok {
		return nil, fmt.Errorf("pipeline produced no record for %s", videoPath)
	}
	return record, nil
}

// downloadStatus maps downloader errors onto HTTP status codes.
func downloadStatus(err error) int {
	switch {
	case errors.Is(err, downloader.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, downloader.ErrPrivateContent):
		return http.StatusForbidden
	case errors.Is(err, downloader.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusBadGateway
	}
}
