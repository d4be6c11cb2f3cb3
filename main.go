package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/beldeveloper/app-promoter/controller"
	"github.com/beldeveloper/app-promoter/model"
	"github.com/beldeveloper/app-promoter/provider/rest"
	"github.com/beldeveloper/app-promoter/service/builder"
	"github.com/beldeveloper/app-promoter/service/chart"
	"github.com/beldeveloper/app-promoter/service/deployer"
	"github.com/jackc/pgx/v4/pgxpool"
)

func main() {
	c, err := InitializeController()
	if err != nil {
		log.Fatalf("main: %v\n", err)
	}
	ctx := context.Background()
	go c.PromoteRunsJob(ctx)
	runHttpServer(c)
}

func postgresConn() (*pgxpool.Pool, error) {
	pgs := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		os.Getenv("APP_PROMOTER_DB_HOST"),
		os.Getenv("APP_PROMOTER_DB_PORT"),
		os.Getenv("APP_PROMOTER_DB_USER"),
		os.Getenv("APP_PROMOTER_DB_PASSWORD"),
		os.Getenv("APP_PROMOTER_DB_NAME"),
	)
	return pgxpool.Connect(context.Background(), pgs)
}

func postgresSchema() model.PgSchema {
	return model.PgSchema(os.Getenv("APP_PROMOTER_DB_SCHEMA"))
}

func workDir() model.FilePath {
	return model.FilePath(strings.TrimRight(os.Getenv("APP_PROMOTER_WORKING_DIR"), "/"))
}

func environmentsFile() model.FilePath {
	cfgDir := strings.TrimRight(os.Getenv("APP_PROMOTER_CONFIG_DIR"), "/")
	if cfgDir == "" {
		return ""
	}
	return model.FilePath(cfgDir) + "/" + model.EnvironmentsFile
}

func builderConfig() builder.Config {
	return builder.Config{
		ContextDir:   string(workDir()),
		Dockerfile:   os.Getenv("APP_PROMOTER_DOCKERFILE"),
		RegistryUser: os.Getenv("APP_PROMOTER_REGISTRY_USER"),
		RegistryPass: os.Getenv("APP_PROMOTER_REGISTRY_PASSWORD"),
	}
}

func deployerConfig() deployer.Config {
	return deployer.Config{
		AppName:    os.Getenv("APP_PROMOTER_APP_NAME"),
		Port:       int32(envInt("APP_PROMOTER_APP_PORT", 80)),
		TargetPort: int32(envInt("APP_PROMOTER_APP_TARGET_PORT", 8080)),
		Replicas:   int32(envInt("APP_PROMOTER_APP_REPLICAS", 1)),
		PullSecret: os.Getenv("APP_PROMOTER_PULL_SECRET"),
	}
}

func chartConfig() chart.Config {
	return chart.Config{
		ChartDir: string(workDir() + "/" + model.ChartDir),
		Repo:     os.Getenv("APP_PROMOTER_CHART_REPO"),
	}
}

func envInt(name string, def int) int {
	v, err := strconv.Atoi(os.Getenv(name))
	if err != nil {
		return def
	}
	return v
}

func runHttpServer(c controller.Service) {
	httpPort := os.Getenv("APP_PROMOTER_HTTP_PORT")
	crtFile := os.Getenv("APP_PROMOTER_HTTPS_CRT")
	keyFile := os.Getenv("APP_PROMOTER_HTTPS_KEY")
	srv := &http.Server{
		Addr:    ":" + httpPort,
		Handler: rest.CreateRouter(c),
	}
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		var err error
		if len(crtFile) > 0 {
			err = srv.ListenAndServeTLS(crtFile, keyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("main: serve http: %v; port = %s\n", err, httpPort)
		}
	}()
	log.Printf("Listening :%s for HTTP connections...\n", httpPort)
	<-done
	log.Print("Stopping the application...\n")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("main: server shutdown: %v\n", err)
	}
}
