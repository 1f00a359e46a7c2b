package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-reviewer/internal/jobdesc"
	"github.com/spigell/resume-reviewer/internal/logger"
	"github.com/spigell/resume-reviewer/internal/review"
	"github.com/spigell/resume-reviewer/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve resume reviews over HTTP",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 0, "port to listen on (default from config or PORT)")
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	jobDesc, err := jobdesc.Load(jobdesc.Source{File: config.JobDescriptionFile})
	if err != nil {
		logger.Fatal("loading the job description", zap.Error(err))
	}

	reviewer := review.New(review.Config{Concurrent: config.Concurrent}, review.Deps{
		Recorder: review.NewZapRecorder(logger.Named("recorder")),
		Logger:   logger,
	})

	srv, err := server.New(server.Config{
		Port:           config.Server.Port,
		UploadDir:      config.Server.UploadDir,
		SSLCert:        config.Server.SSLCert,
		SSLKey:         config.Server.SSLKey,
		MaxUploadMB:    config.Server.MaxUploadMB,
		JobDescription: jobDesc,
	}, reviewer, logger)
	if err != nil {
		logger.Fatal("creating the server", zap.Error(err))
	}

	logger.Info("starting the resume-reviewer server", zap.String("version", version))

	if err := srv.Run(ctx); err != nil {
		logger.Fatal("serving", zap.Error(err))
	}
}
