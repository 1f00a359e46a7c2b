package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-reviewer/internal/feedback"
	"github.com/spigell/resume-reviewer/internal/jobdesc"
	"github.com/spigell/resume-reviewer/internal/logger"
	"github.com/spigell/resume-reviewer/internal/review"
	"github.com/spigell/resume-reviewer/internal/utils"
)

const (
	PromptBySeverity = "Show feedback by severity"
	PromptDumpToFile = "Dump review to file"
	PromptExit       = "Exit"

	OutputText = "text"
	OutputJSON = "json"

	jobDescPreviewLength = 80
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptBySeverity, PromptDumpToFile, PromptExit},
}

var reviewCmd = &cobra.Command{
	Use:   "review <file.pdf>",
	Short: "Review a PDF resume and print its score",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runReview(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(reviewCmd)

	reviewCmd.Flags().String("job-desc", "", "job description to match the resume against")
	reviewCmd.Flags().String("job-desc-file", "", "file with the job description. Takes precedence over --job-desc")
	reviewCmd.Flags().Bool("concurrent", false, "run the checks concurrently")
	reviewCmd.Flags().StringP("output", "o", OutputText, "output format: text or json")
	reviewCmd.Flags().BoolP("interactive", "i", false, "open an action menu after the review")

	viper.BindPFlag("concurrent", reviewCmd.Flags().Lookup("concurrent"))
	viper.BindPFlag("job-description-file", reviewCmd.Flags().Lookup("job-desc-file"))
}

// runReview reviews a single file from the command line.
func runReview(cmd *cobra.Command, path string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
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

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	output, _ := cmd.Flags().GetString("output")
	if output != OutputText && output != OutputJSON {
		logger.Fatal("unsupported output format", zap.String("output", output))
	}

	inline, _ := cmd.Flags().GetString("job-desc")
	jobDesc, err := jobdesc.Load(jobdesc.Source{Value: inline, File: config.JobDescriptionFile})
	if err != nil {
		logger.Fatal("loading the job description", zap.Error(err))
	}
	if jobDesc != "" {
		logger.Debug("job description loaded", zap.String("preview", utils.TruncateForLog(jobDesc, jobDescPreviewLength)))
	}

	logger.Info("starting the resume review", zap.String("version", version), zap.String("file", path))

	var recorder review.Recorder = review.NopRecorder{}
	if output == OutputText {
		recorder = review.NewZapRecorder(logger)
	}

	reviewer := review.New(review.Config{Concurrent: config.Concurrent}, review.Deps{
		Recorder: recorder,
		Logger:   logger,
	})

	result, err := reviewer.Review(ctx, path, jobDesc)
	if err != nil {
		if errors.Is(err, review.ErrUnreadable) {
			logger.Fatal("reviewing the resume",
				zap.Error(err),
				zap.String("hint", "the PDF may be scanned or image-based; export it with a text layer"),
			)
		}
		logger.Fatal("reviewing the resume", zap.Error(err))
	}

	if output == OutputJSON {
		if err := writeResult(cmd.OutOrStdout(), result); err != nil {
			logger.Fatal("writing the result", zap.Error(err))
		}
	}

	interactive, _ := cmd.Flags().GetBool("interactive")
	if !interactive {
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, logger, result); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, result *feedback.Result) error {
	switch action {
	case PromptBySeverity:
		report := feedback.BySeverity(result.Results)
		severities := make([]string, 0, len(report))
		for severity := range report {
			severities = append(severities, severity)
		}
		sort.Strings(severities)

		for _, severity := range severities {
			pretty, _ := json.MarshalIndent(report[severity], "", "  ")
			logger.Info(string(pretty), zap.String("severity", severity), zap.Int("count", len(report[severity])))
		}
		logger.Info("score", zap.Int("score", result.Score))
		return nil
	case PromptDumpToFile:
		filename, err := result.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump review to file: %w", err)
		}
		logger.Info("dumping review to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func writeResult(w io.Writer, result *feedback.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(result)
}
