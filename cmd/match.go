package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spigell/cv-matcher/internal/candidate"
	"github.com/spigell/cv-matcher/internal/export"
	"github.com/spigell/cv-matcher/internal/logger"
	"github.com/spigell/cv-matcher/internal/render"
	"github.com/spigell/cv-matcher/internal/secrets"
	"github.com/spigell/cv-matcher/internal/uploader"
	"github.com/spigell/cv-matcher/internal/webhook"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptSubmit      = "Analyze CV"
	PromptDetails     = "Show details of a match"
	PromptExportJSON  = "Export results to JSON"
	PromptExportExcel = "Export results to Excel"
	PromptAnotherFile = "Choose another file"
	PromptExit        = "Exit"
	PromptBack        = "back"
)

var errExit = errors.New("exit requested")

var matchCmd = &cobra.Command{
	Use:   "match [cv.pdf]",
	Short: "Upload a PDF résumé to the matching webhook and show the job matches",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		match(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().String("webhook-url", "", "matching webhook url (overrides webhook.url)")
	matchCmd.Flags().StringP("output", "o", "", "write results to this file after a successful match (.json or .xlsx)")
	matchCmd.Flags().BoolP("yes", "y", false, "do not show the interactive menu after the results")

	viper.BindPFlag("webhook.url", matchCmd.Flags().Lookup("webhook-url"))
}

// session ties the controller to the terminal for one cli run.
type session struct {
	ctx        context.Context
	controller *uploader.Controller
	term       *render.Terminal
	logger     *zap.Logger
	output     string
}

// match is the main command for the cli.
func match(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Debug("starting the cv-matcher", zap.String("version", version))

	client, err := newWebhookClient(config, logger)
	if err != nil {
		logger.Fatal(
			"configuring the webhook",
			zap.Error(err),
			zap.String("hint", "set CV_MATCHER_WEBHOOK_URL, the --webhook-url flag or the 'webhook.url' key in the configuration file"),
		)
	}

	controller := uploader.New(client, logger)
	controller.Webhook = client.Host()
	defer controller.Close()

	if config.Progress != nil && config.Progress.ResetDelay > 0 {
		controller.ResetDelay = config.Progress.ResetDelay
	}

	term := render.New(os.Stdout)
	controller.OnChange(term.Update)

	s := &session{
		ctx:        ctx,
		controller: controller,
		term:       term,
		logger:     logger,
		output:     strings.TrimSpace(cmd.Flag("output").Value.String()),
	}

	interactive := cmd.Flag("yes").Value.String() == "false"

	path := ""
	if len(args) > 0 {
		path = args[0]
	}

	if path == "" {
		if !interactive {
			logger.Fatal("a path to the cv is required in non-interactive mode")
		}
		if path, err = askPath(); err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
	}

	selected := s.selectPath(path)
	if selected {
		s.submit()
	}

	if !interactive {
		st := controller.Snapshot()
		if !selected || st.Error != "" {
			logger.Fatal("matching failed", zap.String("reason", st.Error), zap.Stringer("kind", st.ErrorKind))
		}
		return
	}

	for {
		_, action, err := actionPrompt(controller.Snapshot()).Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := s.handleAction(action); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func (s *session) handleAction(action string) error {
	st := s.controller.Snapshot()

	switch action {
	case PromptSubmit:
		s.submit()
		return nil
	case PromptDetails:
		return s.details(st)
	case PromptExportJSON:
		return s.dump(st, export.FormatJSON)
	case PromptExportExcel:
		return s.dump(st, export.FormatExcel)
	case PromptAnotherFile:
		path, err := askPath()
		if err != nil {
			return err
		}
		s.selectPath(path)
		return nil
	case PromptExit:
		s.logger.Debug("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// selectPath loads the file and hands it to the controller. Failures are
// rendered and the session goes on.
func (s *session) selectPath(path string) bool {
	file, err := candidate.Open(path)
	if err != nil {
		s.logger.Error("opening the cv", zap.String("path", path), zap.Error(err))
		return false
	}

	if err := s.controller.SelectFile(file); err != nil {
		s.term.Outcome(s.controller.Snapshot())
		return false
	}

	s.term.Candidate(file)
	return true
}

func (s *session) submit() {
	_, err := s.controller.Submit(s.ctx)
	if errors.Is(err, uploader.ErrBusy) {
		s.logger.Warn("submission skipped", zap.Error(err))
		return
	}

	st := s.controller.Snapshot()
	s.term.Outcome(st)

	if s.output == "" || len(st.Results) == 0 {
		return
	}

	report := export.NewReport(st.Candidate, st.SubmissionID, st.Results)
	if err := report.ToFile(s.output); err != nil {
		s.logger.Error("writing results", zap.String("path", s.output), zap.Error(err))
		return
	}
	s.logger.Info("results written", zap.String("path", s.output))
}

func (s *session) details(st uploader.State) error {
	for {
		items := make([]string, 0, len(st.Results)+1)
		for idx, m := range st.Results {
			items = append(items, fmt.Sprintf("%d. %s (%s)", idx+1, m.JobTitle, render.FormatScore(m.SemanticScore)))
		}

		matchPrompt := promptui.Select{
			Label: "Choose a match and press ENTER",
			Items: append(items, PromptBack),
			Size:  10,
		}

		idx, selected, err := matchPrompt.Run()
		if err != nil {
			return err
		}

		if selected == PromptBack {
			return nil
		}

		s.term.Details(idx, st.Results[idx])
	}
}

func (s *session) dump(st uploader.State, format string) error {
	report := export.NewReport(st.Candidate, st.SubmissionID, st.Results)

	filename, err := report.DumpToTmpFile(format)
	if err != nil {
		return fmt.Errorf("dump results to file: %w", err)
	}

	s.logger.Info("dumping results to file", zap.String("filename", filename))
	return nil
}

func actionPrompt(st uploader.State) *promptui.Select {
	items := make([]string, 0, 6)
	if st.Candidate != nil {
		items = append(items, PromptSubmit)
	}
	if len(st.Results) > 0 {
		items = append(items, PromptDetails, PromptExportJSON, PromptExportExcel)
	}
	items = append(items, PromptAnotherFile, PromptExit)

	return &promptui.Select{
		Label: "What next?",
		Items: items,
	}
}

func askPath() (string, error) {
	pathPrompt := promptui.Prompt{
		Label: "Path to a PDF résumé",
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return candidate.ErrMissing
			}
			return nil
		},
	}

	path, err := pathPrompt.Run()
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(path), nil
}

func newWebhookClient(config *Config, logger *zap.Logger) (*webhook.Client, error) {
	client, err := webhook.New(config.Webhook.URL, config.Webhook.Timeout, logger)
	if err != nil {
		return nil, err
	}

	if ua := strings.TrimSpace(config.UserAgent); ua != "" {
		client.UserAgent = ua
	}

	auth := config.Webhook.Auth
	if auth == nil || strings.TrimSpace(auth.Header) == "" {
		return client, nil
	}

	value, err := secrets.Load(secrets.Source{
		Name:  "webhook auth value",
		Value: auth.Value,
		File:  auth.ValueFile,
		Env:   "CV_MATCHER_AUTH_VALUE",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set webhook.auth.value-file, CV_MATCHER_AUTH_FILE or CV_MATCHER_AUTH_VALUE)", err)
	}

	client.Auth = &webhook.Auth{Header: strings.TrimSpace(auth.Header), Value: value}

	return client, nil
}
