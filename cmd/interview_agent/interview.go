package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-assistant/internal/extract"
	"github.com/jonathan/interview-assistant/internal/observability"
	"github.com/jonathan/interview-assistant/internal/types"
)

var (
	interviewConfigPath string
	interviewResume     string
	interviewVerbose    bool
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Run a mock interview in the terminal",
	Long: `Run the full interview flow interactively: resume intake, six timed questions
of increasing difficulty, AI grading and a final score. A session interrupted
mid-interview is restored on the next run.`,
	RunE: runInterview,
}

func init() {
	interviewCmd.Flags().StringVar(&interviewConfigPath, "config", "", "Path to config.json file")
	interviewCmd.Flags().StringVarP(&interviewResume, "resume", "r", "", "Path to a resume file (.txt, .md or .html)")
	interviewCmd.Flags().BoolVarP(&interviewVerbose, "verbose", "v", false, "Print detailed debug information")
	rootCmd.AddCommand(interviewCmd)
}

// session renders the shared transcript to the terminal as it grows.
type session struct {
	app     *app
	printer *observability.Printer
	scanner *bufio.Scanner

	mu      sync.Mutex
	printed int
}

func runInterview(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(interviewConfigPath)
	if err != nil {
		return err
	}
	if interviewVerbose {
		cfg.Verbose = true
	}

	a, err := buildApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	s := &session{
		app:     a,
		printer: observability.NewPrinter(os.Stdout),
		scanner: bufio.NewScanner(os.Stdin),
	}
	return s.run(cmd.Context())
}

func (s *session) run(ctx context.Context) error {
	view := s.app.engine.State()

	if view.ShowWelcomeBack && view.CurrentCandidate != nil {
		fmt.Printf("Welcome back, %s! You have an interview in progress.\n", view.CurrentCandidate.Name)
		if s.ask("Continue where you left off? [Y/n] ") == "n" {
			s.app.engine.RestartSession()
		} else {
			if err := s.app.engine.ContinueSession(); err != nil {
				return err
			}
		}
		view = s.app.engine.State()
	}

	if view.CurrentCandidate == nil {
		if err := s.intake(ctx); err != nil {
			return err
		}
	}
	s.flush()

	tickCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.tickLoop(tickCtx)

	for {
		fmt.Print("> ")
		if !s.scanner.Scan() {
			return s.scanner.Err()
		}
		line := strings.TrimSpace(s.scanner.Text())
		if line == "" {
			continue
		}

		s.app.engine.NoteTyping(line)
		if err := s.app.engine.HandleInput(ctx, line); err != nil {
			return err
		}
		s.flush()

		current := s.app.engine.State().CurrentCandidate
		if current != nil && current.Status == types.StatusCompleted {
			s.printer.PrintResult(current)
			return nil
		}
	}
}

// intake collects the candidate's resume and contact details.
func (s *session) intake(ctx context.Context) error {
	var profile *types.ResumeProfile
	var prefillName, prefillEmail, prefillPhone string

	resumePath := interviewResume
	if resumePath == "" {
		resumePath = s.ask("Path to your resume (.txt, .md or .html; leave empty to skip): ")
	}
	if resumePath != "" {
		text, err := extract.ReadDocument(resumePath)
		if err != nil {
			return err
		}
		extraction, err := s.app.extractor.Extract(text, resumePath)
		if err != nil {
			return err
		}
		profile = &extraction.Profile
		prefillName = extraction.Name
		prefillEmail = extraction.Email
		prefillPhone = extraction.Phone
	}

	name := s.askWithDefault("Your name", prefillName)
	email := s.askWithDefault("Your email", prefillEmail)
	phone := s.askWithDefault("Your phone", prefillPhone)

	_, err := s.app.engine.CreateCandidate(ctx, name, email, phone, profile)
	return err
}

// tickLoop drives the countdown at 1 Hz. Time-up submissions surface through
// the transcript, which flush picks up.
func (s *session) tickLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.app.engine.Tick(ctx); err != nil {
				return
			}
			s.flush()
		}
	}
}

// flush prints transcript messages added since the last call.
func (s *session) flush() {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := s.app.engine.State()
	if view.CurrentCandidate == nil {
		s.printed = 0
		return
	}
	history := view.CurrentCandidate.ChatHistory
	if s.printed > len(history) {
		// Transcript was cleared.
		s.printed = 0
	}
	for _, msg := range history[s.printed:] {
		s.printer.PrintMessage(msg)
	}
	s.printed = len(history)
}

func (s *session) ask(prompt string) string {
	fmt.Print(prompt)
	if !s.scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(s.scanner.Text())
}

func (s *session) askWithDefault(prompt, def string) string {
	if def != "" {
		prompt = fmt.Sprintf("%s [%s]", prompt, def)
	}
	answer := s.ask(prompt + ": ")
	if answer == "" {
		return def
	}
	return answer
}
