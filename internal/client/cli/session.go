// Package cli is the interactive terminal front end of the generation orchestrator.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iqube-labs/iqube-api/internal/client/apiclient"
	"github.com/iqube-labs/iqube-api/internal/client/orchestrator"
	"github.com/iqube-labs/iqube-api/internal/domain/entity"
	coreport "github.com/iqube-labs/iqube-api/internal/domain/port/core"
	"github.com/iqube-labs/iqube-api/internal/domain/port/gateway"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/api/dto"
)

const savedPageSize = 20

var (
	errNotSignedIn  = errors.New("log in first")
	errNoDemo       = errors.New("demo generation is not configured; log in to generate through the API")
	errNoSuchNumber = errors.New("no question with that number")
)

// Session holds the state of one terminal session. Signed out it runs in demo
// mode against the generator webhook with a local wallet; signed in it
// generates through the API, which charges the account.
type Session struct {
	api           *apiclient.Client
	demoGenerator gateway.QuestionGenerator
	logger        coreport.Logger
	timeProvider  coreport.TimeProvider
	reader        *bufio.Reader
	out           io.Writer

	demoWallet *orchestrator.DemoWallet
	account    *orchestrator.AccountWallet
	orch       *orchestrator.Orchestrator
	user       *dto.UserResponse
	form       orchestrator.Form
}

// NewSession starts signed out. demoGenerator may be nil, which disables demo generation.
func NewSession(
	api *apiclient.Client,
	demoGenerator gateway.QuestionGenerator,
	logger coreport.Logger,
	timeProvider coreport.TimeProvider,
	in io.Reader,
	out io.Writer,
) *Session {
	s := &Session{
		api:           api,
		demoGenerator: demoGenerator,
		logger:        logger,
		timeProvider:  timeProvider,
		reader:        bufio.NewReader(in),
		out:           out,
		demoWallet:    orchestrator.NewDemoWallet(),
	}
	s.useDemo()
	return s
}

func (s *Session) isLoggedIn() bool {
	return s.user != nil
}

// Status is shown in the prompt
func (s *Session) Status() string {
	if s.user == nil {
		return fmt.Sprintf("demo, %d credits", s.orch.Balance())
	}
	return fmt.Sprintf("%s, %d credits", s.user.Email, s.orch.Balance())
}

func (s *Session) useDemo() {
	s.user = nil
	s.account = nil
	s.orch = orchestrator.New(s.demoGenerator, s.demoWallet, terminalObserver{out: s.out}, s.logger, s.timeProvider)
}

func (s *Session) signIn(resp *dto.AuthResponse) {
	user := resp.User
	s.user = &user
	s.account = orchestrator.NewAccountWallet(user.DailyCredits)
	generator := apiclient.NewServerGenerator(s.api, s.account.Sync)
	s.orch = orchestrator.New(generator, s.account, terminalObserver{out: s.out}, s.logger, s.timeProvider)
	s.printf("%s Welcome, %s. You have %d credits.\n", resp.Message, user.FirstName, user.DailyCredits)
}

// Login authenticates with email and password
func (s *Session) Login(ctx context.Context) error {
	email, err := readLine(s.reader, "Email", s.out)
	if err != nil {
		return err
	}
	password, err := readSecret(s.out)
	if err != nil {
		return err
	}

	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		return s.report(err)
	}
	s.signIn(resp)
	return nil
}

// Register creates an account and signs in
func (s *Session) Register(ctx context.Context) error {
	var req dto.RegisterRequest
	var err error
	if req.FirstName, err = readLine(s.reader, "First name", s.out); err != nil {
		return err
	}
	if req.LastName, err = readLine(s.reader, "Last name", s.out); err != nil {
		return err
	}
	if req.Email, err = readLine(s.reader, "Email", s.out); err != nil {
		return err
	}
	if req.Password, err = readSecret(s.out); err != nil {
		return err
	}

	resp, err := s.api.Register(ctx, req)
	if err != nil {
		return s.report(err)
	}
	s.signIn(resp)
	return nil
}

// Logout drops the token and returns to demo mode
func (s *Session) Logout(context.Context) error {
	s.api.SetToken("")
	s.useDemo()
	s.printf("Logged out. Back in demo mode.\n")
	return nil
}

// Generate asks for a topic and counts, then runs one batch
func (s *Session) Generate(ctx context.Context) error {
	if !s.isLoggedIn() && s.demoGenerator == nil {
		return s.report(errNoDemo)
	}

	form, err := s.readForm()
	if err != nil {
		return s.report(err)
	}

	s.form = form
	questions, err := s.orch.Generate(ctx, form)
	if err != nil {
		if msg := s.orch.LastError(); msg != "" {
			s.printf("%s\n", msg)
			return err
		}
		return s.report(err)
	}

	s.printf("Generated %d questions. Credits left: %d\n", len(questions), s.orch.Balance())
	return nil
}

func (s *Session) readForm() (orchestrator.Form, error) {
	var form orchestrator.Form
	var err error
	if form.TopicName, err = readLine(s.reader, "Topic", s.out); err != nil {
		return form, err
	}
	if form.TopicName == "" {
		return form, errors.New("a topic is required")
	}
	if form.Context, err = readLine(s.reader, "Context (optional)", s.out); err != nil {
		return form, err
	}
	if form.EasyCount, err = readCount(s.reader, "Easy questions", s.out); err != nil {
		return form, err
	}
	if form.MediumCount, err = readCount(s.reader, "Medium questions", s.out); err != nil {
		return form, err
	}
	if form.HardCount, err = readCount(s.reader, "Hard questions", s.out); err != nil {
		return form, err
	}
	return form, nil
}

// List prints the current question set
func (s *Session) List(context.Context) error {
	questions := s.orch.Questions()
	if len(questions) == 0 {
		s.printf("No questions yet. Use 'generate'.\n")
		return nil
	}
	for i, q := range questions {
		printQuestion(s.out, i+1, q)
	}
	return nil
}

// Regenerate replaces the question with the given 1-based number
func (s *Session) Regenerate(ctx context.Context, arg string) error {
	q, err := s.pick(arg)
	if err != nil {
		return s.report(err)
	}

	if _, err := s.orch.Regenerate(ctx, q.ID); err != nil {
		return s.report(err)
	}
	s.printf("Credits left: %d\n", s.orch.Balance())
	return nil
}

// Save stores the question with the given number in the account
func (s *Session) Save(ctx context.Context, arg string) error {
	if !s.isLoggedIn() {
		return s.report(errNotSignedIn)
	}
	q, err := s.pick(arg)
	if err != nil {
		return s.report(err)
	}

	questionType := string(entity.QuestionTypeText)
	if len(q.Options) > 0 {
		questionType = string(entity.QuestionTypeMCQ)
	}
	correct := q.CorrectAnswer
	explanation := q.Explanation
	resp, err := s.api.SaveQuestion(ctx, dto.SaveQuestionRequest{
		QuestionText:  q.Question,
		TopicName:     s.form.TopicName,
		Options:       q.Options,
		CorrectAnswer: &correct,
		Explanation:   &explanation,
		Difficulty:    string(q.Difficulty),
		QuestionType:  questionType,
	})
	if err != nil {
		return s.report(err)
	}
	s.printf("%s (%s)\n", resp.Message, resp.QuestionID)
	return nil
}

// Saved lists the account's saved questions, newest first
func (s *Session) Saved(ctx context.Context, arg string) error {
	if !s.isLoggedIn() {
		return s.report(errNotSignedIn)
	}
	page := 1
	if arg != "" {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 {
			return s.report(fmt.Errorf("%q is not a page number", arg))
		}
		page = n
	}

	resp, err := s.api.ListSaved(ctx, page, savedPageSize)
	if err != nil {
		return s.report(err)
	}
	if len(resp.Questions) == 0 {
		s.printf("No saved questions on this page.\n")
		return nil
	}
	for _, q := range resp.Questions {
		s.printf("- [%s] %s (%s, saved %s)\n", q.TopicName, q.QuestionText, q.Difficulty, q.SavedAt.Format("2006-01-02"))
	}
	s.printf("Page %d of %d, %d saved in total\n", resp.Pagination.Page, resp.Pagination.Pages, resp.Pagination.Total)
	return nil
}

// Topics lists the known topics
func (s *Session) Topics(ctx context.Context) error {
	resp, err := s.api.Topics(ctx)
	if err != nil {
		return s.report(err)
	}
	names := make([]string, 0, len(resp.Topics))
	for _, t := range resp.Topics {
		names = append(names, t.Name)
	}
	s.printf("Topics: %s\n", strings.Join(names, ", "))
	return nil
}

// Credits shows the balance; signed in it is fetched from the server
func (s *Session) Credits(ctx context.Context) error {
	if !s.isLoggedIn() {
		s.printf("Demo credits: %d\n", s.demoWallet.Balance())
		return nil
	}

	resp, err := s.api.Credits(ctx)
	if err != nil {
		return s.report(err)
	}
	s.account.Sync(resp.Credits)
	s.printf("Credits: %d (next refresh %s)\n", resp.Credits, resp.NextRefreshAt.Local().Format("2006-01-02 15:04"))
	return nil
}

// Refresh asks the server for a manual refresh, or resets the demo wallet
func (s *Session) Refresh(ctx context.Context) error {
	if !s.isLoggedIn() {
		s.demoWallet.Reset()
		s.printf("Demo credits reset to %d\n", s.demoWallet.Balance())
		return nil
	}

	resp, err := s.api.RefreshCredits(ctx)
	if err != nil {
		return s.report(err)
	}
	s.account.Sync(resp.Credits)
	s.printf("%s Credits: %d\n", resp.Message, resp.Credits)
	return nil
}

// History prints recent ledger rows
func (s *Session) History(ctx context.Context) error {
	if !s.isLoggedIn() {
		return s.report(errNotSignedIn)
	}

	resp, err := s.api.History(ctx, 0)
	if err != nil {
		return s.report(err)
	}
	for _, tx := range resp.Transactions {
		s.printf("%s  %-16s %+d -> %d  %s\n", tx.CreatedAt.Local().Format("2006-01-02 15:04"), tx.Type, tx.Amount, tx.BalanceAfter, tx.Description)
	}
	s.printf("%d transactions\n", resp.Total)
	return nil
}

// Reset clears the current question set
func (s *Session) Reset(context.Context) error {
	if err := s.orch.Reset(); err != nil {
		return s.report(err)
	}
	s.printf("Cleared.\n")
	return nil
}

// pick resolves a 1-based question number
func (s *Session) pick(arg string) (entity.GeneratedQuestion, error) {
	questions := s.orch.Questions()
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 1 || n > len(questions) {
		return entity.GeneratedQuestion{}, errNoSuchNumber
	}
	return questions[n-1], nil
}

func (s *Session) report(err error) error {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Body.Message != "" {
		s.printf("Error: %s\n", apiErr.Body.Message)
	} else {
		s.printf("Error: %s\n", err)
	}
	return err
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}
