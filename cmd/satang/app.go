package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"satang/internal/api"
	"satang/internal/chat"
	"satang/internal/config"
	"satang/internal/log"
	"satang/internal/mirror"
	"satang/internal/profile"
	"satang/internal/resource"
	"satang/internal/session"
	"satang/internal/storage"
	"satang/internal/tokenstore"
)

// app wires the session bridge, mirror, cache and API client together.
// The publisher is the spine: the bridge writes it, everything else
// subscribes.
type app struct {
	cfg       *config.Config
	logger    *log.Logger
	store     *tokenstore.Store
	publisher *session.Publisher
	client    *api.Client
	bridge    *session.Bridge
	cache     *profile.Cache
	repo      *storage.SQLiteRepository

	unsubscribe []func()
}

func newApp(cfg *config.Config, logger *log.Logger) (*app, error) {
	store := tokenstore.New(cfg.StateDir, logger)
	publisher := session.NewPublisher()
	client := api.NewClient(cfg.APIBaseURL, logger)

	a := &app{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		publisher: publisher,
		client:    client,
	}

	a.unsubscribe = append(a.unsubscribe, mirror.New(store, logger).Attach(publisher))

	a.cache = profile.New(client, store, logger)
	a.unsubscribe = append(a.unsubscribe, a.cache.Attach(publisher))

	clientJSON, err := oauthClientJSON(cfg)
	if err != nil {
		return nil, err
	}
	if clientJSON != nil {
		bridge, err := session.NewBridge(session.Options{
			ClientJSON:   clientJSON,
			RedirectPort: cfg.OAuthRedirectPort,
			SessionPath:  filepath.Join(cfg.StateDir, "session.json"),
		}, client, publisher, logger)
		if err != nil {
			return nil, err
		}
		a.bridge = bridge
	}

	return a, nil
}

func (a *app) Close() {
	for _, fn := range a.unsubscribe {
		fn()
	}
	if a.repo != nil {
		_ = a.repo.Close()
	}
}

func oauthClientJSON(cfg *config.Config) ([]byte, error) {
	if cfg.GoogleOAuthClientJSON != "" {
		return []byte(cfg.GoogleOAuthClientJSON), nil
	}
	if cfg.GoogleOAuthClientFile != "" {
		blob, err := os.ReadFile(cfg.GoogleOAuthClientFile)
		if err != nil {
			return nil, fmt.Errorf("read oauth client file: %w", err)
		}
		return blob, nil
	}
	return nil, nil
}

// token prefers live session state and falls back to the durable
// store, covering commands that run before a session rehydrates.
func (a *app) token() resource.TokenFunc {
	fromSession := resource.FromSession(a.publisher)
	return func() (string, bool) {
		if token, ok := fromSession(); ok {
			return token, true
		}
		return a.store.Token()
	}
}

func (a *app) rehydrate(ctx context.Context) {
	if a.bridge != nil {
		a.bridge.Rehydrate(ctx)
	}
}

func (a *app) chatService(logger *log.Logger) (*chat.Service, error) {
	if a.repo == nil {
		repo, err := storage.NewSQLiteRepository(a.cfg.DBPath())
		if err != nil {
			return nil, fmt.Errorf("open local store: %w", err)
		}
		a.repo = repo
	}
	return chat.NewService(a.client, a.repo, a.token(), logger), nil
}

func (a *app) runLogin(ctx context.Context) error {
	if a.bridge == nil {
		return errors.New("no OAuth client configured: set GOOGLE_OAUTH_CLIENT_FILE or GOOGLE_OAUTH_CLIENT_JSON")
	}
	if err := a.bridge.SignIn(ctx); err != nil {
		// Details are in the log; the user only learns the sign-in
		// did not stick.
		return errors.New("sign-in failed, you are not signed in")
	}

	state := a.publisher.Current()
	fmt.Printf("Signed in as %s\n", state.User.DisplayName())

	// Warm the profile cache; concurrent with the transition-triggered
	// fetch, the single-flight group collapses them into one request.
	_ = a.cache.Fetch(ctx)
	return nil
}

func (a *app) runLogout() error {
	if a.bridge != nil {
		a.bridge.SignOut()
	} else {
		// No bridge: still honor the contract that signing out clears
		// the durable copies.
		a.store.RemoveToken()
		a.store.RemoveUser()
	}
	fmt.Println("Signed out")
	return nil
}

func (a *app) runStatus() error {
	state := a.publisher.Current()
	if state.Status == session.StatusAuthenticated {
		fmt.Printf("Session: authenticated as %s\n", state.User.DisplayName())
	} else {
		fmt.Println("Session: unauthenticated")
	}

	if _, ok := a.store.Token(); ok {
		fmt.Println("Stored token: present")
	} else {
		fmt.Println("Stored token: none")
	}

	if user, ok := a.store.User(); ok {
		fmt.Printf("Cached user: %s (%s)\n", user.DisplayName(), user.Email)
	}
	return nil
}

func (a *app) runDelete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: satang delete <id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid transaction id %q", args[0])
	}

	transactions := resource.NewTransactions(a.client, a.token(), a.logger)
	if !transactions.Delete(ctx, id) {
		return failureError(transactions.Snapshot().Error, transactions.Snapshot().Kind)
	}
	fmt.Printf("Deleted transaction %d\n", id)
	return nil
}

func (a *app) runSavings(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: satang savings <percent>")
	}
	pct, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid percentage %q", args[0])
	}

	res := resource.NewProfile(a.client, a.token(), a.cache, a.logger)
	if !res.UpdateSettings(ctx, coreSettingsUpdate(pct)) {
		snapshot := res.Snapshot()
		return failureError(snapshot.Error, snapshot.Kind)
	}

	snapshot := res.Snapshot()
	fmt.Printf("Savings percentage set to %.0f%%\n", snapshot.Data.SavingsPercentage)
	return nil
}

func (a *app) runChat(ctx context.Context, args []string) error {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return errors.New("usage: satang chat <text>")
	}
	svc, err := a.chatService(a.logger)
	if err != nil {
		return err
	}
	reply, err := svc.Send(ctx, text)
	if err != nil {
		return err
	}
	fmt.Println(reply.Text)
	return nil
}

func (a *app) runChatHistory(ctx context.Context) error {
	svc, err := a.chatService(a.logger)
	if err != nil {
		return err
	}
	messages, err := svc.History(ctx)
	if err != nil {
		return err
	}
	for _, m := range messages {
		role := "satang"
		if m.IsUser {
			role = "you"
		}
		fmt.Printf("[%s] %s: %s\n", m.Timestamp.Local().Format("02/01 15:04"), role, m.Text)
	}
	return nil
}

func (a *app) runChatRetry(ctx context.Context) error {
	svc, err := a.chatService(a.logger)
	if err != nil {
		return err
	}
	reply, err := svc.RetryLast(ctx)
	if err != nil {
		return err
	}
	fmt.Println(reply.Text)
	return nil
}

func (a *app) runChatClear(ctx context.Context) error {
	svc, err := a.chatService(a.logger)
	if err != nil {
		return err
	}
	if err := svc.Clear(ctx); err != nil {
		return err
	}
	fmt.Println("Conversation cleared")
	return nil
}
