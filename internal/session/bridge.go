package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	goauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"satang/internal/api"
	"satang/internal/core"
	"satang/internal/log"
)

// ErrSignInRejected is returned for every failed sign-in path. The
// details are logged, not surfaced: a rejected sign-in manifests to the
// user only as the session staying unauthenticated.
var ErrSignInRejected = errors.New("sign-in rejected")

// Options configures the bridge.
type Options struct {
	// ClientJSON is the Google OAuth client credentials blob.
	ClientJSON []byte

	// RedirectPort is the local port for the authorization callback.
	RedirectPort string

	// SessionPath is the file the provider-backed session persists to.
	// This is the bridge's own state, distinct from the token store.
	SessionPath string

	// PromptURL presents the consent URL to the user. Defaults to
	// printing on stdout.
	PromptURL func(url string)

	// FetchUserinfo retrieves the provider identity after the token
	// exchange. Defaults to the Google userinfo service.
	FetchUserinfo func(ctx context.Context, ts oauth2.TokenSource) (core.ProviderProfile, error)

	// AuthTimeout bounds how long the bridge waits for the callback.
	AuthTimeout time.Duration
}

// Bridge drives the OAuth authorization-code flow and fuses the
// provider identity with a backend account: verified grant, then a
// synchronous backend exchange that must yield an access token before
// the sign-in counts as successful.
type Bridge struct {
	cfg       *oauth2.Config
	opts      Options
	api       *api.Client
	publisher *Publisher
	logger    *log.Logger
}

// persistedSession is what survives a process restart. The provider
// token lets the bridge re-validate the identity; the backend token and
// user are the fused result of the last successful exchange.
type persistedSession struct {
	Provider *oauth2.Token        `json:"provider"`
	Token    string               `json:"backend_access_token"`
	User     core.BackendUser     `json:"backend_user"`
	Profile  core.ProviderProfile `json:"provider_profile"`
}

func NewBridge(opts Options, client *api.Client, publisher *Publisher, logger *log.Logger) (*Bridge, error) {
	cfg, err := google.ConfigFromJSON(opts.ClientJSON,
		"openid", goauth2.UserinfoEmailScope, goauth2.UserinfoProfileScope)
	if err != nil {
		return nil, fmt.Errorf("oauth client config: %w", err)
	}

	if opts.RedirectPort == "" {
		opts.RedirectPort = "8085"
	}
	if opts.AuthTimeout == 0 {
		opts.AuthTimeout = 5 * time.Minute
	}
	if opts.PromptURL == nil {
		opts.PromptURL = func(url string) {
			fmt.Printf("Open this URL to authorize:\n%s\n", url)
		}
	}
	if opts.FetchUserinfo == nil {
		opts.FetchUserinfo = googleUserinfo
	}
	cfg.RedirectURL = "http://localhost:" + opts.RedirectPort + "/callback"

	if logger == nil {
		logger = log.New(log.Config{Component: log.ComponentSession})
	}

	return &Bridge{
		cfg:       cfg,
		opts:      opts,
		api:       client,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentSession),
	}, nil
}

// Publisher returns the session state publisher the bridge writes to.
func (b *Bridge) Publisher() *Publisher {
	return b.publisher
}

// SignIn runs the full flow: consent redirect, code callback, provider
// token exchange, userinfo fetch, backend exchange, session publish.
// Any failure after the grant tears the provider session down and
// leaves the session unauthenticated.
func (b *Bridge) SignIn(ctx context.Context) error {
	state, err := randomState()
	if err != nil {
		return fmt.Errorf("generate state: %w", err)
	}

	code, err := b.awaitAuthorizationCode(ctx, state)
	if err != nil {
		b.logger.Warn("Authorization flow failed", log.FieldOperation, log.OpSignIn, log.FieldError, err.Error())
		return fmt.Errorf("%w: %v", ErrSignInRejected, err)
	}

	providerToken, err := b.cfg.Exchange(ctx, code)
	if err != nil {
		b.reject(fmt.Errorf("provider token exchange: %w", err))
		return fmt.Errorf("%w: provider token exchange failed", ErrSignInRejected)
	}

	if err := b.completeSignIn(ctx, providerToken); err != nil {
		b.reject(err)
		return fmt.Errorf("%w: %v", ErrSignInRejected, err)
	}
	return nil
}

// Rehydrate rebuilds the session from the provider's persisted session,
// refreshing the provider token if it has expired. Without a persisted
// session, or when the provider no longer validates the identity, the
// session is published unauthenticated. Rehydration failures are
// silent by design.
func (b *Bridge) Rehydrate(ctx context.Context) {
	stored, ok := b.readSession()
	if !ok {
		b.publisher.Publish(Unauthenticated())
		return
	}

	// The token source refreshes only when the provider token expired,
	// so an unexpired session rehydrates without any network call.
	fresh, err := b.cfg.TokenSource(ctx, stored.Provider).Token()
	if err != nil {
		b.reject(fmt.Errorf("provider re-validation: %w", err))
		return
	}

	if fresh.AccessToken != stored.Provider.AccessToken {
		stored.Provider = fresh
		b.writeSession(stored)
	}

	b.publisher.Publish(Authenticated(stored.Token, stored.User, stored.Profile))
	b.logger.Debug("Session rehydrated", log.FieldEmail, stored.Profile.Email)
}

// SignOut destroys the persisted session and publishes the transition.
func (b *Bridge) SignOut() {
	b.removeSession()
	b.publisher.Publish(Unauthenticated())
	b.logger.Info("Signed out", log.FieldOperation, log.OpSignOut)
}

// googleUserinfo is the production FetchUserinfo: the openidconnect
// userinfo endpoint queried with the freshly exchanged token.
func googleUserinfo(ctx context.Context, ts oauth2.TokenSource) (core.ProviderProfile, error) {
	svc, err := goauth2.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return core.ProviderProfile{}, fmt.Errorf("userinfo service: %w", err)
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return core.ProviderProfile{}, fmt.Errorf("fetch userinfo: %w", err)
	}
	return core.ProviderProfile{
		Name:      info.Name,
		Email:     info.Email,
		AvatarURL: info.Picture,
	}, nil
}

func (b *Bridge) completeSignIn(ctx context.Context, providerToken *oauth2.Token) error {
	ts := b.cfg.TokenSource(ctx, providerToken)

	profile, err := b.opts.FetchUserinfo(ctx, ts)
	if err != nil {
		return err
	}
	// The backend exchange must never run with an empty email.
	if err := profile.Validate(); err != nil {
		return err
	}

	first, last := profile.FirstLast()
	var avatar *string
	if profile.AvatarURL != "" {
		avatar = &profile.AvatarURL
	}

	resp, err := b.api.LoginGoogle(ctx, api.LoginRequest{
		Email:     profile.Email,
		FirstName: first,
		LastName:  last,
		Avatar:    avatar,
	})
	if err != nil {
		return fmt.Errorf("backend exchange: %w", err)
	}
	if resp.AccessToken == "" {
		return errors.New("backend exchange response has no access token")
	}

	// TokenSource may have refreshed the provider token during the
	// userinfo call; persist the current one.
	if fresh, err := ts.Token(); err == nil {
		providerToken = fresh
	}
	b.writeSession(persistedSession{
		Provider: providerToken,
		Token:    resp.AccessToken,
		User:     resp.User,
		Profile:  profile,
	})

	b.publisher.Publish(Authenticated(resp.AccessToken, resp.User, profile))
	b.logger.Info("Signed in",
		log.FieldOperation, log.OpSignIn,
		log.FieldEmail, profile.Email,
		log.FieldUserID, resp.User.ID)
	return nil
}

// awaitAuthorizationCode serves the local callback and blocks until the
// provider redirects back with a code, the flow errors, or time runs
// out.
func (b *Bridge) awaitAuthorizationCode(ctx context.Context, state string) (string, error) {
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	srv := &http.Server{Addr: ":" + b.opts.RedirectPort, Handler: mux}
	// Sends are non-blocking: only the first outcome counts, duplicate
	// redirects just get a response and are dropped.
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		if errStr := r.URL.Query().Get("error"); errStr != "" {
			http.Error(w, "OAuth error: "+errStr, http.StatusBadRequest)
			select {
			case errCh <- fmt.Errorf("provider returned error: %s", errStr):
			default:
			}
			return
		}
		if r.URL.Query().Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			select {
			case errCh <- errors.New("authorization state mismatch"):
			default:
			}
			return
		}
		fmt.Fprintln(w, "You may close this window and return to the terminal.")
		select {
		case codeCh <- r.URL.Query().Get("code"):
			go func() { time.Sleep(500 * time.Millisecond); _ = srv.Close() }()
		default:
		}
	})
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("callback server: %w", err)
		}
	}()
	defer srv.Close()

	b.opts.PromptURL(b.cfg.AuthCodeURL(state, oauth2.AccessTypeOffline))

	select {
	case code := <-codeCh:
		return code, nil
	case err := <-errCh:
		return "", err
	case <-time.After(b.opts.AuthTimeout):
		return "", errors.New("authorization timed out")
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// reject tears the provider session down and publishes the failure as
// an unauthenticated state. Swallowed by design: the caller reports a
// generic rejection.
func (b *Bridge) reject(reason error) {
	b.logger.Warn("Sign-in rejected",
		log.FieldOperation, log.OpSignIn,
		log.FieldError, reason.Error())
	b.removeSession()
	b.publisher.Publish(Unauthenticated())
}

func (b *Bridge) readSession() (persistedSession, bool) {
	var stored persistedSession
	raw, err := os.ReadFile(b.opts.SessionPath)
	if err != nil {
		return stored, false
	}
	if err := json.Unmarshal(raw, &stored); err != nil || stored.Provider == nil || stored.Token == "" {
		b.logger.Warn("Discarding unreadable session file", log.FieldError, fmt.Sprintf("%v", err))
		b.removeSession()
		return persistedSession{}, false
	}
	return stored, true
}

func (b *Bridge) writeSession(stored persistedSession) {
	if err := os.MkdirAll(filepath.Dir(b.opts.SessionPath), 0700); err != nil {
		b.logger.Error("Failed to create session directory", log.FieldError, err.Error())
		return
	}
	payload, err := json.Marshal(stored)
	if err != nil {
		b.logger.Error("Failed to encode session", log.FieldError, err.Error())
		return
	}
	if err := os.WriteFile(b.opts.SessionPath, payload, 0600); err != nil {
		b.logger.Error("Failed to persist session", log.FieldError, err.Error())
	}
}

func (b *Bridge) removeSession() {
	if err := os.Remove(b.opts.SessionPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		b.logger.Warn("Failed to remove session file", log.FieldError, err.Error())
	}
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
