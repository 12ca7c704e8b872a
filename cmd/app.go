package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-tailor/internal/api"
	"github.com/spigell/resume-tailor/internal/auth"
	"github.com/spigell/resume-tailor/internal/gate"
	"github.com/spigell/resume-tailor/internal/logger"
	"github.com/spigell/resume-tailor/internal/secrets"
)

const (
	signInAttempts = 3
	// sessionAttempts bounds how often one action is retried after signing in again.
	sessionAttempts = 2
)

// application holds everything a command needs. The session holder is created
// once here and shared by every component that talks to the backend.
type application struct {
	config *Config
	logger *zap.Logger
	holder *auth.Holder
	client *api.Client
	// out receives sign-in and session status lines.
	out io.Writer
}

func newApplication() (*application, error) {
	appLogger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		return nil, fmt.Errorf("creating a logger: %w", err)
	}

	config, err := getConfig()
	if err != nil {
		return nil, err
	}

	appLogger.Debug("starting the resume-tailor",
		zap.String("version", version),
		zap.String("config", viper.ConfigFileUsed()),
	)

	provider, err := newProvider(config.Auth)
	if err != nil {
		return nil, err
	}

	sessionFile := strings.TrimSpace(config.SessionFile)
	if sessionFile == "" {
		sessionFile, err = auth.DefaultSessionPath(app)
		if err != nil {
			return nil, err
		}
	}

	holder := auth.NewHolder(provider, auth.NewFileStore(sessionFile), appLogger.Named("auth"))

	client := api.New(
		logger.WithFields(appLogger.Named("api"), logger.StringFields(logger.StringField{Key: logger.FieldAPIURL, Value: config.APIURL})...),
		holder,
		config.APIURL,
	)
	if config.UserAgent != "" {
		client.UserAgent = config.UserAgent
	}

	return &application{
		config: config,
		logger: appLogger,
		holder: holder,
		client: client,
		out:    os.Stdout,
	}, nil
}

// mustApplication builds the application or exits.
func mustApplication() *application {
	a, err := newApplication()
	if err != nil {
		log.Fatalf("starting %s: %v", app, err)
	}
	return a
}

func newProvider(cfg *AuthConfig) (auth.Provider, error) {
	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		return nil, errors.New("auth.url is not configured (set RESUME_TAILOR_AUTH_URL or auth.url in the config file)")
	}

	key, err := secrets.Load(secrets.Source{
		Name:  "auth anon key",
		Value: cfg.AnonKey,
		File:  cfg.AnonKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set RESUME_TAILOR_AUTH_ANON_KEY_FILE or auth.anon-key-file)", err)
	}

	provider, err := auth.NewSupabaseProvider(url, key)
	if err != nil {
		return nil, fmt.Errorf("creating auth provider: %w", err)
	}

	return provider, nil
}

// resolve restores the stored session. While it runs only a neutral
// loading line is shown.
func (a *application) resolve(ctx context.Context) error {
	if gate.Current(a.holder) != gate.Resolving {
		return nil
	}

	fmt.Fprintln(a.out, "Loading...")
	return a.holder.Init(ctx)
}

// authenticate walks the gate until the user is signed in, prompting for
// credentials when there is no session.
func (a *application) authenticate(ctx context.Context) error {
	for {
		switch gate.Current(a.holder) {
		case gate.Resolving:
			if err := a.resolve(ctx); err != nil {
				return err
			}
		case gate.Unauthenticated:
			if err := a.signIn(ctx, a.config.Auth.Email); err != nil {
				return err
			}
		case gate.Authenticated:
			user := a.holder.User()
			a.logger = logger.WithUser(a.logger, user.ID, user.Email)
			return nil
		}
	}
}

// signIn asks for credentials. A password file skips the password prompt;
// otherwise a failed attempt is shown and the prompt repeats.
func (a *application) signIn(ctx context.Context, email string) error {
	password, err := secrets.Lookup(secrets.Source{Name: "password", File: a.config.Auth.PasswordFile})
	if err != nil {
		return err
	}

	attempts := signInAttempts
	if password != "" {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if email == "" {
			email, err = promptLine("Email", "", true)
			if err != nil {
				return err
			}
		}

		secret := password
		if secret == "" {
			secret, err = promptPassword()
			if err != nil {
				return err
			}
		}

		if lastErr = a.holder.SignIn(ctx, email, secret); lastErr == nil {
			fmt.Fprintf(a.out, "Signed in as %s\n", a.holder.User().Email)
			return nil
		}

		fmt.Fprintf(a.out, "Sign in failed: %v\n", lastErr)
	}

	return lastErr
}

// isSessionError reports whether err means the user has to sign in again.
func isSessionError(err error) bool {
	return errors.Is(err, api.ErrSessionExpired) || errors.Is(err, api.ErrNotAuthenticated)
}

// reauthenticate tells the user why the session is gone and walks the gate again.
func (a *application) reauthenticate(ctx context.Context, err error) error {
	fmt.Fprintln(a.out, sessionMessage(err))
	return a.authenticate(ctx)
}

func sessionMessage(err error) string {
	if errors.Is(err, api.ErrSessionExpired) {
		return "Session expired. Please sign in again."
	}
	return "Not authenticated. Please sign in."
}

func promptPassword() (string, error) {
	p := promptui.Prompt{
		Label: "Password",
		Mask:  '*',
		Stdin: promptInput(),
		Validate: func(input string) error {
			if input == "" {
				return errors.New("password is required")
			}
			return nil
		},
	}
	return p.Run()
}
