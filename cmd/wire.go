package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	authadapter "github.com/bnema/tracker-accounts-cli/internal/adapters/auth"
	"github.com/bnema/tracker-accounts-cli/internal/adapters/backend"
	promrecorder "github.com/bnema/tracker-accounts-cli/internal/adapters/metrics/prometheus"
	statusadapter "github.com/bnema/tracker-accounts-cli/internal/adapters/render/status"
	tomlrepo "github.com/bnema/tracker-accounts-cli/internal/adapters/repo/toml"
	chainstore "github.com/bnema/tracker-accounts-cli/internal/adapters/secrets/chain"
	filestore "github.com/bnema/tracker-accounts-cli/internal/adapters/secrets/file"
	passstore "github.com/bnema/tracker-accounts-cli/internal/adapters/secrets/pass"
	"github.com/bnema/tracker-accounts-cli/internal/adapters/terminal"
	"github.com/bnema/tracker-accounts-cli/internal/application"
	"github.com/bnema/tracker-accounts-cli/internal/logging"
	"github.com/bnema/tracker-accounts-cli/internal/ports"
	"github.com/bnema/tracker-accounts-cli/internal/version"
	"github.com/google/uuid"
	"github.com/spf13/viper"
)

const (
	configDirName = "tracker-accounts"
	envPrefix     = "TA"

	keySecretsDir     = "secrets.dir"
	keySecretsBackend = "secrets.backend"
	keyPassStoreDir   = "secrets.pass_dir"
	keyPassBinary     = "secrets.pass_binary"
	keyLogLevel       = "log.level"
	keyLogFormat      = "log.format"
	keyHTTPTimeout    = "http.timeout"
	keyLoginTimeout   = "login.timeout"
	keyPushEnabled    = "push.enabled"
	keyMetricsFile    = "metrics.textfile"
	keyDeviceIDPath   = "device.id_path"

	secretsBackendChain = "chain"
	secretsBackendFile  = "file"
)

type app struct {
	orchestrator   *application.Orchestrator
	login          ports.LoginFlow
	navigator      *terminal.Navigator
	metrics        *promrecorder.Recorder
	metricsPath    string
	console        *console
	logger         *slog.Logger
	statusRenderer func(application.Status, statusadapter.RenderOptions) (string, error)
	now            func() time.Time
}

func wireApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	out := &console{}
	logger := logging.New(cfg.GetString(keyLogLevel), cfg.GetString(keyLogFormat), out)

	secrets, err := wireSecretStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	repo, err := tomlrepo.NewRepository(cfg, secrets, logger)
	if err != nil {
		return nil, fmt.Errorf("wire account repository: %w", err)
	}

	httpTimeout := cfg.GetDuration(keyHTTPTimeout)
	clientOpts := []backend.Option{
		backend.WithTimeout(httpTimeout),
		backend.WithUserAgent("tracker-accounts-cli/" + version.Version),
		backend.WithLogger(logger),
	}
	pushEnabled := cfg.GetBool(keyPushEnabled)
	if pushEnabled {
		deviceID, err := loadDeviceID(cfg.GetString(keyDeviceIDPath))
		if err != nil {
			return nil, err
		}
		clientOpts = append(clientOpts, backend.WithDeviceID(deviceID))
	}
	client := backend.NewClient(clientOpts...)

	login := &authadapter.LoginFlow{
		RequestTimeout: httpTimeout,
		PollTimeout:    cfg.GetDuration(keyLoginTimeout),
		Prompt: func(code authadapter.DeviceCodeResult) {
			_, _ = fmt.Fprintf(out, "Open %s and enter the code %s to sign in.\n", code.VerificationURL, code.UserCode)
		},
	}

	navigator := terminal.NewNavigator(out)
	recorder := promrecorder.NewRecorder()

	deps := application.Dependencies{
		Store:       repo,
		Configs:     client,
		Login:       login,
		Backend:     client,
		Permissions: client,
		Notifier:    terminal.NewNotifier(out, logger),
		Navigator:   navigator,
		Metrics:     recorder,
		Clock:       ports.SystemClock{},
		Logger:      logger,
		AppVersion:  version.Version,
	}
	if pushEnabled {
		deps.Push = client
	}

	return &app{
		orchestrator:   application.NewOrchestrator(deps),
		login:          login,
		navigator:      navigator,
		metrics:        recorder,
		metricsPath:    cfg.GetString(keyMetricsFile),
		console:        out,
		logger:         logger,
		statusRenderer: statusadapter.Render,
		now:            time.Now,
	}, nil
}

// finish waits for the background session work of the command and exports metrics.
func (a *app) finish() {
	a.orchestrator.Wait()
	if err := a.metrics.WriteTextfile(a.metricsPath); err != nil {
		a.logger.Warn("write metrics textfile failed", slog.String("path", a.metricsPath), slog.Any("error", err))
	}
}

func loadConfig() (*viper.Viper, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve config directory: %w", err)
	}
	baseDir := filepath.Join(configDir, configDirName)

	cfg := viper.New()
	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	cfg.SetDefault(tomlrepo.StatePathKey, filepath.Join(baseDir, "accounts.toml"))
	cfg.SetDefault(keySecretsDir, filepath.Join(baseDir, "secrets"))
	cfg.SetDefault(keySecretsBackend, secretsBackendChain)
	cfg.SetDefault(keyPassStoreDir, "")
	cfg.SetDefault(keyPassBinary, "pass")
	cfg.SetDefault(keyLogLevel, "warn")
	cfg.SetDefault(keyLogFormat, logging.FormatText)
	cfg.SetDefault(keyHTTPTimeout, 30*time.Second)
	cfg.SetDefault(keyLoginTimeout, 10*time.Minute)
	cfg.SetDefault(keyPushEnabled, true)
	cfg.SetDefault(keyMetricsFile, "")
	cfg.SetDefault(keyDeviceIDPath, filepath.Join(baseDir, "device-id"))

	if explicit := os.Getenv(envPrefix + "_CONFIG"); explicit != "" {
		cfg.SetConfigFile(explicit)
	} else {
		cfg.SetConfigName("config")
		cfg.SetConfigType("toml")
		cfg.AddConfigPath(baseDir)
	}

	if err := cfg.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return cfg, nil
}

func wireSecretStore(cfg *viper.Viper, logger *slog.Logger) (ports.SecretStore, error) {
	root := cfg.GetString(keySecretsDir)
	switch backendName := strings.ToLower(cfg.GetString(keySecretsBackend)); backendName {
	case secretsBackendFile:
		return filestore.NewStore(root), nil
	case secretsBackendChain, "":
		store, err := chainstore.NewPassFirstWithFileFallback(root, logger,
			passstore.WithStoreDir(cfg.GetString(keyPassStoreDir)),
			passstore.WithBinary(cfg.GetString(keyPassBinary)),
		)
		if err != nil {
			return nil, fmt.Errorf("wire secret store chain: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown secrets backend %q (want %s or %s)", backendName, secretsBackendChain, secretsBackendFile)
	}
}

// loadDeviceID returns the installation id used for push subscriptions, creating it
// on first use.
func loadDeviceID(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		if id, parseErr := uuid.Parse(strings.TrimSpace(string(data))); parseErr == nil {
			return id.String(), nil
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("read device id: %w", err)
	}

	id := uuid.NewString()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("create device id directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(id+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("write device id: %w", err)
	}
	return id, nil
}

// console forwards to the error stream of the running command. Adapters are wired
// before cobra knows its output streams.
type console struct {
	mu sync.Mutex
	w  io.Writer
}

func (c *console) bind(w io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.w = w
}

func (c *console) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.w == nil {
		return os.Stderr.Write(p)
	}
	return c.w.Write(p)
}
