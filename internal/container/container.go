// Package container wires the statement pipeline for the CLI and the HTTP server.
package container

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/garyjia/invoice-bundler/internal/application/service"
	"github.com/garyjia/invoice-bundler/internal/bundle"
	"github.com/garyjia/invoice-bundler/internal/config"
	httpapi "github.com/garyjia/invoice-bundler/internal/interfaces/http"
	"github.com/garyjia/invoice-bundler/internal/invoice"
	"github.com/garyjia/invoice-bundler/internal/statement"
	"github.com/garyjia/invoice-bundler/internal/storage"
	"github.com/garyjia/invoice-bundler/internal/workbook"
)

// Container manages all application dependencies and lifecycle.
// Components are built in dependency order by Start.
type Container struct {
	config *config.Config
	logger *zap.Logger

	// Infrastructure - Storage
	fileStorage *storage.LocalFileStorage
	runFolders  *storage.RunFolders

	// Pipeline
	reader    *workbook.Reader
	processor *invoice.Processor
	renderer  *statement.Renderer
	extractor *statement.TextExtractor
	bundler   *bundle.Bundler

	// Application
	statementService service.StatementService

	// Lifecycle
	mu     sync.RWMutex
	ready  atomic.Bool
	closed atomic.Bool
}

// HealthStatus represents the health of all components.
type HealthStatus struct {
	Overall    bool                       `json:"overall"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents health of a single component.
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// NewContainer creates a new container from configuration.
// It does not initialize components - call Start() to initialize.
func NewContainer(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Container{
		config: cfg,
		logger: logger,
	}, nil
}

// Start initializes all components.
// 1. Storage
// 2. Pipeline components
// 3. Application services
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}
	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	c.logger.Info("Starting container initialization")

	// Step 1: Storage
	c.initStorage()
	c.logger.Info("Storage initialized", zap.String("output_dir", c.config.Output.Dir))

	// Step 2: Pipeline
	c.initPipeline()
	c.logger.Info("Pipeline initialized")

	// Step 3: Services
	c.initServices()
	c.logger.Info("Services initialized")

	c.ready.Store(true)
	c.logger.Info("Container started successfully")

	return nil
}

// Close releases the container. No component holds external resources.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	c.closed.Store(true)
	c.ready.Store(false)
	_ = c.logger.Sync()

	return nil
}

// Ready returns true when all components are initialized.
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Health returns health status of all components.
func (c *Container) Health() *HealthStatus {
	status := &HealthStatus{
		Overall:    c.ready.Load(),
		Components: make(map[string]ComponentHealth),
	}

	if c.statementService != nil {
		status.Components["statement_service"] = ComponentHealth{Healthy: true}
	} else {
		status.Components["statement_service"] = ComponentHealth{
			Healthy: false,
			Message: "not initialized",
		}
		status.Overall = false
	}

	// A missing logo only degrades the rendered header
	if logo := c.config.Company.LogoPath; logo != "" {
		if _, err := os.Stat(logo); err != nil {
			status.Components["logo"] = ComponentHealth{
				Healthy: false,
				Message: fmt.Sprintf("logo unavailable: %v", err),
			}
		} else {
			status.Components["logo"] = ComponentHealth{Healthy: true}
		}
	}

	return status
}

func (c *Container) initStorage() {
	c.fileStorage = storage.NewLocalFileStorage(c.config.Output.Dir, c.logger)
	c.runFolders = storage.NewRunFolders(c.config.Output.Dir, c.logger)
}

func (c *Container) initPipeline() {
	c.reader = workbook.NewReader(c.logger)
	c.processor = invoice.NewProcessor(c.logger)
	c.renderer = statement.NewRenderer(c.logger)
	c.extractor = statement.NewTextExtractor(c.logger)
	c.bundler = bundle.NewBundler(bundle.Config{
		Prefix:      c.config.Statement.FilePrefix,
		Extension:   c.config.Statement.Extension,
		ArchiveName: c.config.Statement.ArchiveName,
	}, c.logger)
}

func (c *Container) initServices() {
	c.statementService = service.NewStatementService(service.Dependencies{
		Reader:            c.reader,
		Processor:         c.processor,
		Renderer:          c.renderer,
		Totals:            c.extractor,
		Bundler:           c.bundler,
		Storage:           c.fileStorage,
		RunFolders:        c.runFolders,
		Company:           c.config.Company,
		AllowedExtensions: c.config.Upload.AllowedExtensions,
	}, &zapLoggerAdapter{logger: c.logger})
}

// StatementService returns the statement service; Start must have been called.
func (c *Container) StatementService() service.StatementService {
	return c.statementService
}

// HTTPServer builds the HTTP server over the statement service.
func (c *Container) HTTPServer() (*httpapi.Server, error) {
	if !c.ready.Load() {
		return nil, fmt.Errorf("container not started")
	}
	return httpapi.NewServer(httpapi.ServerConfig{
		Host:           c.config.Server.Host,
		Port:           c.config.Server.Port,
		ReadTimeout:    c.config.Server.ReadTimeout,
		WriteTimeout:   c.config.Server.WriteTimeout,
		MaxUploadBytes: c.config.Upload.MaxBytes,
	}, c.statementService, &zapLoggerAdapter{logger: c.logger.Named("http")}), nil
}

// Logger returns the root logger.
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Config returns the configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// zapLoggerAdapter adapts zap.Logger to the key/value Logger interfaces
// of the service and http packages.
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Info(msg, convertToZapFields(keysAndValues...)...)
}

func (a *zapLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Error(msg, convertToZapFields(keysAndValues...)...)
}

// convertToZapFields converts key-value pairs to zap fields.
func convertToZapFields(keysAndValues ...interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		if err, ok := keysAndValues[i+1].(error); ok {
			fields = append(fields, zap.NamedError(key, err))
			continue
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}
