// Package rosepay composes the client SDK: configuration, logging, the
// durable session store, the request gateway, the typed API client, the
// notification hub, and the money-movement workflow. A UI surface embeds an
// App and supplies the Navigation it renders against.
package rosepay

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/rosepay/client-go/config"
	"github.com/rosepay/client-go/gateway"
	"github.com/rosepay/client-go/notify"
	"github.com/rosepay/client-go/pkg/logger"
	"github.com/rosepay/client-go/session"
	"github.com/rosepay/client-go/walletapi"
	"github.com/rosepay/client-go/workflow"
)

// Navigation is implemented by the embedding surface: the gateway forces the
// login route on an authorization failure, the workflow defers the dashboard
// route after a successful submission.
type Navigation interface {
	gateway.Navigator
	workflow.Navigator
}

// App is a fully wired client.
type App struct {
	Config        *config.Config
	Log           zerolog.Logger
	Sessions      session.Store
	Gateway       *gateway.Gateway
	API           *walletapi.Client
	Notifications *notify.Hub

	nav Navigation
}

// New wires an App from cfg. nav may be nil for headless use.
func New(cfg *config.Config, nav Navigation) (*App, error) {
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	store, err := session.NewFileStore(cfg.SessionDir)
	if err != nil {
		return nil, err
	}

	var gwNav gateway.Navigator
	if nav != nil {
		gwNav = nav
	}

	gw := gateway.New(gateway.Options{
		BaseURL:    cfg.APIBaseURL,
		Sessions:   store,
		Navigator:  gwNav,
		HTTPClient: &http.Client{Timeout: cfg.HTTPTimeout},
		Logger:     log,
	})

	return &App{
		Config:        cfg,
		Log:           log,
		Sessions:      store,
		Gateway:       gw,
		API:           walletapi.NewClient(gw, store),
		Notifications: notify.NewHub(log),
		nav:           nav,
	}, nil
}

// Start launches background delivery. It stops when ctx is cancelled.
func (a *App) Start(ctx context.Context) {
	a.Notifications.Start(ctx)
}

// NewTransferWorkflow creates a fresh money-movement workflow instance.
// Each mounted form gets its own; Close it on unmount.
func (a *App) NewTransferWorkflow() *workflow.Workflow {
	var nav workflow.Navigator
	if a.nav != nil {
		nav = a.nav
	}
	return workflow.New(workflow.Options{
		API:             a.API,
		Notifier:        a.Notifications,
		Navigator:       nav,
		NavigationDelay: a.Config.NavigationDelay,
		Logger:          a.Log,
	})
}
