package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"relief/internal/auth"
	"relief/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/securecookie"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var decoder = form.NewDecoder()

type Requests interface {
	List(ctx context.Context, c *types.Caller) ([]*types.ProductRequestView, error)
	Get(ctx context.Context, c *types.Caller, requestID string) (*types.ProductRequestView, error)
	Create(ctx context.Context, c *types.Caller, in *types.RequestInput) (*types.ProductRequestView, error)
	Update(ctx context.Context, c *types.Caller, requestID string, in *types.RequestInput, full bool) (*types.ProductRequestView, error)
	Delete(ctx context.Context, c *types.Caller, requestID string) error
}

type Inventory interface {
	List(ctx context.Context, c *types.Caller, centerID *string) ([]*types.InventoryItemView, error)
	Get(ctx context.Context, c *types.Caller, itemID string) (*types.InventoryItemView, error)
	Create(ctx context.Context, c *types.Caller, in *types.CreateInventoryInput) (*types.InventoryItemView, error)
	UpdateQuantity(ctx context.Context, c *types.Caller, itemID string, in *types.UpdateInventoryInput) (*types.InventoryItemView, error)
}

type Donations interface {
	List(ctx context.Context, c *types.Caller) ([]*types.Donation, error)
	Create(ctx context.Context, c *types.Caller, in *types.CreateDonationInput) (*types.Donation, error)
}

type Accounts interface {
	Register(ctx context.Context, in *types.RegisterInput) (*types.Account, *types.Profile, error)
	UpdateProfile(ctx context.Context, c *types.Caller, profileID string, update *types.ProfileUpdate) (*types.Profile, error)
}

type Identity interface {
	ConfirmSignUp(ctx context.Context, username, code string) error
	Login(ctx context.Context, username, password string) (*auth.Session, error)
	Logout(ctx context.Context, accessToken string) error
}

type Verifier interface {
	Verify(ctx context.Context, raw string) (*auth.Claims, error)
}

// Directory resolves accounts and profiles. *store.AccountRepository satisfies it.
type Directory interface {
	Caller(ctx context.Context, accountID string) (*types.Caller, error)
	Account(ctx context.Context, accountID string) (*types.Account, error)
	Profile(ctx context.Context, profileID string) (*types.Profile, error)
}

type ProductTypes interface {
	ProductTypes(ctx context.Context) ([]*types.ProductType, error)
	Create(ctx context.Context, pt *types.ProductType) error
}

type Centers interface {
	Centers(ctx context.Context) ([]*types.DistributionCenter, error)
	Center(ctx context.Context, centerID string) (*types.DistributionCenter, error)
	Create(ctx context.Context, center *types.DistributionCenter) error
	SetAdmin(ctx context.Context, centerID string, profileID *string) error
}

type Organizations interface {
	Organizations(ctx context.Context) ([]*types.OrganizationView, error)
	Organization(ctx context.Context, orgID string) (*types.OrganizationView, error)
	Create(ctx context.Context, org *types.Organization) error
	SetAdmin(ctx context.Context, orgID string, profileID *string) error
}

// Backends are the components the HTTP surface delegates to.
type Backends struct {
	Requests      Requests
	Inventory     Inventory
	Donations     Donations
	Accounts      Accounts
	Identity      Identity
	Verifier      Verifier
	Directory     Directory
	ProductTypes  ProductTypes
	Centers       Centers
	Organizations Organizations
}

type Service struct {
	logger   *logrus.Logger
	config   *types.Config
	backends Backends

	cookie   *securecookie.SecureCookie
	validate *validator.Validate
	metrics  *metrics
	registry *prometheus.Registry

	handler http.Handler
	server  *http.Server
}

func New(config *types.Config, logger *logrus.Logger, backends Backends) (*Service, error) {
	hashKey, err := base64.StdEncoding.DecodeString(config.CookieHashKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cookie hash key: %w", err)
	}
	blockKey, err := base64.StdEncoding.DecodeString(config.CookieBlockKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cookie block key: %w", err)
	}

	// Sessions do not survive a restart without configured keys.
	if len(hashKey) == 0 || len(blockKey) == 0 {
		logger.Warn("cookie keys not configured, generating ephemeral keys")
		hashKey = securecookie.GenerateRandomKey(32)
		blockKey = securecookie.GenerateRandomKey(32)
	}

	registry := prometheus.NewRegistry()

	s := &Service{
		logger:   logger,
		config:   config,
		backends: backends,
		cookie:   securecookie.New(hashKey, blockKey),
		validate: newValidator(),
		metrics:  newMetrics(registry),
		registry: registry,
	}

	mux := flow.New()
	s.buildRouter(mux)

	// Path rewriting and CORS run ahead of route matching.
	s.handler = s.StripTrailingSlash(s.LoggingMiddleware(s.MetricsMiddleware(s.CORS(mux))))

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", config.ServerPort),
		Handler:           s.handler,
		ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
		ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	return s, nil
}

func (s *Service) Handler() http.Handler {
	return s.handler
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}), http.MethodGet)

	r.HandleFunc("/product-types", s.handleListProductTypes, http.MethodGet)
	r.HandleFunc("/distribution-centers", s.handleListCenters, http.MethodGet)
	r.HandleFunc("/organizations", s.handleListOrganizations, http.MethodGet)

	r.HandleFunc("/sms/webhook", s.handleSMSWebhook, http.MethodPost)

	r.HandleFunc("/auth/registration", s.handleRegister, http.MethodPost)
	r.HandleFunc("/auth/registration/confirm", s.handleConfirmRegistration, http.MethodPost)
	r.HandleFunc("/auth/login", s.handleLogin, http.MethodPost)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)

		r.HandleFunc("/auth/logout", s.handleLogout, http.MethodPost)
		r.HandleFunc("/auth/user", s.handleCurrentUser, http.MethodGet)

		r.HandleFunc("/product-types", s.handleCreateProductType, http.MethodPost)
		r.HandleFunc("/distribution-centers", s.handleCreateCenter, http.MethodPost)
		r.HandleFunc("/distribution-centers/:id/admin", s.handleSetCenterAdmin, http.MethodPut)
		r.HandleFunc("/organizations", s.handleCreateOrganization, http.MethodPost)
		r.HandleFunc("/organizations/:id/admin", s.handleSetOrganizationAdmin, http.MethodPut)
		r.HandleFunc("/profiles/:id", s.handleUpdateProfile, http.MethodPatch)

		r.HandleFunc("/product-requests", s.handleListRequests, http.MethodGet)
		r.HandleFunc("/product-requests", s.handleCreateRequest, http.MethodPost)
		r.HandleFunc("/product-requests/:id", s.handleGetRequest, http.MethodGet)
		r.HandleFunc("/product-requests/:id", s.handlePutRequest, http.MethodPut)
		r.HandleFunc("/product-requests/:id", s.handlePatchRequest, http.MethodPatch)
		r.HandleFunc("/product-requests/:id", s.handleDeleteRequest, http.MethodDelete)

		r.HandleFunc("/inventory", s.handleListInventory, http.MethodGet)
		r.HandleFunc("/inventory", s.handleCreateInventory, http.MethodPost)
		r.HandleFunc("/inventory/:id", s.handleGetInventory, http.MethodGet)
		r.HandleFunc("/inventory/:id", s.handlePatchInventory, http.MethodPatch)

		r.HandleFunc("/donations", s.handleListDonations, http.MethodGet)
		r.HandleFunc("/donations", s.handleCreateDonation, http.MethodPost)
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
