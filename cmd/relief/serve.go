package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"relief/internal/accounts"
	"relief/internal/auth"
	"relief/internal/db"
	"relief/internal/donations"
	"relief/internal/inventory"
	"relief/internal/requests"
	"relief/internal/server"
	"relief/internal/store"

	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(cCtx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	config, err := loadConfig()
	if err != nil {
		return err
	}

	logger := newLogger(config)

	awsConfig, err := loadAWSConfig(ctx)
	if err != nil {
		return err
	}

	pool, err := db.Connect(ctx, config)
	if err != nil {
		return err
	}
	defer pool.Close()

	accountRepo := store.NewAccountRepository(pool)
	organizationRepo := store.NewOrganizationRepository(pool)
	centerRepo := store.NewCenterRepository(pool)
	productTypeRepo := store.NewProductTypeRepository(pool)
	requestRepo := store.NewRequestRepository(pool)
	inventoryRepo := store.NewInventoryRepository(pool)
	donationRepo := store.NewDonationRepository(pool)

	cognito := auth.NewCognito(cognitoidentityprovider.NewFromConfig(awsConfig), config.CognitoClientID, config.CognitoUserPoolID)

	jwkCache, err := auth.NewJWKSCache(ctx, config.CognitoIssuerURL)
	if err != nil {
		return err
	}

	var checkout donations.Checkout
	if config.StripeSecretKey != "" {
		checkout = donations.NewStripeCheckout(config.StripeSecretKey, config.DonationSuccessURL, config.DonationCancelURL)
	} else {
		logger.Warn("STRIPE_SECRET_KEY not set, donations are disabled")
	}

	srv, err := server.New(config, logger, server.Backends{
		Requests:      requests.New(logger, requestRepo, productTypeRepo),
		Inventory:     inventory.New(logger, inventoryRepo),
		Donations:     donations.New(logger, donationRepo, checkout, config.DonationCurrency),
		Accounts:      accounts.NewRegistrar(logger, cognito, accountRepo),
		Identity:      cognito,
		Verifier:      auth.NewVerifier(jwkCache, config.CognitoIssuerURL, config.CognitoClientID),
		Directory:     accountRepo,
		ProductTypes:  productTypeRepo,
		Centers:       centerRepo,
		Organizations: organizationRepo,
	})
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}
