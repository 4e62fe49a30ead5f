package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/avocadoapp/identity/api"
	"github.com/avocadoapp/identity/auth"
	"github.com/avocadoapp/identity/pkg/config"
	"github.com/avocadoapp/identity/pkg/email"
	"github.com/avocadoapp/identity/pkg/httpserver"
	"github.com/avocadoapp/identity/pkg/logger"
	mongoconn "github.com/avocadoapp/identity/pkg/mongo"
	redisconn "github.com/avocadoapp/identity/pkg/redis"
	"github.com/avocadoapp/identity/storage/mongodb"
	"github.com/avocadoapp/identity/storage/redisstate"
)

type appConfig struct {
	Environment   string `env:"APP_ENV" envDefault:"development"`
	JWTSigningKey string `env:"JWT_SIGNING_KEY,required"`
	PostLoginURL  string `env:"POST_LOGIN_URL" envDefault:"/"`

	HTTP  httpserver.Config
	Mongo mongoconn.Config
	Redis redisconn.Config
	Email email.Config

	Google   auth.GoogleConfig
	Facebook auth.FacebookConfig
	Discord  auth.DiscordConfig
	Twitter  auth.TwitterConfig
}

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.WithEnvironment(cfg.Environment, "identity"))

	mongoClient, err := mongoconn.Connect(ctx, cfg.Mongo)
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	store := mongodb.New(mongoClient.Database(cfg.Mongo.Database))
	if err := store.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	redisClient, err := redisconn.Connect(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() { _ = redisClient.Close() }()

	tokens, err := auth.NewTokenService(cfg.JWTSigningKey)
	if err != nil {
		return fmt.Errorf("token service: %w", err)
	}

	sender := newSender(cfg.Email, log)

	linker := auth.NewAccountLinker(store, tokens, auth.WithLinkerLogger(log))
	mutator := auth.NewProfileMutator(store,
		auth.WithMutatorLogger(log),
		auth.WithAfterEmailChange(emailChangeNotice(sender)),
	)

	a := api.New(linker, mutator, tokens, store, redisstate.New(redisClient),
		[]auth.ProviderAdapter{
			auth.NewGoogleAdapter(cfg.Google),
			auth.NewFacebookAdapter(cfg.Facebook),
			auth.NewDiscordAdapter(cfg.Discord),
			auth.NewTwitterAdapter(cfg.Twitter),
		},
		api.WithLogger(log),
		api.WithSecureCookies(cfg.Environment == "production"),
		api.WithPostLoginURL(cfg.PostLoginURL),
		api.WithHealthcheck("mongo", mongoconn.Healthcheck(mongoClient)),
		api.WithHealthcheck("redis", redisconn.Healthcheck(redisClient)),
	)

	log.Info("starting server",
		slog.String("addr", cfg.HTTP.Addr),
		slog.String("environment", cfg.Environment),
	)
	return httpserver.Run(ctx, cfg.HTTP, a.Router(), log)
}

// newSender picks Postmark when a server token is configured and falls
// back to logging outgoing mail otherwise.
func newSender(cfg email.Config, log *slog.Logger) email.Sender {
	if cfg.PostmarkServerToken == "" {
		log.Info("postmark not configured, email notices go to the log")
		return email.NewLogSender(log)
	}
	sender, err := email.NewPostmarkSender(cfg)
	if err != nil {
		log.Error("postmark sender misconfigured, falling back to log", logger.Error(err))
		return email.NewLogSender(log)
	}
	return sender
}

// emailChangeNotice notifies the previous address that the account's
// email was changed.
func emailChangeNotice(sender email.Sender) func(context.Context, *auth.Account, string) error {
	return func(ctx context.Context, acct *auth.Account, oldEmail string) error {
		return sender.Send(ctx, email.Message{
			To:      oldEmail,
			Subject: "Your account email was changed",
			BodyHTML: fmt.Sprintf(
				"<p>Hi %s,</p><p>The email on your account was changed to <b>%s</b>. If this wasn't you, contact support immediately.</p>",
				acct.Username, acct.Email,
			),
			Tag: "email-change-notice",
		})
	}
}
