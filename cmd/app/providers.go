package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/faq-agent/internal/domain/assistant"
	"github.com/yanqian/faq-agent/internal/domain/auth"
	"github.com/yanqian/faq-agent/internal/domain/faq"
	"github.com/yanqian/faq-agent/internal/infra/archive"
	"github.com/yanqian/faq-agent/internal/infra/config"
	"github.com/yanqian/faq-agent/internal/infra/embedder"
	"github.com/yanqian/faq-agent/internal/infra/faqrepo"
	"github.com/yanqian/faq-agent/internal/infra/faqstore"
	"github.com/yanqian/faq-agent/internal/infra/llm/chatgpt"
	"github.com/yanqian/faq-agent/internal/infra/mail"
	"github.com/yanqian/faq-agent/internal/infra/notify"
	"github.com/yanqian/faq-agent/internal/infra/queue"
	"github.com/yanqian/faq-agent/internal/infra/sessionstore"
	"github.com/yanqian/faq-agent/internal/infra/tokenizer"
	"github.com/yanqian/faq-agent/internal/infra/tools/arte"
	"github.com/yanqian/faq-agent/internal/infra/tools/invoice"
	"github.com/yanqian/faq-agent/internal/infra/tools/webtext"
	"github.com/yanqian/faq-agent/internal/infra/userrepo"
)

const (
	deterministicEmbeddingModel = "deterministic"
	// matches the vector(1536) column in migrations/001_init.sql
	deterministicDimensions = 1536
)

func provideChatGPTClient(cfg *config.Config) (*chatgpt.Client, error) {
	return chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL)
}

func provideFAQConfig(cfg *config.Config) faq.Config {
	return faq.Config{
		Model:               cfg.LLM.Model,
		Temperature:         cfg.LLM.Temperature,
		TranslationPrompt:   cfg.FAQ.TranslationPrompt,
		SimilarityThreshold: cfg.FAQ.SimilarityThreshold,
		CacheTTL:            cfg.FAQ.CacheTTL,
		TopRecommendations:  cfg.FAQ.TopRecommendations,
	}
}

func provideAssistantConfig(cfg *config.Config) assistant.Config {
	return assistant.Config{
		Model:              cfg.LLM.Model,
		Temperature:        cfg.LLM.Temperature,
		SystemPrompt:       cfg.Assistant.SystemPrompt,
		MaxToolRounds:      cfg.Assistant.MaxToolRounds,
		RequestTimeout:     cfg.LLM.RequestTimeout,
		ToolTimeout:        cfg.Assistant.ToolTimeout,
		ToolConcurrency:    cfg.Assistant.ToolConcurrency,
		HistoryTokenBudget: cfg.Assistant.HistoryTokenBudget,
	}
}

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		Secret:          cfg.Auth.Secret,
		TokenTTL:        cfg.Auth.TokenTTL,
		RefreshTokenTTL: cfg.Auth.RefreshTokenTTL,
		AdminEmails:     cfg.Auth.AdminEmails,
		Google: auth.GoogleConfig{
			ClientID:             cfg.Auth.Google.ClientID,
			ClientSecret:         cfg.Auth.Google.ClientSecret,
			RedirectURL:          cfg.Auth.Google.RedirectURL,
			TokenEncryptionKey:   cfg.Auth.Google.TokenEncryptionKey,
			PostLoginRedirectURL: cfg.Auth.Google.PostLoginRedirectURL,
		},
	}
}

func provideMailConfig(cfg *config.Config) mail.Config {
	return mail.Config{
		Host:      cfg.Mail.Host,
		Port:      cfg.Mail.Port,
		Username:  cfg.Mail.Username,
		Password:  cfg.Mail.Password,
		From:      cfg.Mail.From,
		Signature: cfg.Mail.Signature,
		StartTLS:  cfg.Mail.StartTLS,
		Timeout:   cfg.Mail.Timeout,
	}
}

// providePostgresPool returns a nil pool when Postgres is not configured or unreachable;
// repositories then fall back to memory.
func providePostgresPool(cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, func()) {
	dsn := strings.TrimSpace(cfg.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory repositories")
		return nil, func() {}
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repositories", "error", err)
		return nil, func() {}
	}
	if cfg.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repositories", "error", err)
		return nil, func() {}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repositories", "error", err)
		pool.Close()
		return nil, func() {}
	}
	logger.Info("postgres enabled")
	return pool, pool.Close
}

// provideValkeyClient returns nil when Valkey is not configured or unreachable.
func provideValkeyClient(cfg *config.Config, logger *slog.Logger) (valkey.Client, func()) {
	addr := strings.TrimSpace(cfg.Valkey.Addr)
	if addr == "" {
		return nil, func() {}
	}
	opt, err := buildValkeyOptions(addr)
	if err != nil {
		logger.Error("invalid valkey configuration, using in-process stores", "error", err)
		return nil, func() {}
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, using in-process stores", "error", err)
		return nil, func() {}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, using in-process stores", "error", err)
		client.Close()
		return nil, func() {}
	}
	logger.Info("valkey enabled", "addr", addr)
	return client, client.Close
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

func provideFAQRepository(pool *pgxpool.Pool) faq.Repository {
	if pool == nil {
		return faqrepo.NewMemoryRepository()
	}
	return faqrepo.NewPostgresRepository(pool)
}

func provideAuthRepository(pool *pgxpool.Pool) auth.Repository {
	if pool == nil {
		return userrepo.NewMemoryRepository()
	}
	return userrepo.NewPostgresRepository(pool)
}

func provideFAQStore(cfg *config.Config, client valkey.Client) faq.Store {
	if client == nil {
		return faqstore.NewMemoryStore()
	}
	return faqstore.NewValkeyStore(client, cfg.Valkey.Prefix)
}

func provideSessionStore(cfg *config.Config, client valkey.Client, logger *slog.Logger) assistant.SessionStore {
	if cfg.Session.Backend == "valkey" {
		if client != nil {
			return sessionstore.NewValkeyStore(client, cfg.Valkey.Prefix, cfg.Session.TTL)
		}
		logger.Warn("valkey unavailable, sessions kept in process")
	}
	return sessionstore.NewLRUStore(cfg.Session.Capacity, cfg.Session.TTL)
}

func provideJobQueue(cfg *config.Config, client valkey.Client, logger *slog.Logger) (queue.HandlerQueue, func()) {
	var q queue.HandlerQueue
	if client != nil {
		q = queue.NewValkeyQueue(client, cfg.Valkey.Prefix+":jobs", logger)
	} else {
		q = queue.NewImmediateQueue(nil)
	}
	return q, q.Close
}

func provideTokenizer(cfg *config.Config, logger *slog.Logger) assistant.Tokenizer {
	t, err := tokenizer.NewTiktoken(cfg.LLM.Model)
	if err != nil {
		logger.Warn("tiktoken unavailable, estimating token counts", "error", err)
		return tokenizer.Estimate{}
	}
	return t
}

func provideEmbedder(cfg *config.Config, client *chatgpt.Client, counter assistant.Tokenizer, logger *slog.Logger) faq.Embedder {
	if strings.EqualFold(strings.TrimSpace(cfg.LLM.EmbeddingModel), deterministicEmbeddingModel) {
		logger.Info("using deterministic embedder")
		return embedder.NewDeterministicEmbedder(deterministicDimensions)
	}
	return embedder.NewChatGPTEmbedder(client, cfg.LLM.EmbeddingModel, counter, logger)
}

func provideMailer(mailCfg mail.Config, logger *slog.Logger) mail.Mailer {
	if strings.TrimSpace(mailCfg.Host) == "" {
		logger.Info("smtp host not set, outbound mail is logged only")
		return mail.NewLogMailer(mailCfg, logger)
	}
	return mail.NewSMTPMailer(mailCfg, logger)
}

func provideDirectory(cfg *config.Config) *mail.Directory {
	return mail.NewDirectory(cfg.Mail.Directory, cfg.Mail.Fallback)
}

func provideNotifier(cfg *config.Config, q queue.HandlerQueue, mailer mail.Mailer, directory *mail.Directory, logger *slog.Logger) faq.Notifier {
	return notify.NewNotifier(q, mailer, directory, cfg.FAQ.AdminName, logger)
}

// provideArchive returns nil when no bucket is configured; transcripts are then not kept.
func provideArchive(cfg *config.Config, logger *slog.Logger) assistant.Archive {
	a := cfg.Archive
	if strings.TrimSpace(a.Endpoint) == "" {
		return nil
	}
	r2, err := archive.NewR2Archive(a.Endpoint, a.AccessKeyID, a.SecretAccessKey, a.Bucket, a.Region, logger)
	if err != nil {
		logger.Error("transcript archive unavailable", "error", err)
		return nil
	}
	return r2
}

func provideInvoiceChecker() assistant.InvoiceChecker {
	return invoice.NewMockChecker()
}

func provideWebFetcher(cfg *config.Config) assistant.WebFetcher {
	return webtext.NewFetcher(cfg.Tools.WebTimeout, cfg.Tools.WebMaxChars)
}

func provideLiveTV(cfg *config.Config) assistant.LiveTV {
	return arte.NewClient(cfg.Tools.ArteURL)
}
