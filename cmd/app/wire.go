//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/faq-agent/internal/bootstrap"
	"github.com/yanqian/faq-agent/internal/domain/assistant"
	"github.com/yanqian/faq-agent/internal/domain/auth"
	"github.com/yanqian/faq-agent/internal/domain/faq"
	"github.com/yanqian/faq-agent/internal/infra/config"
	"github.com/yanqian/faq-agent/internal/infra/llm/chatgpt"
	"github.com/yanqian/faq-agent/internal/infra/mail"
	httpiface "github.com/yanqian/faq-agent/internal/interface/http"
	"github.com/yanqian/faq-agent/pkg/logger"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		provideFAQConfig,
		provideAssistantConfig,
		provideAuthConfig,
		provideMailConfig,
		provideChatGPTClient,
		providePostgresPool,
		provideValkeyClient,
		provideFAQRepository,
		provideFAQStore,
		provideAuthRepository,
		provideSessionStore,
		provideJobQueue,
		provideTokenizer,
		provideEmbedder,
		provideMailer,
		provideDirectory,
		provideNotifier,
		provideArchive,
		provideInvoiceChecker,
		provideWebFetcher,
		provideLiveTV,
		faq.NewService,
		auth.NewService,
		assistant.NewService,
		wire.Struct(new(assistant.Deps), "*"),
		wire.Bind(new(faq.ChatClient), new(*chatgpt.Client)),
		wire.Bind(new(assistant.ChatClient), new(*chatgpt.Client)),
		wire.Bind(new(assistant.KnowledgeBase), new(faq.Service)),
		wire.Bind(new(assistant.AddressBook), new(*mail.Directory)),
		wire.Bind(new(assistant.Mailer), new(mail.Mailer)),
		wire.Bind(new(httpiface.HealthChecker), new(faq.Repository)),
		httpiface.NewHandler,
		httpiface.NewAuthHandler,
		httpiface.NewMCPServer,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
