package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/eltonarunga/lugha-learner-kenya/internal/app"
	"github.com/eltonarunga/lugha-learner-kenya/internal/conversation"
	"github.com/eltonarunga/lugha-learner-kenya/internal/llm"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screens/env"
	"github.com/eltonarunga/lugha-learner-kenya/internal/submit"
	"github.com/spf13/cobra"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	d, err := openDeps(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	eventRepo := d.store.EventRepo()
	e := &env.Env{
		Session: d.session,
		Backend: d.backend,
		Submitter: submit.New(d.backend, eventRepo,
			submit.WithLogger(d.logger),
			submit.WithUser(func() string { return d.session.Snapshot().UserID() }),
		),
		Logger:           d.logger,
		RequestTimeout:   d.cfg.RequestTimeout,
		LeaderboardLimit: d.cfg.LeaderboardLimit,
		Now:              time.Now,
	}

	llmCfg := llm.Resolve()
	provider, err := llm.NewProvider(ctx, llmCfg, eventRepo, d.logger)
	switch {
	case errors.Is(err, llm.ErrDisabled):
		d.logger.Info("no LLM provider configured, conversations stay scripted")
	case err != nil:
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Conversation practice will use scripted replies.")
	default:
		e.Partner = conversation.NewLLMPartner(provider)
		e.PartnerTimeout = llmCfg.Timeout
		d.logger.Info("conversation partner ready", "provider", llmCfg.Provider, "model", provider.ModelID())
	}

	return app.Run(e)
}
