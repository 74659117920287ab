package main

import (
	"fmt"
	"log/slog"

	"github.com/GoSim-25-26J-441/system-autopsy/internal/autopsyd"
	"github.com/GoSim-25-26J-441/system-autopsy/internal/explain"
	"github.com/GoSim-25-26J-441/system-autopsy/internal/simulation"
	"github.com/GoSim-25-26J-441/system-autopsy/pkg/config"
	"github.com/GoSim-25-26J-441/system-autopsy/pkg/utils"
)

// app wires the simulation pipeline and explainer from a resolved config.
type app struct {
	cfg       *config.Config
	explainer *explain.Explainer
	service   *autopsyd.Service
}

func newApp(c *config.Config, log *slog.Logger) (*app, error) {
	explainer, err := newExplainer(c.Explainer, log)
	if err != nil {
		return nil, err
	}
	orch := simulation.New(utils.NewRandSource(c.Simulation.Seed), simulation.WithLogger(log))
	return &app{
		cfg:       c,
		explainer: explainer,
		service:   autopsyd.NewService(orch, explainer),
	}, nil
}

func newExplainer(c config.ExplainerConfig, log *slog.Logger) (*explain.Explainer, error) {
	if !c.Enabled {
		return explain.NewExplainer(nil, explain.WithLogger(log)), nil
	}
	timeout, err := c.GetTimeout()
	if err != nil {
		return nil, fmt.Errorf("explainer timeout: %w", err)
	}
	cooldown, err := c.GetCooldown()
	if err != nil {
		return nil, fmt.Errorf("explainer cooldown: %w", err)
	}
	return explain.NewExplainer(
		explain.NewOllamaClient(c.Endpoint, c.Model),
		explain.WithTimeout(timeout),
		explain.WithBreaker(explain.NewBreaker(c.FailureThreshold, cooldown)),
		explain.WithLogger(log),
	), nil
}
