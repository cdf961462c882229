package services

import (
	"context"
	"fmt"

	"github.com/spinshelf/spinshelf-backend/internal/domain"
	"github.com/spinshelf/spinshelf-backend/internal/platform/apierr"
	"github.com/spinshelf/spinshelf-backend/internal/prompts"
	"github.com/spinshelf/spinshelf-backend/internal/repair"
	"github.com/spinshelf/spinshelf-backend/internal/sanitize"
)

// SetupGuide generates a connection and configuration guide for the user's
// equipment. A guide with neither a signal chain nor connections means the
// model failed the task, so the caller gets a retryable processing error.
func (s *AIService) SetupGuide(ctx context.Context, gear []domain.GearItem) (*domain.SetupGuideResult, error) {
	if len(gear) == 0 {
		return nil, apierr.BadRequest("missing_gear", fmt.Errorf("gear list is required"))
	}
	for i := range gear {
		gear[i].Type = sanitize.Clean(gear[i].Type, maxNameChars)
		gear[i].Brand = sanitize.Clean(gear[i].Brand, maxNameChars)
		gear[i].Model = sanitize.Clean(gear[i].Model, maxNameChars)
	}

	gearJSON, err := marshalGear(gear)
	if err != nil {
		return nil, apierr.Internal("gear_context", err)
	}
	p, err := prompts.Build(prompts.PromptSetupGuide, prompts.Input{GearJSON: gearJSON})
	if err != nil {
		return nil, apierr.Internal("prompt_build", err)
	}
	raw, err := s.heavy.GenerateJSON(ctx, p.System, p.User, p.SchemaName, p.Schema)
	if err != nil {
		return nil, apierr.BadGateway("model_unavailable", err)
	}

	obj, repaired := repair.Object(raw, p.Schema)
	if repaired {
		s.log.Warn("setup guide response repaired", "prompt", p.Name)
	}

	res := &domain.SetupGuideResult{
		SignalChain: make([]domain.SignalChainItem, 0),
		Connections: make([]domain.Connection, 0),
		Settings:    make([]domain.Setting, 0),
		Tips:        repair.StringsOf(obj, "tips"),
		Warnings:    repair.StringsOf(obj, "warnings"),
	}
	for _, it := range repair.ObjectsOf(obj, "signal_chain") {
		pos := 0
		if v := repair.IntPtrOf(it, "position"); v != nil {
			pos = *v
		}
		res.SignalChain = append(res.SignalChain, domain.SignalChainItem{
			Position: pos,
			Item:     repair.StringOf(it, "item"),
			Role:     repair.StringOf(it, "role"),
		})
	}
	for _, it := range repair.ObjectsOf(obj, "connections") {
		res.Connections = append(res.Connections, domain.Connection{
			From:  repair.StringOf(it, "from"),
			To:    repair.StringOf(it, "to"),
			Cable: repair.StringOf(it, "cable"),
		})
	}
	for _, it := range repair.ObjectsOf(obj, "settings") {
		res.Settings = append(res.Settings, domain.Setting{
			Item:    repair.StringOf(it, "item"),
			Setting: repair.StringOf(it, "setting"),
			Value:   repair.StringOf(it, "value"),
		})
	}

	if len(res.SignalChain) == 0 && len(res.Connections) == 0 {
		return nil, apierr.Internal("incomplete_setup_guide",
			fmt.Errorf("AI returned an incomplete setup guide. Please try again."))
	}
	return res, nil
}
