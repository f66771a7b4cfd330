package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/shiftgrid/shiftgrid/internal/config"
)

// AppContext holds the dependencies shared by all commands.
type AppContext struct {
	Ctx    context.Context
	Cfg    *config.Config
	Logger *zap.Logger
}
