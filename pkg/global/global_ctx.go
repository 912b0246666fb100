package global

import (
	"go.firedancer.io/echo/pkg/features"
)

type GlobalCtx struct {
	Features features.Features
}

func NewGlobalCtxDefault() *GlobalCtx {
	features := features.NewFeaturesDefault()
	return &GlobalCtx{Features: *features}
}
