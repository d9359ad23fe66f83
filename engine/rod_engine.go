package engine

import (
	"context"
	"fmt"
)

// BrowserFetchFunc is the callback that performs a browser-rendered fetch.
// It is injected from main.go so engine/ never imports browser/.
type BrowserFetchFunc func(ctx context.Context, req *FetchRequest) (*FetchResult, error)

// RodEngine is a browser-based engine that delegates to the rod page pool
// through a callback. With forceStealth set it always masks automation
// signals, regardless of the request.
type RodEngine struct {
	fetchFunc    BrowserFetchFunc
	forceStealth bool
	name         string
}

// NewRodEngine creates a RodEngine.
func NewRodEngine(fetchFunc BrowserFetchFunc, forceStealth bool) *RodEngine {
	name := "rod"
	if forceStealth {
		name = "rod-stealth"
	}
	return &RodEngine{
		fetchFunc:    fetchFunc,
		forceStealth: forceStealth,
		name:         name,
	}
}

func (e *RodEngine) Name() string { return e.name }

func (e *RodEngine) Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	if e.fetchFunc == nil {
		return nil, fmt.Errorf("%s: fetchFunc not configured", e.name)
	}

	r := *req
	if e.forceStealth {
		r.Stealth = true
	}

	result, err := e.fetchFunc(ctx, &r)
	if err != nil {
		return nil, err
	}

	result.EngineName = e.name
	return result, nil
}
