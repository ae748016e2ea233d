package handlers

import "errors"

var (
	errUnknownToolkit = errors.New("unknown toolkit")
	errUnknownPlan    = errors.New("plan not found")
)
