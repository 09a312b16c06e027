package compat

import "errors"

// Sentinel errors for compatibility data loading.
var (
	ErrSpecMap = errors.New("failed to load spec map")
	ErrDataset = errors.New("failed to load compatibility dataset")
)
