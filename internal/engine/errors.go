package engine

import "errors"

var (
	// ErrInvalidParameter indicates a rejected reconfiguration. State is unchanged.
	ErrInvalidParameter = errors.New("invalid limiter parameter")

	// ErrBufferTooLarge indicates the requested ceilings need more state than MaxBufferSamples.
	ErrBufferTooLarge = errors.New("limiter buffers too large")
)
