// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx

import "errors"

// Recoverable presentation results. Both mean the swapchain no longer
// matches the surface and has to be recreated.
var (
	ErrOutOfDate  = errors.New("swapchain out of date")
	ErrSuboptimal = errors.New("swapchain suboptimal")
)

// Fatal configuration and setup failures.
var (
	ErrNoPhysicalDevice  = errors.New("no physical device available")
	ErrNoQueueFamily     = errors.New("no suitable queue family")
	ErrNoMemoryType      = errors.New("no suitable memory type")
	ErrNoSurfaceFormat   = errors.New("surface reports no formats")
	ErrNoSwapchainImages = errors.New("swapchain has no images")
	ErrImageCount        = errors.New("swapchain image count mismatch")
	ErrLayoutMismatch    = errors.New("image layout mismatch")
)

// IsRecoverable reports whether err only asks for a swapchain recreation.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrOutOfDate) || errors.Is(err, ErrSuboptimal)
}

// IsFatal reports whether err stops the engine. Every error that is not
// a recoverable presentation result is fatal.
func IsFatal(err error) bool {
	return err != nil && !IsRecoverable(err)
}
