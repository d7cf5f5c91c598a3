// SPDX-FileCopyrightText: 2026 The mwa-go contributors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package association

import (
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
)

// Platform abstracts the host environment capabilities the launcher needs:
// triggering a custom-scheme URL and observing loss of foreground focus.
// It is an injected dependency, never discovered from process globals.
type Platform interface {
	// OpenURL triggers the invocation URL. It may return
	// ErrReplacesContext if opening the URL would navigate away from the
	// caller's current context.
	OpenURL(url string) error

	// FocusLost delivers a signal once the host application loses
	// foreground focus. A Platform without any focus signal returns nil;
	// such platforms need Launcher.AssumeClaimed.
	FocusLost() <-chan struct{}
}

// DetachedOpener is implemented by platforms whose primary OpenURL is an
// inherently synchronous navigation. The launcher falls back to
// OpenURLDetached on such platforms so the caller's context survives the
// trigger.
type DetachedOpener interface {
	OpenURLDetached(url string) error
}

var (
	// ErrHandlerNotFound means no wallet claimed the invocation within the
	// detection window. Fatal; the session is never retried.
	ErrHandlerNotFound = errors.New("no wallet claimed the association invocation")

	// ErrReplacesContext is returned by a Platform whose OpenURL would
	// discard the current context, requesting the detached fallback.
	ErrReplacesContext = errors.New("opening the URL would replace the current context")
)

// DetectionWindow is how long a Launcher waits for a focus change after
// triggering the URL. The invocation mechanism itself gives no
// acknowledgment of whether a handler exists, so losing focus within this
// window is the only evidence that some external handler claimed the URL.
// This is a best-effort heuristic, not a guarantee.
const DetectionWindow = 3 * time.Second

// Launcher triggers an invocation URL and decides whether a wallet
// launched.
type Launcher struct {
	Platform Platform

	// Window overrides DetectionWindow if positive.
	Window time.Duration

	// AssumeClaimed skips focus-loss detection entirely. It is the escape
	// hatch for platforms that never deliver a focus-loss-equivalent
	// signal; there the heuristic cannot work and failing with
	// ErrHandlerNotFound would be wrong.
	AssumeClaimed bool
}

// Launch triggers url and waits for evidence that an external handler
// claimed it, or fails with ErrHandlerNotFound once the detection window
// elapsed with focus unchanged.
func (l Launcher) Launch(url string) error {
	if err := l.Platform.OpenURL(url); err != nil {
		opener, ok := l.Platform.(DetachedOpener)
		if !ok || !errors.Is(err, ErrReplacesContext) {
			return err
		}

		log.WithField("url", url).Debug("Falling back to detached URL trigger")
		if err := opener.OpenURLDetached(url); err != nil {
			return err
		}
	}

	if l.AssumeClaimed {
		return nil
	}

	window := l.Window
	if window <= 0 {
		window = DetectionWindow
	}

	timer := time.NewTimer(window)
	defer timer.Stop()

	select {
	case <-l.Platform.FocusLost():
		log.Debug("Focus lost, assuming a wallet claimed the invocation")
		return nil

	case <-timer.C:
		return ErrHandlerNotFound
	}
}
