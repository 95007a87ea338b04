//go:build linux
// +build linux

// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package fuse

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"
	osutils "github.com/ostafen/extractinator/pkg/util/os"
)

const maxUnmountRetries = 3

// Mount serves entries read-only at mountpoint until an interrupt or
// termination signal is received, or ctx is done, and the filesystem is
// unmounted. A missing mountpoint is created and removed on return.
func Mount(ctx context.Context, mountpoint string, entries []Entry, log *slog.Logger) error {
	created, err := osutils.EnsureDir(mountpoint, true)
	if err != nil {
		return fmt.Errorf("invalid mountpoint: %w", err)
	}
	if created {
		defer os.Remove(mountpoint)
	}

	c, err := fuse.Mount(mountpoint, fuse.ReadOnly(), fuse.FSName("extractinator"))
	if err != nil {
		return err
	}
	defer c.Close()

	afs := NewArtifactFS(entries)

	served := make(chan error, 1)
	go func() {
		served <- fusefs.New(c, nil).Serve(afs)
	}()

	log.Info(fmt.Sprintf("Mounted %d files at %s", len(entries), mountpoint))
	return waitForUnmount(ctx, mountpoint, served, log)
}

func waitForUnmount(ctx context.Context, mountpoint string, served <-chan error, log *slog.Logger) error {
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigc)

	log.Info("Waiting for termination signal...")

	done := ctx.Done()
	unmountAttempts := 0
	for {
		select {
		case err := <-served:
			// the connection was closed, e.g. by an external umount
			return err
		case <-done:
			done = nil
			log.Info("Context done.")
		case sig := <-sigc:
			log.Info(fmt.Sprintf("Signal received: %v.", sig))
		}

		if unmountAttempts >= maxUnmountRetries {
			return fmt.Errorf("unable to unmount %s after %d attempts", mountpoint, maxUnmountRetries)
		}

		unmountAttempts++
		log.Info(fmt.Sprintf("Attempting unmount of %s (attempt %d/%d)...", mountpoint, unmountAttempts, maxUnmountRetries))
		if err := fuse.Unmount(mountpoint); err != nil {
			log.Warn(fmt.Sprintf("Unmount failed: %v. Remaining retries: %d. Waiting for another signal to retry...",
				err, maxUnmountRetries-unmountAttempts))
			continue
		}

		log.Info("Unmounted successfully, exiting.")
		return <-served
	}
}
