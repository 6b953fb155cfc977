// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package osutil

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/mgukowsky/Omulator-sub000/log"
)

// ShutdownHook is executed on receiving a SIGTERM or SIGINT signal.
type ShutdownHook func(sig os.Signal)

// HandleSignals runs hook once, on the first SIGINT or SIGTERM received.
// The returned function stops listening and waits for a running hook to return.
// Signals received afterwards get their default behavior back.
func HandleSignals(logger log.Logger, hook ShutdownHook) (stop func()) {
	notifier := make(chan os.Signal, 1)
	signal.Notify(notifier, syscall.SIGINT, syscall.SIGTERM)

	cancel := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer signal.Stop(notifier)
		select {
		case sig := <-notifier:
			logger.Infof("received an OS signal (%s) to shutdown", sig.String())
			hook(sig)
		case <-cancel:
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(cancel) })
		<-done
	}
}
