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

//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package killable

import (
	"io"
	"os"
	"syscall"
)

// pollableFile returns a non-blocking duplicate of reader when it is an *os.File.
// O_NONBLOCK is shared by every descriptor of the open file, so the wrapped
// file switches to non-blocking mode as well.
func pollableFile(reader io.Reader) (*os.File, bool) {
	file, ok := reader.(*os.File)
	if !ok {
		return nil, false
	}
	fd, err := syscall.Dup(int(file.Fd()))
	if err != nil {
		return nil, false
	}
	if err := syscall.SetNonblock(fd, true); err != nil {
		_ = syscall.Close(fd)
		return nil, false
	}
	// NewFile registers a non-blocking descriptor with the runtime poller
	return os.NewFile(uintptr(fd), file.Name()), true
}
