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

package metric

import "go.opentelemetry.io/otel/metric"

// MessagingMetric groups the instruments describing message queue storage reuse.
type MessagingMetric struct {
	handedOut metric.Int64ObservableCounter
	returned  metric.Int64ObservableCounter
	pooled    metric.Int64ObservableGauge
}

// NewMessagingMetric creates the messaging instruments using the provided Meter
func NewMessagingMetric(meter metric.Meter) (*MessagingMetric, error) {
	var instruments MessagingMetric
	var err error

	if instruments.handedOut, err = meter.Int64ObservableCounter(
		"messaging.queues.handed_out",
		metric.WithDescription("Total number of message queues handed out by the factory"),
	); err != nil {
		return nil, err
	}

	if instruments.returned, err = meter.Int64ObservableCounter(
		"messaging.queues.returned",
		metric.WithDescription("Total number of message queues submitted back to the factory"),
	); err != nil {
		return nil, err
	}

	if instruments.pooled, err = meter.Int64ObservableGauge(
		"messaging.queues.pooled",
		metric.WithDescription("Number of message queue storages ready for reuse"),
	); err != nil {
		return nil, err
	}

	return &instruments, nil
}

// HandedOut returns the handed out queues counter
func (x *MessagingMetric) HandedOut() metric.Int64ObservableCounter {
	return x.handedOut
}

// Returned returns the returned queues counter
func (x *MessagingMetric) Returned() metric.Int64ObservableCounter {
	return x.returned
}

// Pooled returns the pooled storages gauge
func (x *MessagingMetric) Pooled() metric.Int64ObservableGauge {
	return x.pooled
}
