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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

type recorderMeterProvider struct {
	metric.MeterProvider
	called []string
}

func (p *recorderMeterProvider) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	p.called = append(p.called, name)
	return p.MeterProvider.Meter(name, opts...)
}

func TestProvider(t *testing.T) {
	t.Run("With an explicit provider", func(t *testing.T) {
		recorder := &recorderMeterProvider{MeterProvider: noop.NewMeterProvider()}
		provider := NewProvider(recorder)
		require.NotNil(t, provider.Meter())
		assert.Equal(t, []string{instrumentationName}, recorder.called)
	})
	t.Run("With the global provider", func(t *testing.T) {
		prevProvider := otel.GetMeterProvider()
		recorder := &recorderMeterProvider{MeterProvider: noop.NewMeterProvider()}
		otel.SetMeterProvider(recorder)
		t.Cleanup(func() {
			otel.SetMeterProvider(prevProvider)
		})

		provider := NewProvider(nil)
		require.NotNil(t, provider.Meter())
		assert.Equal(t, []string{instrumentationName}, recorder.called)
	})
}

func TestNewSchedulerMetric(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	schedulerMetric, err := NewSchedulerMetric(meter)
	require.NoError(t, err)
	assert.NotNil(t, schedulerMetric.QueuedJobs())
	assert.NotNil(t, schedulerMetric.ExecutedJobs())
	assert.NotNil(t, schedulerMetric.DeferredJobs())
}

func TestNewMessagingMetric(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	messagingMetric, err := NewMessagingMetric(meter)
	require.NoError(t, err)
	assert.NotNil(t, messagingMetric.HandedOut())
	assert.NotNil(t, messagingMetric.Returned())
	assert.NotNil(t, messagingMetric.Pooled())
}
