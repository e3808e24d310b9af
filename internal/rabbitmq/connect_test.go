package rabbitmq

import (
	"errors"
	"testing"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type channelMock struct {
	mock.Mock
}

func (m *channelMock) Qos(prefetchCount, prefetchSize int, global bool) error {
	return m.Called(prefetchCount, prefetchSize, global).Error(0)
}

func (m *channelMock) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	return m.Called(name, kind).Error(0)
}

func (m *channelMock) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	ret := m.Called(name)
	return amqp.Queue{Name: name}, ret.Error(0)
}

func (m *channelMock) QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error {
	return m.Called(name, key, exchange).Error(0)
}

func (m *channelMock) Close() error {
	return m.Called().Error(0)
}

func TestDeclareBookingTopology(t *testing.T) {
	brokerErr := errors.New("channel/connection is not open")
	queues := GetBookingQueues()

	cases := []struct {
		name      string
		setup     func(m *channelMock)
		wantErr   bool
		wantClose bool
	}{
		{
			name: "success",
			setup: func(m *channelMock) {
				m.On("Qos", 10, 0, false).Return(nil)
				m.On("ExchangeDeclare", "bookings", "direct").Return(nil)
				m.On("QueueDeclare", QueueBookingCreated).Return(nil)
				m.On("QueueBind", QueueBookingCreated, RoutingKeyBookingCreated, "bookings").Return(nil)
			},
		},
		{
			name: "qos fails",
			setup: func(m *channelMock) {
				m.On("Qos", 10, 0, false).Return(brokerErr)
			},
			wantErr:   true,
			wantClose: true,
		},
		{
			name: "exchange declare fails",
			setup: func(m *channelMock) {
				m.On("Qos", 10, 0, false).Return(nil)
				m.On("ExchangeDeclare", "bookings", "direct").Return(brokerErr)
			},
			wantErr:   true,
			wantClose: true,
		},
		{
			name: "queue declare fails",
			setup: func(m *channelMock) {
				m.On("Qos", 10, 0, false).Return(nil)
				m.On("ExchangeDeclare", "bookings", "direct").Return(nil)
				m.On("QueueDeclare", QueueBookingCreated).Return(brokerErr)
			},
			wantErr:   true,
			wantClose: true,
		},
		{
			name: "queue bind fails",
			setup: func(m *channelMock) {
				m.On("Qos", 10, 0, false).Return(nil)
				m.On("ExchangeDeclare", "bookings", "direct").Return(nil)
				m.On("QueueDeclare", QueueBookingCreated).Return(nil)
				m.On("QueueBind", QueueBookingCreated, RoutingKeyBookingCreated, "bookings").Return(brokerErr)
			},
			wantErr:   true,
			wantClose: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ch := &channelMock{}
			tc.setup(ch)
			if tc.wantClose {
				ch.On("Close").Return(nil).Once()
			}

			err := declareBookingTopology(ch, "bookings", queues)

			if tc.wantErr {
				assert.ErrorIs(t, err, brokerErr)
			} else {
				assert.NoError(t, err)
			}
			ch.AssertExpectations(t)
			if !tc.wantClose {
				ch.AssertNotCalled(t, "Close")
			}
		})
	}
}
