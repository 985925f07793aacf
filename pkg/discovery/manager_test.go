package discovery_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/scmi-pinctrl/pinctrl-go/pkg/discovery"
	"github.com/scmi-pinctrl/pinctrl-go/pkg/discovery/mocks"
)

func TestManagerAddRemove(t *testing.T) {
	adv := mocks.NewMockAdvertiser(t)
	m := discovery.NewManager(adv)
	ctx := context.Background()

	adv.EXPECT().AdvertiseChannel(mock.Anything, mock.MatchedBy(func(c *discovery.ChannelInfo) bool {
		return c.AgentID == 2 && c.Port == 4190
	})).Return(nil).Once()
	adv.EXPECT().AdvertiseChannel(mock.Anything, mock.MatchedBy(func(c *discovery.ChannelInfo) bool {
		return c.AgentID == 0
	})).Return(nil).Once()

	require.NoError(t, m.Add(ctx, &discovery.ChannelInfo{Responder: "board", AgentID: 2, Port: 4190}))
	require.NoError(t, m.Add(ctx, &discovery.ChannelInfo{Responder: "board", AgentID: 0, Port: 4191}))

	channels := m.Channels()
	require.Len(t, channels, 2)
	assert.Equal(t, uint32(0), channels[0].AgentID)
	assert.Equal(t, uint32(2), channels[1].AgentID)

	adv.EXPECT().StopChannel(uint32(2)).Return(nil).Once()
	require.NoError(t, m.Remove(2))
	assert.ErrorIs(t, m.Remove(2), discovery.ErrNotFound)
	assert.Len(t, m.Channels(), 1)
}

func TestManagerRejectsInvalidChannel(t *testing.T) {
	adv := mocks.NewMockAdvertiser(t)
	m := discovery.NewManager(adv)

	err := m.Add(context.Background(), &discovery.ChannelInfo{AgentID: 1})
	assert.ErrorIs(t, err, discovery.ErrInvalidPort)
	assert.Empty(t, m.Channels())
}

func TestManagerAdvertiserFailure(t *testing.T) {
	adv := mocks.NewMockAdvertiser(t)
	m := discovery.NewManager(adv)
	boom := errors.New("no multicast")

	adv.EXPECT().AdvertiseChannel(mock.Anything, mock.Anything).Return(boom)

	err := m.Add(context.Background(), &discovery.ChannelInfo{AgentID: 1, Port: 1})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, m.Channels())
}

func TestManagerClose(t *testing.T) {
	adv := mocks.NewMockAdvertiser(t)
	m := discovery.NewManager(adv)

	adv.EXPECT().AdvertiseChannel(mock.Anything, mock.Anything).Return(nil).Once()
	adv.EXPECT().StopAll().Return().Once()

	require.NoError(t, m.Add(context.Background(), &discovery.ChannelInfo{AgentID: 1, Port: 1}))
	m.Close()
	m.Close()

	assert.Empty(t, m.Channels())
	err := m.Add(context.Background(), &discovery.ChannelInfo{AgentID: 1, Port: 1})
	assert.ErrorIs(t, err, discovery.ErrManagerClosed)
}
