package mpris

import (
	"context"
	"fmt"
	"testing"

	busmocks "github.com/genricoloni/playersnap/internal/bus/mocks"
	"github.com/genricoloni/playersnap/internal/domain"
	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testService = "org.mpris.MediaPlayer2.vlc"

func TestServiceName(t *testing.T) {
	assert.Equal(t, testService, ServiceName("vlc"))
}

func TestPropertyMapping(t *testing.T) {
	tests := []struct {
		prop  Property
		iface string
		name  string
	}{
		{PropTracks, TrackListInterface, "Tracks"},
		{PropMetadata, PlayerInterface, "Metadata"},
		{PropPosition, PlayerInterface, "Position"},
		{PropPlaybackStatus, PlayerInterface, "PlaybackStatus"},
		{PropVolume, PlayerInterface, "Volume"},
		{PropLoopStatus, PlayerInterface, "LoopStatus"},
		{PropShuffle, PlayerInterface, "Shuffle"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.iface, tt.prop.Interface(), tt.name)
		assert.Equal(t, tt.name, tt.prop.Name())
	}
}

func expectGet(m *busmocks.MockClient, iface, key string, value any) {
	m.EXPECT().GetProperty(gomock.Any(), testService, ObjectPath, iface, key).
		Return(dbus.MakeVariant(value), nil)
}

// TestReaders_TypeSafety feeds every reader both well-typed and malformed values
func TestReaders_TypeSafety(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     any
		read      func(*Player) (any, error)
		expected  any
		expectErr error
		anyErr    bool
	}{
		{
			name:     "Position int64",
			key:      "Position",
			value:    int64(1500000),
			read:     func(p *Player) (any, error) { return p.Position(context.Background()) },
			expected: int64(1500000),
		},
		{
			name:     "Position uint32",
			key:      "Position",
			value:    uint32(7),
			read:     func(p *Player) (any, error) { return p.Position(context.Background()) },
			expected: int64(7),
		},
		{
			name:      "Position String",
			key:       "Position",
			value:     "1500000",
			read:      func(p *Player) (any, error) { return p.Position(context.Background()) },
			expectErr: ErrUnexpectedType,
		},
		{
			name:     "Volume",
			key:      "Volume",
			value:    0.25,
			read:     func(p *Player) (any, error) { return p.Volume(context.Background()) },
			expected: 0.25,
		},
		{
			name:      "Volume Int",
			key:       "Volume",
			value:     int32(1),
			read:      func(p *Player) (any, error) { return p.Volume(context.Background()) },
			expectErr: ErrUnexpectedType,
		},
		{
			name:     "PlaybackStatus",
			key:      "PlaybackStatus",
			value:    "Playing",
			read:     func(p *Player) (any, error) { return p.PlaybackStatus(context.Background()) },
			expected: domain.StatusPlaying,
		},
		{
			name:   "PlaybackStatus Unknown",
			key:    "PlaybackStatus",
			value:  "Buffering",
			read:   func(p *Player) (any, error) { return p.PlaybackStatus(context.Background()) },
			anyErr: true,
		},
		{
			name:      "PlaybackStatus Array",
			key:       "PlaybackStatus",
			value:     []string{"Playing"},
			read:      func(p *Player) (any, error) { return p.PlaybackStatus(context.Background()) },
			expectErr: ErrUnexpectedType,
		},
		{
			name:     "LoopStatus",
			key:      "LoopStatus",
			value:    "Playlist",
			read:     func(p *Player) (any, error) { return p.LoopStatus(context.Background()) },
			expected: domain.LoopPlaylist,
		},
		{
			name:   "LoopStatus Unknown",
			key:    "LoopStatus",
			value:  "Forever",
			read:   func(p *Player) (any, error) { return p.LoopStatus(context.Background()) },
			anyErr: true,
		},
		{
			name:     "Shuffle",
			key:      "Shuffle",
			value:    true,
			read:     func(p *Player) (any, error) { return p.Shuffle(context.Background()) },
			expected: true,
		},
		{
			name:      "Shuffle String",
			key:       "Shuffle",
			value:     "true",
			read:      func(p *Player) (any, error) { return p.Shuffle(context.Background()) },
			expectErr: ErrUnexpectedType,
		},
		{
			name:     "Current URI",
			key:      "Metadata",
			value:    map[string]dbus.Variant{"xesam:url": dbus.MakeVariant("file:///a.ogg")},
			read:     func(p *Player) (any, error) { return p.CurrentURI(context.Background()) },
			expected: "file:///a.ogg",
		},
		{
			name:     "Current URI Nothing Loaded",
			key:      "Metadata",
			value:    map[string]dbus.Variant{},
			read:     func(p *Player) (any, error) { return p.CurrentURI(context.Background()) },
			expected: "",
		},
		{
			name:      "Metadata Int",
			key:       "Metadata",
			value:     12345,
			read:      func(p *Player) (any, error) { return p.CurrentURI(context.Background()) },
			expectErr: ErrUnexpectedType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			client := busmocks.NewMockClient(ctrl)
			expectGet(client, PlayerInterface, tt.key, tt.value)

			got, err := tt.read(NewPlayer(client, testService))

			if tt.expectErr != nil || tt.anyErr {
				require.Error(t, err, "got value %v", got)
				if tt.expectErr != nil {
					assert.ErrorIs(t, err, tt.expectErr)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestTrackURIs(t *testing.T) {
	ids := []dbus.ObjectPath{"/tracks/1", "/tracks/2"}

	tests := []struct {
		name     string
		setup    func(*busmocks.MockClient)
		expected []string
		anyErr   bool
	}{
		{
			name: "Queue In Order",
			setup: func(m *busmocks.MockClient) {
				expectGet(m, TrackListInterface, "Tracks", ids)
				m.EXPECT().Call(gomock.Any(), testService, ObjectPath, TrackListInterface, "GetTracksMetadata", ids).
					Return([]any{[]map[string]dbus.Variant{
						{"xesam:url": dbus.MakeVariant("a"), "mpris:trackid": dbus.MakeVariant(ids[0])},
						{"xesam:url": dbus.MakeVariant("b"), "mpris:trackid": dbus.MakeVariant(ids[1])},
					}}, nil)
			},
			expected: []string{"a", "b"},
		},
		{
			name: "Empty Queue Skips Metadata Call",
			setup: func(m *busmocks.MockClient) {
				expectGet(m, TrackListInterface, "Tracks", []dbus.ObjectPath{})
			},
			expected: []string{},
		},
		{
			name: "Track Without URL",
			setup: func(m *busmocks.MockClient) {
				expectGet(m, TrackListInterface, "Tracks", ids)
				m.EXPECT().Call(gomock.Any(), testService, ObjectPath, TrackListInterface, "GetTracksMetadata", ids).
					Return([]any{[]map[string]dbus.Variant{
						{"xesam:url": dbus.MakeVariant("a")},
						{"xesam:title": dbus.MakeVariant("stream")},
					}}, nil)
			},
			anyErr: true,
		},
		{
			name: "Malformed Metadata Reply",
			setup: func(m *busmocks.MockClient) {
				expectGet(m, TrackListInterface, "Tracks", ids)
				m.EXPECT().Call(gomock.Any(), testService, ObjectPath, TrackListInterface, "GetTracksMetadata", ids).
					Return([]any{"not a list"}, nil)
			},
			anyErr: true,
		},
		{
			name: "Tracks Unavailable",
			setup: func(m *busmocks.MockClient) {
				m.EXPECT().GetProperty(gomock.Any(), testService, ObjectPath, TrackListInterface, "Tracks").
					Return(dbus.Variant{}, fmt.Errorf("no such interface"))
			},
			anyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			client := busmocks.NewMockClient(ctrl)
			tt.setup(client)

			uris, err := NewPlayer(client, testService).TrackURIs(context.Background())
			if tt.anyErr {
				assert.Error(t, err, "got %v", uris)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, uris)
		})
	}
}

func TestControls(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := busmocks.NewMockClient(ctrl)
	ctx := context.Background()

	gomock.InOrder(
		client.EXPECT().Call(gomock.Any(), testService, ObjectPath, TrackListInterface, "AddTrack", "file:///a.ogg", NoTrack, true).Return(nil, nil),
		client.EXPECT().Call(gomock.Any(), testService, ObjectPath, PlayerInterface, "Play").Return(nil, nil),
		client.EXPECT().SetProperty(gomock.Any(), testService, ObjectPath, PlayerInterface, "LoopStatus", "Playlist").Return(nil),
		client.EXPECT().Call(gomock.Any(), testService, ObjectPath, PlayerInterface, "Seek", int64(-2000000)).Return(nil, nil),
		client.EXPECT().Call(gomock.Any(), testService, ObjectPath, PlayerInterface, "Stop").Return(nil, fmt.Errorf("not supported")),
	)

	p := NewPlayer(client, testService)
	require.NoError(t, p.AddTrack(ctx, "file:///a.ogg", true))
	require.NoError(t, p.Play(ctx))
	require.NoError(t, p.SetLoopStatus(ctx, domain.LoopPlaylist))
	require.NoError(t, p.Seek(ctx, -2000000))
	assert.Error(t, p.Stop(ctx), "Stop error must propagate")
}
