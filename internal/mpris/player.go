package mpris

import (
	"context"
	"errors"
	"fmt"

	"github.com/genricoloni/playersnap/internal/bus"
	"github.com/genricoloni/playersnap/internal/domain"
	"github.com/godbus/dbus/v5"
)

const (
	// ServicePrefix is the well-known name prefix every MPRIS player registers under
	ServicePrefix = "org.mpris.MediaPlayer2."
	// ObjectPath is the object every MPRIS player exports
	ObjectPath = "/org/mpris/MediaPlayer2"

	PlayerInterface    = "org.mpris.MediaPlayer2.Player"
	TrackListInterface = "org.mpris.MediaPlayer2.TrackList"

	// NoTrack is the TrackList anchor: AddTrack after NoTrack inserts at the head of the queue
	NoTrack = dbus.ObjectPath("/org/mpris/MediaPlayer2/TrackList/NoTrack")

	metadataURL = "xesam:url"
)

// ServiceName returns the bus name of the named player (e.g. "vlc")
func ServiceName(player string) string {
	return ServicePrefix + player
}

// Property identifies one remote property read or written by capture and restore
type Property int

const (
	PropTracks Property = iota
	PropMetadata
	PropPosition
	PropPlaybackStatus
	PropVolume
	PropLoopStatus
	PropShuffle
)

type propertyRef struct {
	iface string
	name  string
}

// properties maps each record field source to its interface and property name
var properties = map[Property]propertyRef{
	PropTracks:         {TrackListInterface, "Tracks"},
	PropMetadata:       {PlayerInterface, "Metadata"},
	PropPosition:       {PlayerInterface, "Position"},
	PropPlaybackStatus: {PlayerInterface, "PlaybackStatus"},
	PropVolume:         {PlayerInterface, "Volume"},
	PropLoopStatus:     {PlayerInterface, "LoopStatus"},
	PropShuffle:        {PlayerInterface, "Shuffle"},
}

// Name returns the property's remote name
func (p Property) Name() string {
	return properties[p].name
}

// Interface returns the interface the property belongs to
func (p Property) Interface() string {
	return properties[p].iface
}

// ErrUnexpectedType is returned when a player answers with a value of the wrong D-Bus type
var ErrUnexpectedType = errors.New("unexpected value type")

// Player is a typed view of one MPRIS player reached through a bus.Client
type Player struct {
	client  bus.Client
	service string
}

// NewPlayer binds a player to the given bus name
func NewPlayer(client bus.Client, service string) *Player {
	return &Player{client: client, service: service}
}

// Service returns the bus name this player talks to
func (p *Player) Service() string {
	return p.service
}

func (p *Player) get(ctx context.Context, prop Property) (any, error) {
	v, err := p.client.GetProperty(ctx, p.service, ObjectPath, prop.Interface(), prop.Name())
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", prop.Name(), err)
	}
	return v.Value(), nil
}

func (p *Player) set(ctx context.Context, prop Property, value any) error {
	if err := p.client.SetProperty(ctx, p.service, ObjectPath, prop.Interface(), prop.Name(), value); err != nil {
		return fmt.Errorf("failed to set %s: %w", prop.Name(), err)
	}
	return nil
}

func (p *Player) call(ctx context.Context, iface, method string, args ...any) ([]any, error) {
	body, err := p.client.Call(ctx, p.service, ObjectPath, iface, method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", method, err)
	}
	return body, nil
}

func typeError(prop Property, v any) error {
	return fmt.Errorf("%w for %s: %T", ErrUnexpectedType, prop.Name(), v)
}

// Tracks returns the track ids of the current play queue
func (p *Player) Tracks(ctx context.Context) ([]dbus.ObjectPath, error) {
	v, err := p.get(ctx, PropTracks)
	if err != nil {
		return nil, err
	}
	tracks, ok := v.([]dbus.ObjectPath)
	if !ok {
		return nil, typeError(PropTracks, v)
	}
	return tracks, nil
}

// TracksMetadata calls TrackList.GetTracksMetadata for ids
func (p *Player) TracksMetadata(ctx context.Context, ids []dbus.ObjectPath) ([]map[string]dbus.Variant, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	body, err := p.call(ctx, TrackListInterface, "GetTracksMetadata", ids)
	if err != nil {
		return nil, err
	}
	var metadata []map[string]dbus.Variant
	if err := dbus.Store(body, &metadata); err != nil {
		return nil, fmt.Errorf("%w for GetTracksMetadata: %v", ErrUnexpectedType, err)
	}
	return metadata, nil
}

// TrackURIs returns the url of every queued track, in queue order
func (p *Player) TrackURIs(ctx context.Context) ([]string, error) {
	ids, err := p.Tracks(ctx)
	if err != nil {
		return nil, err
	}
	metadata, err := p.TracksMetadata(ctx, ids)
	if err != nil {
		return nil, err
	}

	uris := make([]string, 0, len(metadata))
	for i, m := range metadata {
		uri, ok := urlOf(m)
		if !ok {
			return nil, fmt.Errorf("track %d has no %s", i, metadataURL)
		}
		uris = append(uris, uri)
	}
	return uris, nil
}

// CurrentURI returns the url of the active track, or "" when nothing is loaded
func (p *Player) CurrentURI(ctx context.Context) (string, error) {
	v, err := p.get(ctx, PropMetadata)
	if err != nil {
		return "", err
	}
	metadata, ok := v.(map[string]dbus.Variant)
	if !ok {
		return "", typeError(PropMetadata, v)
	}
	uri, _ := urlOf(metadata)
	return uri, nil
}

func urlOf(metadata map[string]dbus.Variant) (string, bool) {
	v, ok := metadata[metadataURL]
	if !ok {
		return "", false
	}
	uri, ok := v.Value().(string)
	return uri, ok && uri != ""
}

// Position returns the playback offset in microseconds
func (p *Player) Position(ctx context.Context) (int64, error) {
	v, err := p.get(ctx, PropPosition)
	if err != nil {
		return 0, err
	}
	switch pos := v.(type) {
	case int64:
		return pos, nil
	case int32:
		return int64(pos), nil
	case uint64:
		return int64(pos), nil
	case uint32:
		return int64(pos), nil
	default:
		return 0, typeError(PropPosition, v)
	}
}

// PlaybackStatus returns the engine state
func (p *Player) PlaybackStatus(ctx context.Context) (domain.PlayerStatus, error) {
	v, err := p.get(ctx, PropPlaybackStatus)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", typeError(PropPlaybackStatus, v)
	}
	status := domain.PlayerStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("unknown playback status %q", s)
	}
	return status, nil
}

// Volume returns the output volume
func (p *Player) Volume(ctx context.Context) (float64, error) {
	v, err := p.get(ctx, PropVolume)
	if err != nil {
		return 0, err
	}
	vol, ok := v.(float64)
	if !ok {
		return 0, typeError(PropVolume, v)
	}
	return vol, nil
}

// LoopStatus returns the queue repeat mode
func (p *Player) LoopStatus(ctx context.Context) (domain.LoopStatus, error) {
	v, err := p.get(ctx, PropLoopStatus)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", typeError(PropLoopStatus, v)
	}
	loop := domain.LoopStatus(s)
	if !loop.Valid() {
		return "", fmt.Errorf("unknown loop status %q", s)
	}
	return loop, nil
}

// Shuffle returns the shuffle flag
func (p *Player) Shuffle(ctx context.Context) (bool, error) {
	v, err := p.get(ctx, PropShuffle)
	if err != nil {
		return false, err
	}
	shuffle, ok := v.(bool)
	if !ok {
		return false, typeError(PropShuffle, v)
	}
	return shuffle, nil
}

func (p *Player) SetShuffle(ctx context.Context, shuffle bool) error {
	return p.set(ctx, PropShuffle, shuffle)
}

func (p *Player) SetLoopStatus(ctx context.Context, loop domain.LoopStatus) error {
	return p.set(ctx, PropLoopStatus, string(loop))
}

func (p *Player) SetVolume(ctx context.Context, volume float64) error {
	return p.set(ctx, PropVolume, volume)
}

// AddTrack inserts uri right after the NoTrack anchor, i.e. at the head of the queue
func (p *Player) AddTrack(ctx context.Context, uri string, setAsCurrent bool) error {
	_, err := p.call(ctx, TrackListInterface, "AddTrack", uri, NoTrack, setAsCurrent)
	return err
}

func (p *Player) Play(ctx context.Context) error {
	_, err := p.call(ctx, PlayerInterface, "Play")
	return err
}

func (p *Player) Pause(ctx context.Context) error {
	_, err := p.call(ctx, PlayerInterface, "Pause")
	return err
}

func (p *Player) Stop(ctx context.Context) error {
	_, err := p.call(ctx, PlayerInterface, "Stop")
	return err
}

// Seek moves the playback position by offset microseconds
func (p *Player) Seek(ctx context.Context, offset int64) error {
	_, err := p.call(ctx, PlayerInterface, "Seek", offset)
	return err
}
